// internal/meld/meld.go
package meld

import (
	"sort"

	"github.com/jason-s-yu/ginrummy/internal/models"
)

// Kind classifies a group of cards.
type Kind int

const (
	Invalid Kind = iota
	Run
	Set
)

func (k Kind) String() string {
	switch k {
	case Run:
		return "run"
	case Set:
		return "set"
	default:
		return "invalid"
	}
}

// MinSize is the fewest cards a run or set may hold.
const MinSize = 3

// Layoff is a card another player placed on a meld they do not own.
type Layoff struct {
	Card models.Card     `json:"card"`
	By   models.PlayerID `json:"by"`
}

// Meld is a grouping of cards built by its owner. Validity is not enforced while the
// meld is being built; scoring decides whether it counts.
type Meld struct {
	ID      int           `json:"id"`
	Cards   []models.Card `json:"cards"`
	Layoffs []Layoff      `json:"layoffs,omitempty"`
}

// Kind classifies the owner's cards, ignoring layoffs.
func (m Meld) Kind() Kind {
	return Classify(m.Cards)
}

// AllCards returns the owner's cards followed by every laid-off card.
func (m Meld) AllCards() []models.Card {
	out := make([]models.Card, 0, len(m.Cards)+len(m.Layoffs))
	out = append(out, m.Cards...)
	for _, l := range m.Layoffs {
		out = append(out, l.Card)
	}
	return out
}

func (m Meld) clone() Meld {
	c := Meld{ID: m.ID}
	c.Cards = append([]models.Card(nil), m.Cards...)
	c.Layoffs = append([]Layoff(nil), m.Layoffs...)
	return c
}

// Classify reports whether cards form a run, a set, or neither.
func Classify(cards []models.Card) Kind {
	if len(cards) < MinSize {
		return Invalid
	}
	if isSet(cards) {
		return Set
	}
	if isRun(cards) {
		return Run
	}
	return Invalid
}

// IsValid is shorthand for Classify(cards) != Invalid.
func IsValid(cards []models.Card) bool {
	return Classify(cards) != Invalid
}

// isSet: same rank, every suit distinct.
func isSet(cards []models.Card) bool {
	rank := cards[0].Rank
	suits := make(map[models.Suit]bool, len(cards))
	for _, c := range cards {
		if c.Rank != rank || suits[c.Suit] {
			return false
		}
		suits[c.Suit] = true
	}
	return true
}

// isRun: same suit, ranks consecutive once sorted. Aces are low only.
func isRun(cards []models.Card) bool {
	suit := cards[0].Suit
	ranks := make([]int, 0, len(cards))
	for _, c := range cards {
		if c.Suit != suit {
			return false
		}
		ranks = append(ranks, int(c.Rank))
	}
	sort.Ints(ranks)
	for i := 1; i < len(ranks); i++ {
		if ranks[i] != ranks[i-1]+1 {
			return false
		}
	}
	return true
}
