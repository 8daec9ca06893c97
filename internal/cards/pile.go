// internal/cards/pile.go
package cards

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/jason-s-yu/ginrummy/internal/models"
)

var (
	// ErrDeckExhausted is returned when drawing from an empty deck. It signals a broken hand.
	ErrDeckExhausted = errors.New("deck exhausted")
	// ErrPileEmpty is returned when drawing from an empty discard pile.
	ErrPileEmpty = errors.New("discard pile empty")
	// ErrInvalidIndex is returned for any position outside a pile's bounds.
	ErrInvalidIndex = errors.New("invalid index")
)

// Pile is an ordered collection of cards. The top of the pile is the last element.
type Pile struct {
	cards []models.Card
}

// NewPile builds a pile holding a copy of cs, bottom first.
func NewPile(cs ...models.Card) Pile {
	p := Pile{cards: make([]models.Card, len(cs))}
	copy(p.cards, cs)
	return p
}

// Len returns the number of cards in the pile.
func (p *Pile) Len() int {
	return len(p.cards)
}

// Cards returns a copy of the pile, bottom first.
func (p *Pile) Cards() []models.Card {
	out := make([]models.Card, len(p.cards))
	copy(out, p.cards)
	return out
}

// At returns the card at position i without removing it.
func (p *Pile) At(i int) (models.Card, error) {
	if i < 0 || i >= len(p.cards) {
		return models.Card{}, fmt.Errorf("%w: %d (size %d)", ErrInvalidIndex, i, len(p.cards))
	}
	return p.cards[i], nil
}

// Push puts c on top of the pile.
func (p *Pile) Push(c models.Card) {
	p.cards = append(p.cards, c)
}

// Pop removes and returns the top card. ok is false when the pile is empty.
func (p *Pile) Pop() (c models.Card, ok bool) {
	n := len(p.cards)
	if n == 0 {
		return models.Card{}, false
	}
	c = p.cards[n-1]
	p.cards = p.cards[:n-1]
	return c, true
}

// PeekTop returns up to n cards from the top, topmost first. The pile is not modified.
func (p *Pile) PeekTop(n int) []models.Card {
	if n > len(p.cards) {
		n = len(p.cards)
	}
	if n <= 0 {
		return nil
	}
	out := make([]models.Card, 0, n)
	for i := len(p.cards) - 1; i >= len(p.cards)-n; i-- {
		out = append(out, p.cards[i])
	}
	return out
}

// RemoveAt removes and returns the card at position i.
func (p *Pile) RemoveAt(i int) (models.Card, error) {
	if i < 0 || i >= len(p.cards) {
		return models.Card{}, fmt.Errorf("%w: %d (size %d)", ErrInvalidIndex, i, len(p.cards))
	}
	c := p.cards[i]
	p.cards = append(p.cards[:i], p.cards[i+1:]...)
	return c, nil
}

// Insert places c at position i, shifting later cards up. i may equal Len().
func (p *Pile) Insert(i int, c models.Card) error {
	if i < 0 || i > len(p.cards) {
		return fmt.Errorf("%w: %d (size %d)", ErrInvalidIndex, i, len(p.cards))
	}
	p.cards = append(p.cards, models.Card{})
	copy(p.cards[i+1:], p.cards[i:])
	p.cards[i] = c
	return nil
}

// Contains reports whether c is somewhere in the pile.
func (p *Pile) Contains(c models.Card) bool {
	for _, pc := range p.cards {
		if pc == c {
			return true
		}
	}
	return false
}

// Shuffle permutes the pile in place with a Fisher-Yates shuffle driven by r.
func (p *Pile) Shuffle(r *rand.Rand) {
	r.Shuffle(len(p.cards), func(i, j int) {
		p.cards[i], p.cards[j] = p.cards[j], p.cards[i]
	})
}
