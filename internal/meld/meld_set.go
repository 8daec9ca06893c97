// internal/meld/meld_set.go
package meld

import (
	"errors"
	"fmt"

	"github.com/jason-s-yu/ginrummy/internal/cards"
	"github.com/jason-s-yu/ginrummy/internal/models"
)

var (
	// ErrIndexOutOfRange is returned when a hand or meld index does not exist.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrMeldHasLayoffs is returned when disbanding a meld an opponent has already built on.
	ErrMeldHasLayoffs = errors.New("meld has layoffs")
)

// MeldSet is the ordered list of melds one player has built this hand.
// Melds are addressed by position; disbanding renumbers the melds after it.
type MeldSet struct {
	melds  []*Meld
	nextID int
}

// Len returns the number of melds.
func (s *MeldSet) Len() int {
	return len(s.melds)
}

// Melds returns copies of every meld in order.
func (s *MeldSet) Melds() []Meld {
	out := make([]Meld, 0, len(s.melds))
	for _, m := range s.melds {
		out = append(out, m.clone())
	}
	return out
}

// Get returns a copy of the meld at meldIndex.
func (s *MeldSet) Get(meldIndex int) (Meld, error) {
	m, err := s.meldAt(meldIndex)
	if err != nil {
		return Meld{}, err
	}
	return m.clone(), nil
}

// CardCount counts every card held in the set, layoffs included.
func (s *MeldSet) CardCount() int {
	n := 0
	for _, m := range s.melds {
		n += len(m.Cards) + len(m.Layoffs)
	}
	return n
}

// Create appends an empty meld and returns its index.
func (s *MeldSet) Create() int {
	s.nextID++
	s.melds = append(s.melds, &Meld{ID: s.nextID})
	return len(s.melds) - 1
}

// AddCard moves the card at cardIndex in hand onto the meld at meldIndex.
// Both indices are checked before anything moves.
func (s *MeldSet) AddCard(hand *cards.Hand, cardIndex, meldIndex int) error {
	m, err := s.meldAt(meldIndex)
	if err != nil {
		return err
	}
	if cardIndex < 0 || cardIndex >= hand.Len() {
		return fmt.Errorf("%w: card %d (hand size %d)", ErrIndexOutOfRange, cardIndex, hand.Len())
	}
	c, err := hand.RemoveAt(cardIndex)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndexOutOfRange, err)
	}
	m.Cards = append(m.Cards, c)
	return nil
}

// Return moves one of the owner's cards from a meld back to the end of hand.
func (s *MeldSet) Return(meldIndex, cardIndex int, hand *cards.Hand) error {
	m, err := s.meldAt(meldIndex)
	if err != nil {
		return err
	}
	if cardIndex < 0 || cardIndex >= len(m.Cards) {
		return fmt.Errorf("%w: meld card %d (meld size %d)", ErrIndexOutOfRange, cardIndex, len(m.Cards))
	}
	c := m.Cards[cardIndex]
	m.Cards = append(m.Cards[:cardIndex], m.Cards[cardIndex+1:]...)
	hand.Add(c)
	return nil
}

// Disband returns every card of the meld to hand and removes the meld.
// Melds after it shift down by one index.
func (s *MeldSet) Disband(meldIndex int, hand *cards.Hand) error {
	m, err := s.meldAt(meldIndex)
	if err != nil {
		return err
	}
	if len(m.Layoffs) > 0 {
		return fmt.Errorf("%w: meld %d", ErrMeldHasLayoffs, meldIndex)
	}
	for _, c := range m.Cards {
		hand.Add(c)
	}
	s.melds = append(s.melds[:meldIndex], s.melds[meldIndex+1:]...)
	return nil
}

// DisbandAll returns every card of every meld to hand. Melds with layoffs are skipped.
func (s *MeldSet) DisbandAll(hand *cards.Hand) {
	for i := len(s.melds) - 1; i >= 0; i-- {
		_ = s.Disband(i, hand)
	}
}

// LayOff places a card from another player onto the meld at meldIndex.
func (s *MeldSet) LayOff(meldIndex int, c models.Card, by models.PlayerID) error {
	m, err := s.meldAt(meldIndex)
	if err != nil {
		return err
	}
	m.Layoffs = append(m.Layoffs, Layoff{Card: c, By: by})
	return nil
}

func (s *MeldSet) meldAt(meldIndex int) (*Meld, error) {
	if meldIndex < 0 || meldIndex >= len(s.melds) {
		return nil, fmt.Errorf("%w: meld %d (melds %d)", ErrIndexOutOfRange, meldIndex, len(s.melds))
	}
	return s.melds[meldIndex], nil
}
