// internal/cards/deck.go
package cards

import "github.com/jason-s-yu/ginrummy/internal/models"

// DeckSize is the number of cards in a standard deck.
const DeckSize = 52

// Deck is the face-down stock.
type Deck struct {
	Pile
}

// NewDeck returns the 52 cards in suit-major order (Clubs, Spades, Diamonds, Hearts; Ace..King).
// The last card, King of Hearts, is on top until the deck is shuffled.
func NewDeck() *Deck {
	d := &Deck{Pile: Pile{cards: make([]models.Card, 0, DeckSize)}}
	for _, suit := range models.Suits {
		for _, rank := range models.Ranks {
			d.cards = append(d.cards, models.Card{Suit: suit, Rank: rank})
		}
	}
	return d
}

// Draw removes and returns the top card.
func (d *Deck) Draw() (models.Card, error) {
	c, ok := d.Pop()
	if !ok {
		return models.Card{}, ErrDeckExhausted
	}
	return c, nil
}

// DiscardPile holds face-up discards, most recent on top.
type DiscardPile struct {
	Pile

	// Hidden is set once a hand is knocked or ginned; the top card is then face down.
	Hidden bool
}

// DrawTop removes and returns the most recent discard.
func (d *DiscardPile) DrawTop() (models.Card, error) {
	c, ok := d.Pop()
	if !ok {
		return models.Card{}, ErrPileEmpty
	}
	return c, nil
}

// Top returns the visible top card. ok is false if the pile is empty or face down.
func (d *DiscardPile) Top() (c models.Card, ok bool) {
	if d.Hidden || d.Len() == 0 {
		return models.Card{}, false
	}
	return d.cards[len(d.cards)-1], true
}

// Hand is a player's cards, indexed from 0 for selection.
type Hand struct {
	Pile
}

// NewHand builds a hand holding cs in order.
func NewHand(cs ...models.Card) *Hand {
	return &Hand{Pile: NewPile(cs...)}
}

// Add appends c to the end of the hand.
func (h *Hand) Add(c models.Card) {
	h.Push(c)
}
