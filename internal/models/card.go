package models

import (
	"fmt"
	"strings"
)

// Suit identifies one of the four French suits.
type Suit uint8

const (
	Clubs Suit = iota
	Spades
	Diamonds
	Hearts
)

// Suits lists every suit in deck construction order.
var Suits = []Suit{Clubs, Spades, Diamonds, Hearts}

func (s Suit) String() string {
	switch s {
	case Clubs:
		return "Clubs"
	case Spades:
		return "Spades"
	case Diamonds:
		return "Diamonds"
	case Hearts:
		return "Hearts"
	default:
		return "?"
	}
}

// Short returns the single letter code used by the console ("C", "S", "D", "H").
func (s Suit) Short() string {
	return s.String()[:1]
}

// Rank is the face of a card. Its numeric value is also its point value.
type Rank uint8

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

// Ranks lists every rank from Ace up to King.
var Ranks = []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

var rankNames = [...]string{"", "Ace", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine", "Ten", "Jack", "Queen", "King"}

func (r Rank) String() string {
	if r < Ace || r > King {
		return "?"
	}
	return rankNames[r]
}

// Short returns the compact code for the rank ("A", "2" .. "10", "J", "Q", "K").
func (r Rank) Short() string {
	switch r {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		return fmt.Sprintf("%d", int(r))
	}
}

// Card is an immutable playing card. Two cards are the same card iff they compare equal.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// Value is the card's point value, Ace=1 through King=13.
func (c Card) Value() int {
	return int(c.Rank)
}

// Valid reports whether the card is one of the 52 standard cards.
func (c Card) Valid() bool {
	return c.Suit <= Hearts && c.Rank >= Ace && c.Rank <= King
}

func (c Card) String() string {
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}

// Code renders the card as rank code followed by suit letter, e.g. "QH".
func (c Card) Code() string {
	return c.Rank.Short() + c.Suit.Short()
}

// ParseCard reads a short card code such as "QH", "10c" or "as".
func ParseCard(code string) (Card, error) {
	s := strings.ToUpper(strings.TrimSpace(code))
	if len(s) < 2 {
		return Card{}, fmt.Errorf("invalid card code %q", code)
	}
	rankPart, suitPart := s[:len(s)-1], s[len(s)-1:]

	var suit Suit
	switch suitPart {
	case "C":
		suit = Clubs
	case "S":
		suit = Spades
	case "D":
		suit = Diamonds
	case "H":
		suit = Hearts
	default:
		return Card{}, fmt.Errorf("invalid suit in card code %q", code)
	}

	for _, r := range Ranks {
		if r.Short() == rankPart || (r == Ten && rankPart == "T") {
			return Card{Suit: suit, Rank: r}, nil
		}
	}
	return Card{}, fmt.Errorf("invalid rank in card code %q", code)
}

// MustParseCards parses a space separated list of card codes and panics on error.
// Intended for fixtures.
func MustParseCards(codes string) []Card {
	fields := strings.Fields(codes)
	out := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			panic(err)
		}
		out = append(out, c)
	}
	return out
}

// SumValues adds up the point values of the given cards.
func SumValues(cards []Card) int {
	sum := 0
	for _, c := range cards {
		sum += c.Value()
	}
	return sum
}
