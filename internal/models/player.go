package models

// PlayerID identifies one of the two seats at the table.
type PlayerID uint8

const (
	PlayerOne PlayerID = iota
	PlayerTwo
)

// Players lists both seats in seating order.
var Players = [2]PlayerID{PlayerOne, PlayerTwo}

// Other returns the opposing seat.
func (p PlayerID) Other() PlayerID {
	if p == PlayerOne {
		return PlayerTwo
	}
	return PlayerOne
}

// Index returns 0 for PlayerOne and 1 for PlayerTwo.
func (p PlayerID) Index() int {
	return int(p)
}

// Valid reports whether p names one of the two seats.
func (p PlayerID) Valid() bool {
	return p == PlayerOne || p == PlayerTwo
}

func (p PlayerID) String() string {
	switch p {
	case PlayerOne:
		return "player_one"
	case PlayerTwo:
		return "player_two"
	default:
		return "unknown"
	}
}
