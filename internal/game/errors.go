// internal/game/errors.go
package game

import (
	"errors"

	"github.com/jason-s-yu/ginrummy/internal/cards"
)

var (
	// ErrWrongPhase is returned for an action the current phase or turn step does not allow.
	ErrWrongPhase = errors.New("action not allowed in current phase")
	// ErrUnknownPlayer is returned for a PlayerID outside the two seats.
	ErrUnknownPlayer = errors.New("unknown player")
	// ErrNotYourTurn is returned when a player acts while the other player is due.
	ErrNotYourTurn = errors.New("not your turn")
	// ErrUnknownDecision is returned for a Decision value outside the enum.
	ErrUnknownDecision = errors.New("unknown decision")
	// ErrDiscardJustDrawn is returned when discarding the card picked up from the discard pile this turn.
	ErrDiscardJustDrawn = errors.New("cannot discard the card just taken from the discard pile")
	// ErrLayoffNotAllowed is returned for layoffs against a gin hand.
	ErrLayoffNotAllowed = errors.New("layoffs are not allowed against gin")
	// ErrHandAborted wraps the cause of a fatal error. The hand cannot continue.
	ErrHandAborted = errors.New("hand aborted")

	// ErrInvalidIndex is the index error reported by every hand/meld operation.
	ErrInvalidIndex = cards.ErrInvalidIndex
)

// IsFatal reports whether err ended the hand.
func IsFatal(err error) bool {
	return errors.Is(err, ErrHandAborted)
}
