// internal/game/sync_state.go
package game

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jason-s-yu/ginrummy/internal/meld"
	"github.com/jason-s-yu/ginrummy/internal/models"
)

// PlayerView is the game as one player may see it. The opponent's hand is reduced to a
// count until the hand is scored, and the discard top is withheld once it is face down.
type PlayerView struct {
	GameID      uuid.UUID       `json:"gameId"`
	Viewer      models.PlayerID `json:"viewer"`
	Phase       Phase           `json:"phase"`
	Step        TurnStep        `json:"step,omitempty"`
	Actor       models.PlayerID `json:"actor"`
	TurnID      int             `json:"turnId"`
	LayoffStep  bool            `json:"layoffStep"`
	Decision    models.Decision `json:"decision"`
	Declarer    models.PlayerID `json:"declarer"`
	Name        string          `json:"name"`
	Opponent    string          `json:"opponent"`
	Hand        []models.Card   `json:"hand"`
	Deadwood    int             `json:"deadwood"`
	Melds       []meld.Meld     `json:"melds"`
	DeckSize    int             `json:"deckSize"`
	DiscardSize int             `json:"discardSize"`
	DiscardTop  *models.Card    `json:"discardTop,omitempty"`

	OpponentHandSize int           `json:"opponentHandSize"`
	OpponentHand     []models.Card `json:"opponentHand,omitempty"`
	OpponentMelds    []meld.Meld   `json:"opponentMelds"`

	Result *models.HandResult `json:"result,omitempty"`
}

// ViewFor builds the snapshot shown to viewer.
func (g *GinGame) ViewFor(viewer models.PlayerID) (PlayerView, error) {
	if !viewer.Valid() {
		return PlayerView{}, fmt.Errorf("%w: %d", ErrUnknownPlayer, viewer)
	}
	self, opp := g.Player(viewer), g.Player(viewer.Other())
	v := PlayerView{
		GameID:           g.ID,
		Viewer:           viewer,
		Phase:            g.Phase,
		Actor:            g.Actor(),
		TurnID:           g.TurnID,
		LayoffStep:       g.InLayoffStep(),
		Decision:         g.Decision(),
		Declarer:         g.Declarer,
		Name:             self.Name,
		Opponent:         opp.Name,
		Hand:             self.Hand.Cards(),
		Deadwood:         g.Deadwood(viewer),
		Melds:            self.Melds.Melds(),
		DeckSize:         g.Deck.Len(),
		DiscardSize:      g.DiscardPile.Len(),
		OpponentHandSize: opp.Hand.Len(),
		OpponentMelds:    opp.Melds.Melds(),
	}
	if g.Phase == PhaseInProgress {
		v.Step = g.Step
	}
	if top, ok := g.DiscardPile.Top(); ok {
		v.DiscardTop = &top
	}
	if res, ok := g.Result(); ok {
		v.Result = &res
		v.OpponentHand = opp.Hand.Cards()
	}
	return v, nil
}
