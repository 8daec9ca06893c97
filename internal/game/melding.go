// internal/game/melding.go
package game

import (
	"errors"
	"fmt"

	"github.com/jason-s-yu/ginrummy/internal/meld"
	"github.com/jason-s-yu/ginrummy/internal/models"
	"github.com/jason-s-yu/ginrummy/internal/scoring"
	"github.com/sirupsen/logrus"
)

// requireMeldStep checks that p is due in the meld phase and that the step is the expected
// kind (own melds or layoffs).
func (g *GinGame) requireMeldStep(p models.PlayerID, layoff bool, action string) error {
	if g.Phase != PhaseMelding || len(g.meldQueue) == 0 {
		return g.wrongPhase(action)
	}
	step := g.meldQueue[0]
	if step.Player != p {
		return fmt.Errorf("%w: %s is melding", ErrNotYourTurn, step.Player)
	}
	if step.Layoff != layoff {
		if layoff {
			return fmt.Errorf("%w: cannot %s before layoffs", ErrWrongPhase, action)
		}
		return fmt.Errorf("%w: cannot %s during layoffs", ErrWrongPhase, action)
	}
	return nil
}

// indexError reports meld index failures as ErrInvalidIndex while keeping the original cause.
func indexError(err error) error {
	if errors.Is(err, meld.ErrIndexOutOfRange) {
		return fmt.Errorf("%w: %w", ErrInvalidIndex, err)
	}
	return err
}

// CreateMeld opens a new empty meld for p and returns its index.
func (g *GinGame) CreateMeld(p models.PlayerID) (int, error) {
	if err := g.requireMeldStep(p, false, "create meld"); err != nil {
		return 0, err
	}
	idx := g.Player(p).Melds.Create()
	g.logAction(p.String(), EventMeldCreate, map[string]interface{}{"meld": idx})
	return idx, nil
}

// AddToMeld moves the card at handIndex in p's hand into p's meld at meldIndex.
func (g *GinGame) AddToMeld(p models.PlayerID, handIndex, meldIndex int) error {
	if err := g.requireMeldStep(p, false, "add to meld"); err != nil {
		return err
	}
	player := g.Player(p)
	if err := player.Melds.AddCard(player.Hand, handIndex, meldIndex); err != nil {
		g.log.WithFields(logrus.Fields{"player": p.String(), "card": handIndex, "meld": meldIndex}).Info("Rejected meld index")
		return indexError(err)
	}
	m, err := player.Melds.Get(meldIndex)
	if err != nil {
		return indexError(err)
	}
	c := m.Cards[len(m.Cards)-1]
	g.logAction(p.String(), EventMeldAdd, map[string]interface{}{"card": c.Code(), "meld": meldIndex})
	return nil
}

// ReturnFromMeld moves one card of p's meld back to p's hand.
func (g *GinGame) ReturnFromMeld(p models.PlayerID, meldIndex, cardIndex int) error {
	if err := g.requireMeldStep(p, false, "return card from meld"); err != nil {
		return err
	}
	player := g.Player(p)
	if err := player.Melds.Return(meldIndex, cardIndex, player.Hand); err != nil {
		return indexError(err)
	}
	g.logAction(p.String(), EventMeldReturn, map[string]interface{}{"meld": meldIndex, "card": cardIndex})
	return nil
}

// DisbandMeld returns every card of p's meld at meldIndex to p's hand and removes the meld.
// Later melds move down one index.
func (g *GinGame) DisbandMeld(p models.PlayerID, meldIndex int) error {
	if err := g.requireMeldStep(p, false, "disband meld"); err != nil {
		return err
	}
	player := g.Player(p)
	if err := player.Melds.Disband(meldIndex, player.Hand); err != nil {
		return indexError(err)
	}
	g.logAction(p.String(), EventMeldDisband, map[string]interface{}{"meld": meldIndex})
	return nil
}

// LayOff moves the card at handIndex in p's hand onto the opponent's meld at meldIndex.
// Whether the card fits is decided when the hand is scored.
func (g *GinGame) LayOff(p models.PlayerID, handIndex, meldIndex int) error {
	if g.Phase == PhaseMelding && g.GinCalled {
		return ErrLayoffNotAllowed
	}
	if err := g.requireMeldStep(p, true, "lay off"); err != nil {
		return err
	}
	player, opponent := g.Player(p), g.Player(p.Other())

	if _, err := opponent.Melds.Get(meldIndex); err != nil {
		return indexError(err)
	}
	c, err := player.Hand.RemoveAt(handIndex)
	if err != nil {
		return err
	}
	if err := opponent.Melds.LayOff(meldIndex, c, p); err != nil {
		// meldIndex was checked above
		player.Hand.Add(c)
		return indexError(err)
	}
	g.log.WithFields(logrus.Fields{"player": p.String(), "card": c.Code(), "meld": meldIndex}).Debug("Laid off")
	g.logAction(p.String(), EventLayoff, map[string]interface{}{"card": c.Code(), "meld": meldIndex})
	return nil
}

// FinishMelds ends p's current meld-phase step. When the declarer finishes their own melds
// the declaration is checked: gin needs zero deadwood and a knock needs deadwood at or below
// the threshold. A failed check is returned and nothing changes. The last step scores the hand.
func (g *GinGame) FinishMelds(p models.PlayerID) error {
	if g.Phase != PhaseMelding || len(g.meldQueue) == 0 {
		return g.wrongPhase("finish melds")
	}
	step := g.meldQueue[0]
	if err := g.requireMeldStep(p, step.Layoff, "finish melds"); err != nil {
		return err
	}

	if p == g.Declarer && !step.Layoff {
		deadwood := g.Deadwood(p)
		if err := scoring.CheckDeclaration(g.Rules, g.Decision(), deadwood); err != nil {
			g.log.WithFields(logrus.Fields{"player": p.String(), "deadwood": deadwood}).Info("Rejected declaration")
			return err
		}
	}

	g.meldQueue = g.meldQueue[1:]
	g.logAction(p.String(), EventMeldsDone, map[string]interface{}{"layoff": step.Layoff})
	if len(g.meldQueue) > 0 {
		g.CurrentTurn = g.meldQueue[0].Player
		return nil
	}
	return g.finishHand()
}

// WithdrawDeclaration takes back a knock or gin while the declarer is still building melds.
// Melds return to the hand, the face-down discard turns face up, and play passes to the
// opponent as if the discard had been an ordinary one.
func (g *GinGame) WithdrawDeclaration(p models.PlayerID) error {
	if err := g.requireMeldStep(p, false, "withdraw declaration"); err != nil {
		return err
	}
	if p != g.Declarer {
		return fmt.Errorf("%w: only the declarer can withdraw", ErrWrongPhase)
	}
	player := g.Player(p)
	player.Melds.DisbandAll(player.Hand)

	decision := g.Decision()
	g.Knocked, g.GinCalled = false, false
	g.DiscardPile.Hidden = false
	g.meldQueue = nil
	g.Phase = PhaseInProgress
	g.Step = StepDraw
	g.CurrentTurn = p.Other()
	g.TurnID++

	g.log.WithFields(logrus.Fields{"player": p.String(), "decision": decision.String()}).Info("Declaration withdrawn")
	g.logAction(p.String(), EventWithdraw, map[string]interface{}{"decision": decision.String()})
	return nil
}

// Deadwood is p's current deadwood given both players' melds and layoffs so far.
func (g *GinGame) Deadwood(p models.PlayerID) int {
	return scoring.Deadwood(g.sides()).Of(p)
}

// ComputeScore resolves the finished hand. It does not change the game.
func (g *GinGame) ComputeScore() (models.HandResult, error) {
	if g.Phase != PhaseScored {
		return models.HandResult{}, g.wrongPhase("compute score")
	}
	return g.score()
}

// Result returns the stored outcome once the hand is scored.
func (g *GinGame) Result() (models.HandResult, bool) {
	if g.result == nil {
		return models.HandResult{}, false
	}
	return *g.result, true
}

func (g *GinGame) score() (models.HandResult, error) {
	return scoring.Score(g.Rules, g.Decision(), g.Declarer, g.sides())
}

func (g *GinGame) sides() [2]scoring.Side {
	var s [2]scoring.Side
	for i, p := range g.Players {
		s[i] = scoring.Side{Hand: p.Hand.Cards(), Melds: p.Melds.Melds()}
	}
	return s
}

// finishHand scores the hand, records the result and notifies OnHandEnd.
func (g *GinGame) finishHand() error {
	result, err := g.score()
	if err != nil {
		return g.abort(err)
	}
	g.result = &result
	g.Phase = PhaseScored
	g.CurrentTurn = result.Winner

	g.log.WithFields(logrus.Fields{
		"winner": result.Winner.String(),
		"points": result.Points,
		"kind":   string(result.Kind),
	}).Info("Hand scored")
	g.logAction(actorSystem, EventHandEnd, map[string]interface{}{
		"winner":           result.Winner.String(),
		"points":           result.Points,
		"kind":             string(result.Kind),
		"declarerDeadwood": result.DeclarerDeadwood,
		"defenderDeadwood": result.DefenderDeadwood,
	})
	if g.OnHandEnd != nil {
		g.OnHandEnd(g.ID, g.Names(), result)
	}
	return nil
}
