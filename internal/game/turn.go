// internal/game/turn.go
package game

import (
	"fmt"

	"github.com/jason-s-yu/ginrummy/internal/models"
	"github.com/sirupsen/logrus"
)

// requireStep checks the hand is in progress and waiting on step.
func (g *GinGame) requireStep(step TurnStep, action string) error {
	if g.Phase != PhaseInProgress || g.Step != step {
		return g.wrongPhase(action)
	}
	return nil
}

// DrawFromDeck moves the top of the stock into the current player's hand.
// An empty stock is fatal and aborts the hand.
func (g *GinGame) DrawFromDeck() error {
	if err := g.requireStep(StepDraw, "draw from deck"); err != nil {
		return err
	}
	player := g.Player(g.CurrentTurn)

	c, err := g.Deck.Draw()
	if err != nil {
		return g.abort(err)
	}
	player.Hand.Add(c)
	g.takenFromDiscard = nil
	g.Step = StepDecide

	g.log.WithFields(logrus.Fields{"player": player.ID.String(), "deck": g.Deck.Len()}).Debug("Drew from deck")
	g.logAction(player.ID.String(), EventDrawStock, map[string]interface{}{"deckSize": g.Deck.Len()})
	return nil
}

// DrawFromDiscard moves the top discard into the current player's hand. An empty pile is a
// recoverable error unless the stock is empty too, which leaves no legal draw at all.
func (g *GinGame) DrawFromDiscard() error {
	if err := g.requireStep(StepDraw, "draw from discard pile"); err != nil {
		return err
	}
	player := g.Player(g.CurrentTurn)

	c, err := g.DiscardPile.DrawTop()
	if err != nil {
		if g.Deck.Len() == 0 {
			return g.abort(err)
		}
		g.log.WithField("player", player.ID.String()).Info("Rejected draw from empty discard pile")
		return err
	}
	player.Hand.Add(c)
	g.takenFromDiscard = &c
	g.Step = StepDecide

	g.log.WithFields(logrus.Fields{"player": player.ID.String(), "card": c.Code()}).Debug("Drew from discard pile")
	g.logAction(player.ID.String(), EventDrawDiscard, map[string]interface{}{"card": c.Code(), "discardSize": g.DiscardPile.Len()})
	return nil
}

// Declare records the current player's decision after drawing. Neither leads to a normal
// discard. Knock or gin ends the turn cycle: the discard pile goes face down and the declarer
// owes one face-down discard before melding starts.
func (g *GinGame) Declare(d models.Decision) error {
	if err := g.requireStep(StepDecide, "declare"); err != nil {
		return err
	}
	player := g.Player(g.CurrentTurn)

	switch d {
	case models.DecisionNeither:
		g.Step = StepDiscard
	case models.DecisionKnock:
		g.Knocked = true
		g.Phase = PhaseKnocked
	case models.DecisionGin:
		g.GinCalled = true
		g.Phase = PhaseGin
	default:
		return fmt.Errorf("%w: %d", ErrUnknownDecision, d)
	}

	if d != models.DecisionNeither {
		g.Declarer = player.ID
		g.DiscardPile.Hidden = true
		g.log.WithFields(logrus.Fields{"player": player.ID.String(), "decision": d.String()}).Info("Hand ended by declaration")
	}
	g.logAction(player.ID.String(), EventDecision, map[string]interface{}{"decision": d.String()})
	return nil
}

// Discard moves the card at handIndex to the discard pile. During play this passes the turn;
// right after a knock or gin it is the declarer's face-down discard and opens the meld phase.
// The index is checked before anything moves.
func (g *GinGame) Discard(handIndex int) error {
	faceDown := g.Phase == PhaseKnocked || g.Phase == PhaseGin
	if !faceDown {
		if err := g.requireStep(StepDiscard, "discard"); err != nil {
			return err
		}
	}
	player := g.Player(g.CurrentTurn)

	c, err := player.Hand.At(handIndex)
	if err != nil {
		g.log.WithFields(logrus.Fields{"player": player.ID.String(), "index": handIndex}).Info("Rejected discard index")
		return err
	}
	if g.takenFromDiscard != nil && c == *g.takenFromDiscard {
		return fmt.Errorf("%w: %s", ErrDiscardJustDrawn, c)
	}
	if _, err := player.Hand.RemoveAt(handIndex); err != nil {
		return err
	}
	g.DiscardPile.Push(c)
	g.takenFromDiscard = nil

	if faceDown {
		g.logAction(player.ID.String(), EventDiscardHidden, map[string]interface{}{"card": c.Code()})
		g.beginMelding()
		return nil
	}

	g.logAction(player.ID.String(), EventDiscard, map[string]interface{}{"card": c.Code()})
	g.CurrentTurn = player.ID.Other()
	g.Step = StepDraw
	g.TurnID++
	g.log.WithFields(logrus.Fields{"turn": g.TurnID, "player": g.CurrentTurn.String()}).Debug("Turn passed")
	return nil
}

// beginMelding queues the meld phase: declarer melds, defender melds, then layoffs by the
// defender and the declarer. Gin hands take no layoffs.
func (g *GinGame) beginMelding() {
	declarer, defender := g.Declarer, g.Declarer.Other()
	g.meldQueue = []meldStep{{Player: declarer}, {Player: defender}}
	if !g.GinCalled {
		g.meldQueue = append(g.meldQueue, meldStep{Player: defender, Layoff: true}, meldStep{Player: declarer, Layoff: true})
	}
	g.Phase = PhaseMelding
	g.CurrentTurn = declarer
	g.log.WithField("declarer", declarer.String()).Debug("Meld phase started")
}

// Actor returns the player the game is waiting on.
func (g *GinGame) Actor() models.PlayerID {
	if g.Phase == PhaseMelding && len(g.meldQueue) > 0 {
		return g.meldQueue[0].Player
	}
	return g.CurrentTurn
}

// InLayoffStep reports whether the meld phase has reached layoffs.
func (g *GinGame) InLayoffStep() bool {
	return g.Phase == PhaseMelding && len(g.meldQueue) > 0 && g.meldQueue[0].Layoff
}
