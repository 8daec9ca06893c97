// internal/game/game.go
package game

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/ginrummy/internal/cache"
	"github.com/jason-s-yu/ginrummy/internal/cards"
	"github.com/jason-s-yu/ginrummy/internal/meld"
	"github.com/jason-s-yu/ginrummy/internal/models"
	"github.com/sirupsen/logrus"
)

// HandSize is the number of cards dealt to each player.
const HandSize = 10

// Phase is the coarse state of a hand.
type Phase string

const (
	PhaseDeterminingFirstTurn Phase = "determining_first_turn"
	PhaseDealing              Phase = "dealing"
	PhaseInProgress           Phase = "in_progress"
	PhaseKnocked              Phase = "knocked" // declarer owes a face-down discard
	PhaseGin                  Phase = "gin"     // declarer owes a face-down discard
	PhaseMelding              Phase = "melding"
	PhaseScored               Phase = "scored"
	PhaseAborted              Phase = "aborted"
)

// TurnStep is the next legal action for the current player while the hand is in progress.
type TurnStep string

const (
	StepDraw    TurnStep = "draw"
	StepDecide  TurnStep = "decide"
	StepDiscard TurnStep = "discard"
)

// GameEventType names an entry in the action log.
type GameEventType string

const (
	EventGameStart     GameEventType = "game_start"
	EventFirstTurn     GameEventType = "game_first_turn"
	EventDeal          GameEventType = "game_deal"
	EventDrawStock     GameEventType = "player_draw_stock"
	EventDrawDiscard   GameEventType = "player_draw_discard"
	EventDecision      GameEventType = "player_decision"
	EventDiscard       GameEventType = "player_discard"
	EventDiscardHidden GameEventType = "player_discard_face_down"
	EventMeldCreate    GameEventType = "player_meld_create"
	EventMeldAdd       GameEventType = "player_meld_add"
	EventMeldReturn    GameEventType = "player_meld_return"
	EventMeldDisband   GameEventType = "player_meld_disband"
	EventLayoff        GameEventType = "player_layoff"
	EventMeldsDone     GameEventType = "player_melds_done"
	EventWithdraw      GameEventType = "player_withdraw_declaration"
	EventHandEnd       GameEventType = "game_hand_end"
	EventHandAborted   GameEventType = "game_hand_aborted"
)

const (
	actorSystem      = "system"
	historianTimeout = 2 * time.Second
)

// Historian receives every accepted action. cache.Historian is the Redis-backed implementation.
type Historian interface {
	PublishGameAction(ctx context.Context, record cache.GameActionRecord) error
}

// OnHandEndFunc is invoked once a hand has been scored.
type OnHandEndFunc func(gameID uuid.UUID, names [2]string, result models.HandResult)

// Player is one seat: a name plus the hand and melds it owns for the duration of a hand.
type Player struct {
	ID    models.PlayerID
	Name  string
	Hand  *cards.Hand
	Melds *meld.MeldSet
}

// meldStep is one entry of the meld phase queue.
type meldStep struct {
	Player models.PlayerID
	Layoff bool
}

// GinGame holds the entire state for a single hand in memory.
// Methods assume the caller serializes access; see GameStore.Do.
type GinGame struct {
	ID    uuid.UUID
	Rules models.HouseRules

	Players     [2]*Player
	Deck        *cards.Deck
	DiscardPile *cards.DiscardPile

	Phase       Phase
	Step        TurnStep
	CurrentTurn models.PlayerID
	FirstPlayer models.PlayerID
	TurnID      int

	// Exactly one of Knocked and GinCalled is set once the hand has been ended.
	Knocked   bool
	GinCalled bool
	Declarer  models.PlayerID

	// Historian, if set, receives each action synchronously.
	Historian Historian
	// OnHandEnd, if set, is invoked after scoring.
	OnHandEnd OnHandEndFunc

	Mu sync.Mutex

	log              *logrus.Entry
	rng              *rand.Rand
	actionIndex      int
	meldQueue        []meldStep
	takenFromDiscard *models.Card
	result           *models.HandResult
	abortCause       error
}

// StartGame builds a hand for two named players with a fresh, unshuffled deck. Nothing is
// published until DetermineFirstTurn, so a Historian attached afterwards sees game_start.
func StartGame(player1, player2 string) *GinGame {
	id, _ := uuid.NewRandom()
	g := &GinGame{
		ID:          id,
		Rules:       models.DefaultHouseRules(),
		Deck:        cards.NewDeck(),
		DiscardPile: &cards.DiscardPile{},
		Phase:       PhaseDeterminingFirstTurn,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for i, name := range []string{player1, player2} {
		g.Players[i] = &Player{
			ID:    models.Players[i],
			Name:  name,
			Hand:  cards.NewHand(),
			Melds: &meld.MeldSet{},
		}
	}
	g.SetLogger(logrus.StandardLogger())
	return g
}

// SetLogger routes the game's logs through logger, tagged with the game id.
func (g *GinGame) SetLogger(logger *logrus.Logger) {
	g.log = logger.WithField("game", g.ID.String())
}

// SetSeed replaces the shuffle source, making the hand reproducible.
func (g *GinGame) SetSeed(seed int64) {
	g.rng = rand.New(rand.NewSource(seed))
}

// Player returns the seat p. p must be Valid.
func (g *GinGame) Player(p models.PlayerID) *Player {
	return g.Players[p.Index()]
}

// Names returns both player names in seat order.
func (g *GinGame) Names() [2]string {
	return [2]string{g.Players[0].Name, g.Players[1].Name}
}

// Decision returns how the hand was ended, or DecisionNeither while it is still open.
func (g *GinGame) Decision() models.Decision {
	switch {
	case g.GinCalled:
		return models.DecisionGin
	case g.Knocked:
		return models.DecisionKnock
	default:
		return models.DecisionNeither
	}
}

// AbortCause returns the fatal error that ended the hand, if any.
func (g *GinGame) AbortCause() error {
	return g.abortCause
}

// DetermineFirstTurn shuffles and compares the top two cards until one outranks the other.
// The first peeked card stands for PlayerOne, the second for PlayerTwo. Ties reshuffle; the
// loop is unbounded unless Rules.FirstTurnRetryLimit is set, in which case PlayerOne starts
// once the limit is reached.
func (g *GinGame) DetermineFirstTurn() (models.PlayerID, error) {
	if g.Phase != PhaseDeterminingFirstTurn {
		return 0, g.wrongPhase("determine first turn")
	}
	names := g.Names()
	g.logAction(actorSystem, EventGameStart, map[string]interface{}{"players": names[:]})

	first := models.PlayerOne
	ties := 0
	for {
		g.Deck.Shuffle(g.rng)
		top := g.Deck.PeekTop(2)
		if len(top) < 2 {
			return 0, g.abort(cards.ErrDeckExhausted)
		}
		one, two := top[0], top[1]
		if one.Value() > two.Value() {
			first = models.PlayerOne
			break
		}
		if two.Value() > one.Value() {
			first = models.PlayerTwo
			break
		}
		ties++
		g.log.WithFields(logrus.Fields{"card1": one.Code(), "card2": two.Code(), "ties": ties}).Debug("First turn tie, reshuffling")
		if limit := g.Rules.FirstTurnRetryLimit; limit > 0 && ties >= limit {
			g.log.WithField("ties", ties).Warn("First turn retry limit reached, player one starts")
			first = models.PlayerOne
			break
		}
	}

	g.FirstPlayer = first
	g.CurrentTurn = first
	g.Phase = PhaseDealing
	g.log.WithFields(logrus.Fields{"first": first.String(), "ties": ties}).Info("First turn determined")
	g.logAction(actorSystem, EventFirstTurn, map[string]interface{}{"first": first.String(), "ties": ties})
	return first, nil
}

// DealStartingHands shuffles, deals ten cards to each player alternately starting with the
// first player, then turns the next card face up to start the discard pile.
func (g *GinGame) DealStartingHands() error {
	if g.Phase != PhaseDealing {
		return g.wrongPhase("deal")
	}

	g.Deck.Shuffle(g.rng)
	order := [2]models.PlayerID{g.FirstPlayer, g.FirstPlayer.Other()}
	for i := 0; i < HandSize; i++ {
		for _, p := range order {
			c, err := g.Deck.Draw()
			if err != nil {
				return g.abort(err)
			}
			g.Player(p).Hand.Add(c)
		}
	}
	upcard, err := g.Deck.Draw()
	if err != nil {
		return g.abort(err)
	}
	g.DiscardPile.Push(upcard)

	g.Phase = PhaseInProgress
	g.Step = StepDraw
	g.CurrentTurn = g.FirstPlayer
	g.TurnID = 1
	g.log.WithFields(logrus.Fields{"deck": g.Deck.Len(), "upcard": upcard.Code()}).Info("Starting hands dealt")
	g.logAction(actorSystem, EventDeal, map[string]interface{}{
		"upcard":   upcard.Code(),
		"deckSize": g.Deck.Len(),
	})
	return nil
}

// AllCards gathers every card the game holds: deck, discard pile, both hands and all melds.
func (g *GinGame) AllCards() []models.Card {
	out := make([]models.Card, 0, cards.DeckSize)
	out = append(out, g.Deck.Cards()...)
	out = append(out, g.DiscardPile.Cards()...)
	for _, p := range g.Players {
		out = append(out, p.Hand.Cards()...)
		for _, m := range p.Melds.Melds() {
			out = append(out, m.AllCards()...)
		}
	}
	return out
}

// abort ends the hand after a fatal error and returns the error to hand back to the caller.
func (g *GinGame) abort(cause error) error {
	g.Phase = PhaseAborted
	g.abortCause = cause
	g.log.WithError(cause).Error("Hand aborted")
	g.logAction(actorSystem, EventHandAborted, map[string]interface{}{"cause": cause.Error()})
	return fmt.Errorf("%w: %w", ErrHandAborted, cause)
}

func (g *GinGame) wrongPhase(action string) error {
	if g.Phase == PhaseInProgress {
		return fmt.Errorf("%w: cannot %s during %s step", ErrWrongPhase, action, g.Step)
	}
	return fmt.Errorf("%w: cannot %s while %s", ErrWrongPhase, action, g.Phase)
}

// logAction sends the action details to the historian, if one is attached.
func (g *GinGame) logAction(actor string, actionType GameEventType, payload map[string]interface{}) {
	g.actionIndex++
	if g.Historian == nil {
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}
	record := cache.GameActionRecord{
		GameID:        g.ID,
		ActionIndex:   g.actionIndex,
		Actor:         actor,
		ActionType:    string(actionType),
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), historianTimeout)
	defer cancel()
	if err := g.Historian.PublishGameAction(ctx, record); err != nil {
		g.log.WithError(err).WithField("action", record.ActionIndex).Warn("Failed to publish game action")
	}
}
