// internal/game/game_test.go
package game

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jason-s-yu/ginrummy/internal/cache"
	"github.com/jason-s-yu/ginrummy/internal/cards"
	"github.com/jason-s-yu/ginrummy/internal/models"
	"github.com/jason-s-yu/ginrummy/internal/scoring"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockHistorian collects action records instead of pushing them to Redis.
type mockHistorian struct {
	mu      sync.Mutex
	records []cache.GameActionRecord
	err     error
}

func (mh *mockHistorian) PublishGameAction(_ context.Context, record cache.GameActionRecord) error {
	mh.mu.Lock()
	defer mh.mu.Unlock()
	if mh.err != nil {
		return mh.err
	}
	mh.records = append(mh.records, record)
	return nil
}

func (mh *mockHistorian) lastType() string {
	mh.mu.Lock()
	defer mh.mu.Unlock()
	if len(mh.records) == 0 {
		return ""
	}
	return mh.records[len(mh.records)-1].ActionType
}

// setupTestGame initializes a seeded game with a silent logger and a mock historian.
func setupTestGame(t *testing.T, rules *models.HouseRules) (*GinGame, *mockHistorian) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	g := StartGame("alice", "bob")
	g.SetLogger(logger)
	g.SetSeed(7)
	if rules != nil {
		g.Rules = *rules
	}
	mh := &mockHistorian{}
	g.Historian = mh
	return g, mh
}

// rigHand skips the first-turn draw and the deal and gives each player a fixed hand.
// stockTop lists the next cards drawn from the stock, in order; the rest of the deck
// sits below them, so all 52 cards stay in play.
func rigHand(t *testing.T, g *GinGame, first models.PlayerID, hand1, hand2, discard, stockTop string) {
	t.Helper()
	h1, h2 := models.MustParseCards(hand1), models.MustParseCards(hand2)
	dp, top := models.MustParseCards(discard), models.MustParseCards(stockTop)

	used := make(map[models.Card]bool)
	for _, set := range [][]models.Card{h1, h2, dp, top} {
		for _, c := range set {
			require.False(t, used[c], "card %s used twice", c.Code())
			used[c] = true
		}
	}
	var stock []models.Card
	for _, c := range cards.NewDeck().Cards() {
		if !used[c] {
			stock = append(stock, c)
		}
	}
	for i := len(top) - 1; i >= 0; i-- {
		stock = append(stock, top[i])
	}

	g.Players[0].Hand = cards.NewHand(h1...)
	g.Players[1].Hand = cards.NewHand(h2...)
	g.Deck = &cards.Deck{Pile: cards.NewPile(stock...)}
	g.DiscardPile = &cards.DiscardPile{Pile: cards.NewPile(dp...)}
	g.FirstPlayer, g.CurrentTurn = first, first
	g.Phase, g.Step, g.TurnID = PhaseInProgress, StepDraw, 1
}

func assertCardsConserved(t *testing.T, g *GinGame) {
	t.Helper()
	all := g.AllCards()
	require.Len(t, all, cards.DeckSize)
	assert.ElementsMatch(t, cards.NewDeck().Cards(), all)
}

// meldFront builds one meld per size from the front of p's hand.
func meldFront(t *testing.T, g *GinGame, p models.PlayerID, sizes ...int) {
	t.Helper()
	for _, n := range sizes {
		idx, err := g.CreateMeld(p)
		require.NoError(t, err)
		for i := 0; i < n; i++ {
			require.NoError(t, g.AddToMeld(p, 0, idx))
		}
	}
}

// declareAfterStockDraw draws from the stock, declares d and discards the drawn card face down.
func declareAfterStockDraw(t *testing.T, g *GinGame, d models.Decision) {
	t.Helper()
	require.NoError(t, g.DrawFromDeck())
	require.NoError(t, g.Declare(d))
	require.NoError(t, g.Discard(HandSize))
}

const (
	// three melds of three plus 8C: deadwood 8
	knockerHand = "AS 2S 3S 4D 5D 6D 7C 7H 7S 8C"
	// two melds plus 4S and 7D that lay off on the knocker's runs, leaving 2C 3H: deadwood 5
	layoffHand = "9H 10H JH KD KC KS 4S 7D 2C 3H"
	// three melds plus QS: deadwood 12
	highHand = "9H 10H JH KD KC KS 2H 2D 2C QS"
)

func TestDetermineFirstTurnComparesTopTwo(t *testing.T) {
	rules := models.DefaultHouseRules()
	rules.FirstTurnRetryLimit = 1

	for seed := int64(1); seed <= 300; seed++ {
		g, _ := setupTestGame(t, &rules)
		g.SetSeed(seed)

		first, err := g.DetermineFirstTurn()
		require.NoError(t, err)
		assert.Equal(t, PhaseDealing, g.Phase)
		assert.Equal(t, first, g.CurrentTurn)
		assert.Equal(t, first, g.FirstPlayer)
		assert.Equal(t, cards.DeckSize, g.Deck.Len(), "peeking must not remove cards")

		top := g.Deck.PeekTop(2)
		switch {
		case top[0].Value() > top[1].Value():
			assert.Equal(t, models.PlayerOne, first, "seed %d", seed)
		case top[1].Value() > top[0].Value():
			assert.Equal(t, models.PlayerTwo, first, "seed %d", seed)
		default:
			// a tie with the retry limit at 1 falls back to player one
			assert.Equal(t, models.PlayerOne, first, "seed %d", seed)
		}
	}
}

func TestDealStartingHands(t *testing.T) {
	g, mh := setupTestGame(t, nil)

	require.ErrorIs(t, g.DealStartingHands(), ErrWrongPhase)

	first, err := g.DetermineFirstTurn()
	require.NoError(t, err)
	require.NoError(t, g.DealStartingHands())

	assert.Equal(t, HandSize, g.Players[0].Hand.Len())
	assert.Equal(t, HandSize, g.Players[1].Hand.Len())
	assert.Equal(t, 1, g.DiscardPile.Len())
	assert.Equal(t, 31, g.Deck.Len())
	assertCardsConserved(t, g)

	assert.Equal(t, PhaseInProgress, g.Phase)
	assert.Equal(t, StepDraw, g.Step)
	assert.Equal(t, first, g.CurrentTurn)
	assert.Equal(t, 1, g.TurnID)
	_, visible := g.DiscardPile.Top()
	assert.True(t, visible)
	assert.Equal(t, string(EventDeal), mh.lastType())

	_, err = g.DetermineFirstTurn()
	assert.ErrorIs(t, err, ErrWrongPhase)
}

func TestCardsConservedThroughPlay(t *testing.T) {
	g, _ := setupTestGame(t, nil)
	_, err := g.DetermineFirstTurn()
	require.NoError(t, err)
	require.NoError(t, g.DealStartingHands())

	for i := 0; i < 15; i++ {
		if i%3 == 0 {
			require.NoError(t, g.DrawFromDiscard())
		} else {
			require.NoError(t, g.DrawFromDeck())
		}
		assertCardsConserved(t, g)
		require.NoError(t, g.Declare(models.DecisionNeither))
		require.NoError(t, g.Discard(0))
		assertCardsConserved(t, g)
	}
	assert.Equal(t, 16, g.TurnID)
}

func TestTurnFlow(t *testing.T) {
	g, _ := setupTestGame(t, nil)
	rigHand(t, g, models.PlayerOne, knockerHand, highHand, "5C", "JD")

	require.ErrorIs(t, g.Declare(models.DecisionNeither), ErrWrongPhase)
	require.ErrorIs(t, g.Discard(0), ErrWrongPhase)

	require.NoError(t, g.DrawFromDeck())
	assert.Equal(t, HandSize+1, g.Players[0].Hand.Len())
	assert.Equal(t, StepDecide, g.Step)
	require.ErrorIs(t, g.DrawFromDeck(), ErrWrongPhase)
	require.ErrorIs(t, g.Discard(0), ErrWrongPhase)

	require.ErrorIs(t, g.Declare(models.Decision(9)), ErrUnknownDecision)
	assert.Equal(t, StepDecide, g.Step)

	require.NoError(t, g.Declare(models.DecisionNeither))
	assert.Equal(t, StepDiscard, g.Step)
	require.NoError(t, g.Discard(HandSize))

	assert.Equal(t, HandSize, g.Players[0].Hand.Len())
	assert.Equal(t, models.PlayerTwo, g.CurrentTurn)
	assert.Equal(t, StepDraw, g.Step)
	assert.Equal(t, 2, g.TurnID)
	top, ok := g.DiscardPile.Top()
	require.True(t, ok)
	assert.Equal(t, models.MustParseCards("JD")[0], top)

	_, err := g.CreateMeld(models.PlayerTwo)
	assert.ErrorIs(t, err, ErrWrongPhase)
}

func TestDiscardInvalidIndexLeavesHandUnchanged(t *testing.T) {
	g, _ := setupTestGame(t, nil)
	rigHand(t, g, models.PlayerOne, knockerHand, highHand, "5C", "JD")
	require.NoError(t, g.DrawFromDeck())
	require.NoError(t, g.Declare(models.DecisionNeither))

	before := g.Players[0].Hand.Cards()
	for _, idx := range []int{HandSize + 1, 40, -1} {
		err := g.Discard(idx)
		require.ErrorIs(t, err, ErrInvalidIndex)
		assert.False(t, IsFatal(err))
	}
	assert.Equal(t, before, g.Players[0].Hand.Cards())
	assert.Equal(t, 1, g.DiscardPile.Len())
	assert.Equal(t, StepDiscard, g.Step)
}

func TestDrawFromEmptyDiscardPile(t *testing.T) {
	g, _ := setupTestGame(t, nil)
	rigHand(t, g, models.PlayerOne, knockerHand, highHand, "", "JD")

	err := g.DrawFromDiscard()
	require.ErrorIs(t, err, cards.ErrPileEmpty)
	assert.False(t, IsFatal(err))
	assert.Equal(t, HandSize, g.Players[0].Hand.Len())
	assert.Equal(t, 0, g.DiscardPile.Len())
	assert.Equal(t, PhaseInProgress, g.Phase)
	assert.Equal(t, StepDraw, g.Step)

	// with the stock gone too there is no legal draw left
	g.Deck = &cards.Deck{}
	err = g.DrawFromDiscard()
	require.ErrorIs(t, err, cards.ErrPileEmpty)
	assert.True(t, IsFatal(err))
	assert.Equal(t, PhaseAborted, g.Phase)
}

func TestDrawFromEmptyDeckAborts(t *testing.T) {
	g, mh := setupTestGame(t, nil)
	rigHand(t, g, models.PlayerOne, knockerHand, highHand, "5C", "")
	g.Deck = &cards.Deck{}

	err := g.DrawFromDeck()
	require.ErrorIs(t, err, ErrHandAborted)
	require.ErrorIs(t, err, cards.ErrDeckExhausted)
	assert.True(t, IsFatal(err))
	assert.Equal(t, PhaseAborted, g.Phase)
	assert.ErrorIs(t, g.AbortCause(), cards.ErrDeckExhausted)
	assert.Equal(t, string(EventHandAborted), mh.lastType())

	assert.ErrorIs(t, g.DrawFromDiscard(), ErrWrongPhase)
}

func TestDiscardJustDrawnFromPile(t *testing.T) {
	g, _ := setupTestGame(t, nil)
	rigHand(t, g, models.PlayerOne, knockerHand, highHand, "5C", "JD")

	require.NoError(t, g.DrawFromDiscard())
	require.NoError(t, g.Declare(models.DecisionNeither))
	require.ErrorIs(t, g.Discard(HandSize), ErrDiscardJustDrawn)
	assert.Equal(t, HandSize+1, g.Players[0].Hand.Len())

	require.NoError(t, g.Discard(0))
	assert.Equal(t, models.PlayerTwo, g.CurrentTurn)
}

func TestGinScoresDeadwoodPlusBonus(t *testing.T) {
	g, mh := setupTestGame(t, nil)
	rigHand(t, g, models.PlayerOne,
		"AS 2S 3S 4S 5H 5D 5C 9C 10C JC",
		"6H 7H 8H KS KH KC 2D 3C 4H 6C",
		"QD", "KD")

	var ended []models.HandResult
	var endedNames [2]string
	g.OnHandEnd = func(id uuid.UUID, names [2]string, result models.HandResult) {
		assert.Equal(t, g.ID, id)
		endedNames = names
		ended = append(ended, result)
	}

	declareAfterStockDraw(t, g, models.DecisionGin)
	assert.Equal(t, PhaseMelding, g.Phase)
	_, visible := g.DiscardPile.Top()
	assert.False(t, visible, "discard pile is face down after gin")

	meldFront(t, g, models.PlayerOne, 4, 3, 3)
	assert.Equal(t, 0, g.Deadwood(models.PlayerOne))
	require.NoError(t, g.FinishMelds(models.PlayerOne))

	assert.Equal(t, models.PlayerTwo, g.Actor())
	meldFront(t, g, models.PlayerTwo, 3, 3)
	assert.Equal(t, 15, g.Deadwood(models.PlayerTwo))
	require.ErrorIs(t, g.LayOff(models.PlayerTwo, 0, 0), ErrLayoffNotAllowed)

	_, err := g.ComputeScore()
	require.ErrorIs(t, err, ErrWrongPhase)

	require.NoError(t, g.FinishMelds(models.PlayerTwo))
	assert.Equal(t, PhaseScored, g.Phase)
	assertCardsConserved(t, g)

	want := models.HandResult{
		Winner:           models.PlayerOne,
		Points:           35,
		Kind:             models.ResultGin,
		Declarer:         models.PlayerOne,
		DeclarerDeadwood: 0,
		DefenderDeadwood: 15,
	}
	res, ok := g.Result()
	require.True(t, ok)
	assert.Equal(t, want, res)

	again, err := g.ComputeScore()
	require.NoError(t, err)
	assert.Equal(t, want, again)
	assert.Equal(t, PhaseScored, g.Phase)

	require.Len(t, ended, 1)
	assert.Equal(t, want, ended[0])
	assert.Equal(t, [2]string{"alice", "bob"}, endedNames)
	assert.Equal(t, string(EventHandEnd), mh.lastType())
}

func TestKnockScoring(t *testing.T) {
	noBonus := models.DefaultHouseRules()
	noBonus.UndercutBonus = 0

	tests := []struct {
		name     string
		rules    *models.HouseRules
		defender string
		layoffs  []int // meld indices on the knocker's side, laid off from the front of the hand
		want     models.HandResult
	}{
		{
			name:     "knocker wins on the difference",
			defender: highHand,
			want: models.HandResult{
				Winner: models.PlayerOne, Points: 4, Kind: models.ResultKnock,
				Declarer: models.PlayerOne, DeclarerDeadwood: 8, DefenderDeadwood: 12,
			},
		},
		{
			name:     "undercut after layoffs without bonus scores the bare difference of 3",
			rules:    &noBonus,
			defender: layoffHand,
			layoffs:  []int{0, 1},
			want: models.HandResult{
				Winner: models.PlayerTwo, Points: 3, Kind: models.ResultUndercut,
				Declarer: models.PlayerOne, DeclarerDeadwood: 8, DefenderDeadwood: 5,
			},
		},
		{
			name:     "undercut after layoffs with default bonus of 10 scores 13",
			defender: layoffHand,
			layoffs:  []int{0, 1},
			want: models.HandResult{
				Winner: models.PlayerTwo, Points: 13, Kind: models.ResultUndercut,
				Declarer: models.PlayerOne, DeclarerDeadwood: 8, DefenderDeadwood: 5,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := setupTestGame(t, tt.rules)
			rigHand(t, g, models.PlayerOne, knockerHand, tt.defender, "5C", "JD")

			declareAfterStockDraw(t, g, models.DecisionKnock)
			meldFront(t, g, models.PlayerOne, 3, 3, 3)
			require.NoError(t, g.FinishMelds(models.PlayerOne))

			require.ErrorIs(t, g.LayOff(models.PlayerTwo, 0, 0), ErrWrongPhase, "layoffs wait for both meld steps")
			meldFront(t, g, models.PlayerTwo, 3, 3)
			if tt.defender == highHand {
				meldFront(t, g, models.PlayerTwo, 3)
			}
			require.NoError(t, g.FinishMelds(models.PlayerTwo))

			require.True(t, g.InLayoffStep())
			assert.Equal(t, models.PlayerTwo, g.Actor())
			for _, m := range tt.layoffs {
				require.NoError(t, g.LayOff(models.PlayerTwo, 0, m))
			}
			require.NoError(t, g.FinishMelds(models.PlayerTwo))

			// 8C fits none of the defender's melds and keeps counting against the knocker
			assert.Equal(t, models.PlayerOne, g.Actor())
			require.NoError(t, g.LayOff(models.PlayerOne, 0, 0))
			assert.Equal(t, 8, g.Deadwood(models.PlayerOne))
			require.NoError(t, g.FinishMelds(models.PlayerOne))

			require.Equal(t, PhaseScored, g.Phase)
			assertCardsConserved(t, g)
			res, err := g.ComputeScore()
			require.NoError(t, err)
			assert.Equal(t, tt.want, res)
			assert.Equal(t, tt.want.Winner, g.CurrentTurn)
		})
	}
}

func TestKnockAboveThresholdRejected(t *testing.T) {
	g, _ := setupTestGame(t, nil)
	rigHand(t, g, models.PlayerOne, "AS 2S 3S 4D 5D 6D 7C 7H 9S 8C", highHand, "5C", "JD")

	declareAfterStockDraw(t, g, models.DecisionKnock)
	meldFront(t, g, models.PlayerOne, 3, 3)

	err := g.FinishMelds(models.PlayerOne)
	require.ErrorIs(t, err, scoring.ErrKnockTooHigh)
	assert.False(t, IsFatal(err))
	assert.Equal(t, PhaseMelding, g.Phase)
	assert.Equal(t, models.PlayerOne, g.Actor())
}

func TestInvalidGinRejectedThenWithdrawn(t *testing.T) {
	g, _ := setupTestGame(t, nil)
	rigHand(t, g, models.PlayerOne, knockerHand, highHand, "5C", "JD")

	declareAfterStockDraw(t, g, models.DecisionGin)
	meldFront(t, g, models.PlayerOne, 3, 3, 3)

	err := g.FinishMelds(models.PlayerOne)
	require.ErrorIs(t, err, scoring.ErrInvalidGin)
	assert.Equal(t, PhaseMelding, g.Phase)
	_, scored := g.Result()
	assert.False(t, scored)

	require.ErrorIs(t, g.WithdrawDeclaration(models.PlayerTwo), ErrNotYourTurn)
	require.NoError(t, g.WithdrawDeclaration(models.PlayerOne))

	assert.Equal(t, PhaseInProgress, g.Phase)
	assert.Equal(t, StepDraw, g.Step)
	assert.Equal(t, models.PlayerTwo, g.CurrentTurn)
	assert.Equal(t, models.DecisionNeither, g.Decision())
	assert.Equal(t, HandSize, g.Players[0].Hand.Len())
	assert.Equal(t, 0, g.Players[0].Melds.Len())
	top, ok := g.DiscardPile.Top()
	require.True(t, ok)
	assert.Equal(t, models.MustParseCards("JD")[0], top)
	assertCardsConserved(t, g)
}

func TestMeldStepChecks(t *testing.T) {
	g, mh := setupTestGame(t, nil)
	rigHand(t, g, models.PlayerOne, knockerHand, highHand, "5C", "JD")
	declareAfterStockDraw(t, g, models.DecisionKnock)

	_, err := g.CreateMeld(models.PlayerTwo)
	require.ErrorIs(t, err, ErrNotYourTurn)
	require.ErrorIs(t, g.LayOff(models.PlayerOne, 0, 0), ErrWrongPhase)

	idx, err := g.CreateMeld(models.PlayerOne)
	require.NoError(t, err)
	before := g.Players[0].Hand.Cards()
	require.ErrorIs(t, g.AddToMeld(models.PlayerOne, HandSize, idx), ErrInvalidIndex)
	require.ErrorIs(t, g.AddToMeld(models.PlayerOne, 0, idx+1), ErrInvalidIndex)
	assert.Equal(t, before, g.Players[0].Hand.Cards())
	assert.Equal(t, string(EventMeldCreate), mh.lastType(), "rejected adds publish nothing")

	require.NoError(t, g.AddToMeld(models.PlayerOne, 0, idx))
	assert.Equal(t, string(EventMeldAdd), mh.lastType())
	assert.Equal(t, before[0].Code(), mh.records[len(mh.records)-1].ActionPayload["card"])
	require.NoError(t, g.AddToMeld(models.PlayerOne, 0, idx))
	require.NoError(t, g.ReturnFromMeld(models.PlayerOne, idx, 0))
	assert.Equal(t, HandSize-1, g.Players[0].Hand.Len())
	require.NoError(t, g.DisbandMeld(models.PlayerOne, idx))
	assert.Equal(t, HandSize, g.Players[0].Hand.Len())
	assert.Equal(t, 0, g.Players[0].Melds.Len())
	require.ErrorIs(t, g.DisbandMeld(models.PlayerOne, 0), ErrInvalidIndex)
	assertCardsConserved(t, g)
}

func TestHistorianFailureDoesNotBlockPlay(t *testing.T) {
	g, mh := setupTestGame(t, nil)
	mh.err = errors.New("redis down")
	rigHand(t, g, models.PlayerOne, knockerHand, highHand, "5C", "JD")

	require.NoError(t, g.DrawFromDeck())
	require.NoError(t, g.Declare(models.DecisionNeither))
	require.NoError(t, g.Discard(0))
	assert.Empty(t, mh.records)
}

func TestHistorianRecordsAreOrdered(t *testing.T) {
	g, mh := setupTestGame(t, nil)
	rigHand(t, g, models.PlayerOne, knockerHand, highHand, "5C", "JD")

	require.NoError(t, g.DrawFromDeck())
	require.NoError(t, g.Declare(models.DecisionNeither))
	require.NoError(t, g.Discard(0))

	require.Len(t, mh.records, 3)
	for i := 1; i < len(mh.records); i++ {
		assert.Equal(t, mh.records[i-1].ActionIndex+1, mh.records[i].ActionIndex)
		assert.Equal(t, g.ID, mh.records[i].GameID)
	}
	assert.Equal(t, string(EventDrawStock), mh.records[0].ActionType)
	assert.Equal(t, "player_one", mh.records[2].Actor)
	assert.Equal(t, "AS", mh.records[2].ActionPayload["card"])
}

func TestGameStartIsFirstRecord(t *testing.T) {
	g, mh := setupTestGame(t, nil)
	assert.Empty(t, mh.records, "nothing is published before the first turn is drawn")

	_, err := g.DetermineFirstTurn()
	require.NoError(t, err)

	require.Len(t, mh.records, 2)
	assert.Equal(t, string(EventGameStart), mh.records[0].ActionType)
	assert.Equal(t, 1, mh.records[0].ActionIndex)
	assert.Equal(t, []string{"alice", "bob"}, mh.records[0].ActionPayload["players"])
	assert.Equal(t, string(EventFirstTurn), mh.records[1].ActionType)
	assert.Equal(t, 2, mh.records[1].ActionIndex)
}

func TestViewFor(t *testing.T) {
	g, _ := setupTestGame(t, nil)
	rigHand(t, g, models.PlayerOne, knockerHand, highHand, "5C", "JD")

	_, err := g.ViewFor(models.PlayerID(2))
	require.ErrorIs(t, err, ErrUnknownPlayer)

	v, err := g.ViewFor(models.PlayerOne)
	require.NoError(t, err)
	assert.Equal(t, "alice", v.Name)
	assert.Equal(t, "bob", v.Opponent)
	assert.Equal(t, StepDraw, v.Step)
	assert.Len(t, v.Hand, HandSize)
	assert.Equal(t, 50, v.Deadwood)
	assert.Equal(t, HandSize, v.OpponentHandSize)
	assert.Nil(t, v.OpponentHand)
	require.NotNil(t, v.DiscardTop)
	assert.Equal(t, "5C", v.DiscardTop.Code())

	declareAfterStockDraw(t, g, models.DecisionKnock)
	v, err = g.ViewFor(models.PlayerTwo)
	require.NoError(t, err)
	assert.Nil(t, v.DiscardTop)
	assert.Equal(t, PhaseMelding, v.Phase)
	assert.Equal(t, models.PlayerOne, v.Actor)
	assert.Equal(t, models.DecisionKnock, v.Decision)
}

func TestGameStoreDo(t *testing.T) {
	store := NewGameStore()
	g, _ := setupTestGame(t, nil)
	store.AddGame(g)

	got, ok := store.GetGame(g.ID)
	require.True(t, ok)
	assert.Same(t, g, got)

	err := store.Do(g.ID, func(g *GinGame) error {
		_, err := g.DetermineFirstTurn()
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, PhaseDealing, g.Phase)

	store.DeleteGame(g.ID)
	assert.Error(t, store.Do(g.ID, func(*GinGame) error { return nil }))
}
