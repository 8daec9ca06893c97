// internal/scoring/scoring.go
package scoring

import (
	"errors"
	"fmt"

	"github.com/jason-s-yu/ginrummy/internal/meld"
	"github.com/jason-s-yu/ginrummy/internal/models"
)

var (
	// ErrInvalidGin is returned when gin was called but the declarer holds deadwood.
	ErrInvalidGin = errors.New("gin declared with deadwood")
	// ErrKnockTooHigh is returned when the knocker's deadwood exceeds the knock threshold.
	ErrKnockTooHigh = errors.New("knock deadwood above threshold")
	// ErrNoDeclaration is returned when scoring a hand nobody ended.
	ErrNoDeclaration = errors.New("hand was not knocked or ginned")
)

// Side is one player's final holdings: unmelded hand cards and the melds they own.
// Melds may carry layoffs from the other player.
type Side struct {
	Hand  []models.Card
	Melds []meld.Meld
}

// Tally is the deadwood of both players, indexed by PlayerID.
type Tally [2]int

// Of returns the deadwood charged to p.
func (t Tally) Of(p models.PlayerID) int {
	return t[p.Index()]
}

// Deadwood charges every card that does not end up in a valid meld to the player it came
// from. A meld whose own cards are not a run or set counts entirely against its owner.
// Layoffs are kept only while the meld stays valid; the rest count against whoever laid
// them off.
func Deadwood(sides [2]Side) Tally {
	var t Tally
	for _, owner := range models.Players {
		side := sides[owner.Index()]
		t[owner.Index()] += models.SumValues(side.Hand)

		for _, m := range side.Melds {
			if meld.Classify(m.Cards) == meld.Invalid {
				t[owner.Index()] += models.SumValues(m.Cards)
				for _, l := range m.Layoffs {
					t[l.By.Index()] += l.Card.Value()
				}
				continue
			}
			_, rejected := AcceptLayoffs(m.Cards, m.Layoffs)
			for _, l := range rejected {
				t[l.By.Index()] += l.Card.Value()
			}
		}
	}
	return t
}

// AcceptLayoffs extends a valid base meld with as many layoffs as keep it valid. Layoffs
// are retried until none can be added, so 6-7-8 accepts a 4 laid before a 5.
func AcceptLayoffs(base []models.Card, layoffs []meld.Layoff) (accepted, rejected []meld.Layoff) {
	current := append([]models.Card(nil), base...)
	pending := append([]meld.Layoff(nil), layoffs...)

	for progress := true; progress; {
		progress = false
		remaining := pending[:0]
		for _, l := range pending {
			candidate := append(append([]models.Card(nil), current...), l.Card)
			if meld.IsValid(candidate) {
				current = candidate
				accepted = append(accepted, l)
				progress = true
				continue
			}
			remaining = append(remaining, l)
		}
		pending = remaining
	}
	return accepted, pending
}

// Score resolves a finished hand. declarer is the player who knocked or called gin.
func Score(rules models.HouseRules, decision models.Decision, declarer models.PlayerID, sides [2]Side) (models.HandResult, error) {
	t := Deadwood(sides)
	defender := declarer.Other()
	declDW, defDW := t.Of(declarer), t.Of(defender)

	result := models.HandResult{
		Declarer:         declarer,
		DeclarerDeadwood: declDW,
		DefenderDeadwood: defDW,
	}

	switch decision {
	case models.DecisionGin:
		if declDW != 0 {
			return models.HandResult{}, fmt.Errorf("%w: %s holds %d", ErrInvalidGin, declarer, declDW)
		}
		result.Winner = declarer
		result.Kind = models.ResultGin
		result.Points = defDW + rules.GinBonus
	case models.DecisionKnock:
		if declDW > rules.KnockThreshold {
			return models.HandResult{}, fmt.Errorf("%w: %s holds %d (max %d)", ErrKnockTooHigh, declarer, declDW, rules.KnockThreshold)
		}
		if defDW <= declDW {
			result.Winner = defender
			result.Kind = models.ResultUndercut
			result.Points = declDW - defDW + rules.UndercutBonus
		} else {
			result.Winner = declarer
			result.Kind = models.ResultKnock
			result.Points = defDW - declDW
		}
	default:
		return models.HandResult{}, ErrNoDeclaration
	}
	return result, nil
}

// CheckDeclaration verifies the declarer's deadwood once their melds are built.
// Layoffs never raise the declarer's deadwood, so a declaration passing here passes Score.
func CheckDeclaration(rules models.HouseRules, decision models.Decision, deadwood int) error {
	switch decision {
	case models.DecisionGin:
		if deadwood != 0 {
			return fmt.Errorf("%w: %d", ErrInvalidGin, deadwood)
		}
	case models.DecisionKnock:
		if deadwood > rules.KnockThreshold {
			return fmt.Errorf("%w: %d (max %d)", ErrKnockTooHigh, deadwood, rules.KnockThreshold)
		}
	default:
		return ErrNoDeclaration
	}
	return nil
}
