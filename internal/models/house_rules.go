package models

import "fmt"

// HouseRules holds the numeric constants of the standard two-player ruleset.
type HouseRules struct {
	KnockThreshold      int `json:"knockThreshold"`      // max deadwood a knocker may hold
	GinBonus            int `json:"ginBonus"`            // added to the defender's deadwood on gin
	UndercutBonus       int `json:"undercutBonus"`       // added to the difference on an undercut
	FirstTurnRetryLimit int `json:"firstTurnRetryLimit"` // 0 retries tied first-turn draws forever
}

// DefaultHouseRules returns the conventional constants.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		KnockThreshold:      10,
		GinBonus:            20,
		UndercutBonus:       10,
		FirstTurnRetryLimit: 0,
	}
}

// Update will update the house rules with the new rules provided.
// If a rule is not set or defined, it will be ignored, and the old value will persist.
func (rules *HouseRules) Update(newRules map[string]interface{}) error {
	assignInt := func(field *int, key string) error {
		val, exists := newRules[key]
		if !exists || val == nil {
			return nil
		}
		var v int
		switch n := val.(type) {
		case float64:
			// JSON numbers decode as float64
			v = int(n)
		case int:
			v = n
		default:
			return fmt.Errorf("invalid type for %s", key)
		}
		if v < 0 {
			return fmt.Errorf("%s must be non-negative", key)
		}
		*field = v
		return nil
	}

	if err := assignInt(&rules.KnockThreshold, "knockThreshold"); err != nil {
		return err
	}
	if err := assignInt(&rules.GinBonus, "ginBonus"); err != nil {
		return err
	}
	if err := assignInt(&rules.UndercutBonus, "undercutBonus"); err != nil {
		return err
	}
	if err := assignInt(&rules.FirstTurnRetryLimit, "firstTurnRetryLimit"); err != nil {
		return err
	}
	return nil
}

// ParseRules applies a map of overrides to a copy of current. The copy is returned even on
// error so callers can inspect how far the update got.
func ParseRules(rules map[string]interface{}, current HouseRules) (HouseRules, error) {
	houseRules := current
	err := houseRules.Update(rules)
	return houseRules, err
}
