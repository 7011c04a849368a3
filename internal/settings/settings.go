package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cypherlabdev/prediction-evaluator-service/internal/models"
)

// Keys under which the dashboard stores its settings
const (
	KeyMatchPolicy      = "matchConditionConfig"
	KeyContinueAfterWin = "continueBettingConfig"
	KeyStake            = "betConfig"
)

// Store is a string key-value store of user settings
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Resolve reads the stored settings on top of defaults. Missing or
// malformed values keep the default; the window is not a stored setting.
func Resolve(ctx context.Context, store Store, defaults models.EvaluationParams) (models.EvaluationParams, error) {
	params := defaults

	value, found, err := store.Get(ctx, KeyMatchPolicy)
	if err != nil {
		return defaults, fmt.Errorf("failed to read %s: %w", KeyMatchPolicy, err)
	}
	if p := models.MatchPolicy(value); found && p.Valid() {
		params.Policy = p
	}

	value, found, err = store.Get(ctx, KeyContinueAfterWin)
	if err != nil {
		return defaults, fmt.Errorf("failed to read %s: %w", KeyContinueAfterWin, err)
	}
	if found {
		if b, perr := strconv.ParseBool(value); perr == nil {
			params.ContinueAfterWin = b
		}
	}

	value, found, err = store.Get(ctx, KeyStake)
	if err != nil {
		return defaults, fmt.Errorf("failed to read %s: %w", KeyStake, err)
	}
	if found {
		if stake, ok := parseStake(value, defaults.Stake); ok {
			params.Stake = stake
		}
	}

	return params, nil
}

// Save writes the stored subset of params: policy, continue flag and stake
func Save(ctx context.Context, store Store, params models.EvaluationParams) error {
	if !params.Policy.Valid() {
		return fmt.Errorf("invalid match policy %q", params.Policy)
	}

	stake, err := json.Marshal(params.Stake.Clamp())
	if err != nil {
		return fmt.Errorf("failed to marshal stake: %w", err)
	}

	values := []struct{ key, value string }{
		{KeyMatchPolicy, string(params.Policy)},
		{KeyContinueAfterWin, strconv.FormatBool(params.ContinueAfterWin)},
		{KeyStake, string(stake)},
	}
	for _, kv := range values {
		if err := store.Set(ctx, kv.key, kv.value); err != nil {
			return fmt.Errorf("failed to write %s: %w", kv.key, err)
		}
	}
	return nil
}

// parseStake decodes {"x":..,"y":..,"z":..}. Absent fields keep the
// fallback value and the result is clamped.
func parseStake(value string, fallback models.StakeConfig) (models.StakeConfig, bool) {
	var raw struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
		Z *float64 `json:"z"`
	}
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		return fallback, false
	}

	stake := fallback
	if raw.X != nil {
		stake.First = *raw.X
	}
	if raw.Y != nil {
		stake.Second = *raw.Y
	}
	if raw.Z != nil {
		stake.Third = *raw.Z
	}
	return stake.Clamp(), true
}
