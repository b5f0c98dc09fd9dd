package games

import (
	"fmt"
	"math"

	"tokenrush/domain/entities"
)

// limboMinTarget is the lowest multiplier a player may target
const limboMinTarget = 1.2

type limboLeapResolver struct {
	config Config
}

// NewLimboLeapResolver creates the LimboLeap resolver
func NewLimboLeapResolver(config Config) Resolver {
	return &limboLeapResolver{config: config}
}

func (r *limboLeapResolver) GameType() entities.GameType {
	return entities.GameTypeLimboLeap
}

func (r *limboLeapResolver) ValidateParams(params Params) error {
	target, err := floatParam(params, "targetMultiplier")
	if err != nil {
		return err
	}
	if target < limboMinTarget {
		return fmt.Errorf("%w: targetMultiplier must be at least %.1fx", ErrInvalidParams, limboMinTarget)
	}
	if target > crashMaxMultiplier {
		return fmt.Errorf("%w: targetMultiplier cannot exceed %.0fx", ErrInvalidParams, crashMaxMultiplier)
	}
	return nil
}

// Resolve draws from the same bounded heavy-tail family as CrashMaster,
// with this game's own house edge biasing the boundary
func (r *limboLeapResolver) Resolve(betAmount int64, params Params, rng Rand) (*Outcome, error) {
	if err := r.ValidateParams(params); err != nil {
		return nil, err
	}
	target, _ := floatParam(params, "targetMultiplier")

	multiplier := drawMultiplier(rng, r.config.HouseEdge)
	won := multiplier >= target

	outcome := &Outcome{
		Result: entities.GameResultLoss,
		Detail: map[string]any{
			"targetMultiplier": target,
			"multiplier":       multiplier,
		},
	}
	if won {
		outcome.Result = entities.GameResultWin
		outcome.Payout = int64(math.Round(float64(betAmount) * target))
	}
	return outcome, nil
}
