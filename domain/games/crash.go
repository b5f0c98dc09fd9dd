package games

import (
	"fmt"
	"math"

	"tokenrush/domain/entities"
)

// crashMinCashOut is the lowest multiplier a player may cash out at
const crashMinCashOut = 1.1

// crashMaxMultiplier bounds the multiplier distribution
const crashMaxMultiplier = 10.0

type crashMasterResolver struct {
	config Config
}

// NewCrashMasterResolver creates the CrashMaster resolver
func NewCrashMasterResolver(config Config) Resolver {
	return &crashMasterResolver{config: config}
}

func (r *crashMasterResolver) GameType() entities.GameType {
	return entities.GameTypeCrashMaster
}

func (r *crashMasterResolver) ValidateParams(params Params) error {
	cashOutAt, err := floatParam(params, "cashOutAt")
	if err != nil {
		return err
	}
	if cashOutAt < crashMinCashOut {
		return fmt.Errorf("%w: cashOutAt must be at least %.1fx", ErrInvalidParams, crashMinCashOut)
	}
	if cashOutAt > crashMaxMultiplier {
		return fmt.Errorf("%w: cashOutAt cannot exceed %.0fx", ErrInvalidParams, crashMaxMultiplier)
	}
	return nil
}

// Resolve draws a crash multiplier from a heavy-tailed distribution over
// [1, 10]. The house edge is encoded in the draw itself: the survival
// probability of any cash-out target x is (1-edge)/x, so a winning target
// pays x but is reached slightly less often than 1/x of the time.
func (r *crashMasterResolver) Resolve(betAmount int64, params Params, rng Rand) (*Outcome, error) {
	if err := r.ValidateParams(params); err != nil {
		return nil, err
	}
	cashOutAt, _ := floatParam(params, "cashOutAt")

	multiplier := drawMultiplier(rng, r.config.HouseEdge)
	won := multiplier >= cashOutAt

	outcome := &Outcome{
		Result: entities.GameResultLoss,
		Detail: map[string]any{
			"cashOutAt":  cashOutAt,
			"multiplier": multiplier,
		},
	}
	if won {
		outcome.Result = entities.GameResultWin
		outcome.Payout = int64(math.Round(float64(betAmount) * cashOutAt))
	} else {
		// The round crashed below the target
		outcome.Detail["crashedAt"] = multiplier
	}
	return outcome, nil
}

// drawMultiplier maps a uniform draw to a multiplier in [1, 10] with
// survival function P(m >= x) = (1-edge)/x, truncated at both ends
func drawMultiplier(rng Rand, edge float64) float64 {
	u := rng.Float64()
	m := (1 - edge) / (1 - u)
	if m < 1 {
		m = 1
	}
	if m > crashMaxMultiplier {
		m = crashMaxMultiplier
	}
	// Two decimal places, matching what players see
	return math.Round(m*100) / 100
}
