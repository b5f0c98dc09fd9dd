package games

import (
	"fmt"
	"math"

	"tokenrush/domain/entities"
)

const (
	minesMinGrid = 2
	minesMaxGrid = 10
)

type mineQuestResolver struct {
	config Config
}

// NewMineQuestResolver creates the MineQuest resolver
func NewMineQuestResolver(config Config) Resolver {
	return &mineQuestResolver{config: config}
}

func (r *mineQuestResolver) GameType() entities.GameType {
	return entities.GameTypeMineQuest
}

func (r *mineQuestResolver) ValidateParams(params Params) error {
	gridSize, err := intParam(params, "gridSize")
	if err != nil {
		return err
	}
	if gridSize < minesMinGrid || gridSize > minesMaxGrid {
		return fmt.Errorf("%w: gridSize must be between %d and %d", ErrInvalidParams, minesMinGrid, minesMaxGrid)
	}

	tiles := gridSize * gridSize
	mines, err := intParam(params, "mines")
	if err != nil {
		return err
	}
	if mines < 1 || mines >= tiles {
		return fmt.Errorf("%w: mines must be between 1 and %d", ErrInvalidParams, tiles-1)
	}

	picks, err := intParam(params, "picks")
	if err != nil {
		return err
	}
	if picks < 1 || picks > tiles {
		return fmt.Errorf("%w: picks must be between 1 and %d", ErrInvalidParams, tiles)
	}
	return nil
}

// Resolve applies the expected-value formula for clearing tiles on a mined
// grid. A session is a win only when every requested pick clears; clearing
// fewer than requested pays nothing. The draw source is unused: the outcome
// is fully determined by the field geometry.
func (r *mineQuestResolver) Resolve(betAmount int64, params Params, rng Rand) (*Outcome, error) {
	if err := r.ValidateParams(params); err != nil {
		return nil, err
	}
	gridSize, _ := intParam(params, "gridSize")
	mines, _ := intParam(params, "mines")
	picks, _ := intParam(params, "picks")

	tiles := gridSize * gridSize
	safeTiles := tiles - mines
	cleared := picks
	if cleared > safeTiles {
		cleared = safeTiles
	}

	safeRatio := float64(safeTiles) / float64(tiles)
	winMultiplier := math.Round((1+float64(cleared)*safeRatio)*100) / 100
	won := cleared == picks

	outcome := &Outcome{
		Result: entities.GameResultLoss,
		Detail: map[string]any{
			"gridSize":      gridSize,
			"mines":         mines,
			"picks":         picks,
			"cleared":       cleared,
			"winMultiplier": winMultiplier,
		},
	}
	if won {
		outcome.Result = entities.GameResultWin
		outcome.Payout = int64(math.Round(float64(betAmount) * winMultiplier))
	}
	return outcome, nil
}
