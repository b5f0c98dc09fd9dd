package games

import (
	"testing"

	"tokenrush/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minesResolver() Resolver {
	return NewMineQuestResolver(DefaultConfigs()[entities.GameTypeMineQuest])
}

func TestMineQuestValidateParams(t *testing.T) {
	resolver := minesResolver()

	tests := []struct {
		name    string
		params  Params
		wantErr bool
	}{
		{"valid", Params{"gridSize": 3, "mines": 3, "picks": 2}, false},
		{"smallest grid", Params{"gridSize": 2, "mines": 1, "picks": 1}, false},
		{"grid too small", Params{"gridSize": 1, "mines": 1, "picks": 1}, true},
		{"grid too large", Params{"gridSize": 11, "mines": 1, "picks": 1}, true},
		{"no mines", Params{"gridSize": 3, "mines": 0, "picks": 1}, true},
		{"all mines", Params{"gridSize": 3, "mines": 9, "picks": 1}, true},
		{"no picks", Params{"gridSize": 3, "mines": 3, "picks": 0}, true},
		{"too many picks", Params{"gridSize": 3, "mines": 3, "picks": 10}, true},
		{"missing mines", Params{"gridSize": 3, "picks": 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := resolver.ValidateParams(tt.params)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidParams)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMineQuestAllPicksClearIsWin(t *testing.T) {
	resolver := minesResolver()

	// 3x3 grid with 3 mines leaves 6 safe tiles; 2 picks clear fully.
	// safeRatio 6/9, multiplier 1 + 2*(6/9) = 2.33 after rounding.
	outcome, err := resolver.Resolve(100, Params{"gridSize": 3, "mines": 3, "picks": 2}, fixedRand{})
	require.NoError(t, err)

	assert.Equal(t, entities.GameResultWin, outcome.Result)
	assert.Equal(t, int64(233), outcome.Payout)
	assert.Equal(t, 2, outcome.Detail["cleared"])
	assert.Equal(t, 2.33, outcome.Detail["winMultiplier"])
}

func TestMineQuestPicksBeyondSafeTilesIsLoss(t *testing.T) {
	resolver := minesResolver()

	// 7 picks on 6 safe tiles can never clear fully
	outcome, err := resolver.Resolve(100, Params{"gridSize": 3, "mines": 3, "picks": 7}, fixedRand{})
	require.NoError(t, err)

	assert.Equal(t, entities.GameResultLoss, outcome.Result)
	assert.Equal(t, int64(0), outcome.Payout)
	assert.Equal(t, 6, outcome.Detail["cleared"])
}

func TestMineQuestDeterministicAcrossDraws(t *testing.T) {
	resolver := minesResolver()
	params := Params{"gridSize": 4, "mines": 5, "picks": 3}

	first, err := resolver.Resolve(50, params, fixedRand{f: 0.1})
	require.NoError(t, err)
	second, err := resolver.Resolve(50, params, fixedRand{f: 0.9})
	require.NoError(t, err)

	assert.Equal(t, first.Result, second.Result)
	assert.Equal(t, first.Payout, second.Payout)
}

func TestMineQuestMultiplierGrowsWithPicks(t *testing.T) {
	resolver := minesResolver()

	few, err := resolver.Resolve(100, Params{"gridSize": 5, "mines": 5, "picks": 2}, fixedRand{})
	require.NoError(t, err)
	many, err := resolver.Resolve(100, Params{"gridSize": 5, "mines": 5, "picks": 10}, fixedRand{})
	require.NoError(t, err)

	assert.Greater(t, many.Payout, few.Payout)
}
