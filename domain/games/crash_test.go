package games

import (
	"testing"

	"tokenrush/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func crashResolver() Resolver {
	return NewCrashMasterResolver(DefaultConfigs()[entities.GameTypeCrashMaster])
}

func TestCrashMasterValidateParams(t *testing.T) {
	resolver := crashResolver()

	tests := []struct {
		name    string
		params  Params
		wantErr bool
	}{
		{"valid target", Params{"cashOutAt": 2.0}, false},
		{"minimum target", Params{"cashOutAt": 1.1}, false},
		{"maximum target", Params{"cashOutAt": 10.0}, false},
		{"below minimum", Params{"cashOutAt": 1.05}, true},
		{"above maximum", Params{"cashOutAt": 10.5}, true},
		{"missing", Params{}, true},
		{"not a number", Params{"cashOutAt": "2.0"}, true},
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

func TestCrashMasterWinPaysTarget(t *testing.T) {
	resolver := crashResolver()

	// u = 0.5 with edge 0.03 draws 0.97/0.5 = 1.94
	outcome, err := resolver.Resolve(100, Params{"cashOutAt": 1.5}, fixedRand{f: 0.5})
	require.NoError(t, err)

	assert.Equal(t, entities.GameResultWin, outcome.Result)
	assert.Equal(t, int64(150), outcome.Payout)
	assert.Equal(t, 1.94, outcome.Detail["multiplier"])
}

func TestCrashMasterLossBelowTarget(t *testing.T) {
	resolver := crashResolver()

	outcome, err := resolver.Resolve(100, Params{"cashOutAt": 2.0}, fixedRand{f: 0.5})
	require.NoError(t, err)

	assert.Equal(t, entities.GameResultLoss, outcome.Result)
	assert.Equal(t, int64(0), outcome.Payout)
	assert.Equal(t, 1.94, outcome.Detail["crashedAt"])
}

func TestCrashMasterInstantCrash(t *testing.T) {
	resolver := crashResolver()

	// u = 0 draws below 1, clamped to the floor, below every valid target
	outcome, err := resolver.Resolve(100, Params{"cashOutAt": 1.1}, fixedRand{f: 0})
	require.NoError(t, err)

	assert.Equal(t, entities.GameResultLoss, outcome.Result)
	assert.Equal(t, 1.0, outcome.Detail["multiplier"])
}

func TestCrashMasterCappedMultiplier(t *testing.T) {
	resolver := crashResolver()

	// A near-one draw maps far beyond the cap and is truncated to 10x
	outcome, err := resolver.Resolve(100, Params{"cashOutAt": 10.0}, fixedRand{f: 0.999})
	require.NoError(t, err)

	assert.Equal(t, entities.GameResultWin, outcome.Result)
	assert.Equal(t, int64(1000), outcome.Payout)
	assert.Equal(t, 10.0, outcome.Detail["multiplier"])
}

func TestCrashMasterRejectsInvalidParamsBeforeDrawing(t *testing.T) {
	resolver := crashResolver()

	_, err := resolver.Resolve(100, Params{"cashOutAt": 0.5}, fixedRand{f: 0.5})
	assert.ErrorIs(t, err, ErrInvalidParams)
}
