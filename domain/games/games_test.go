package games

import (
	"testing"

	"tokenrush/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedRand returns the same draw every time, making outcomes deterministic
type fixedRand struct {
	f float64
	n int
}

func (r fixedRand) Float64() float64 { return r.f }
func (r fixedRand) Intn(n int) int   { return r.n % n }

func TestRegistryHasAllGames(t *testing.T) {
	registry := NewRegistry(DefaultConfigs())

	for _, gameType := range entities.AllGameTypes {
		resolver, err := registry.Get(gameType)
		require.NoError(t, err)
		assert.Equal(t, gameType, resolver.GameType())
	}
}

func TestRegistryUnknownGame(t *testing.T) {
	registry := NewRegistry(DefaultConfigs())

	_, err := registry.Get(entities.GameType("roulette"))
	assert.ErrorIs(t, err, ErrUnknownGame)
}

func TestFloatParamAcceptsNumericTypes(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  float64
	}{
		{"float64", 2.5, 2.5},
		{"int", 3, 3.0},
		{"int64", int64(4), 4.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := floatParam(Params{"x": tt.value}, "x")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFloatParamRejectsMissingAndNonNumeric(t *testing.T) {
	_, err := floatParam(Params{}, "x")
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = floatParam(Params{"x": "2.5"}, "x")
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestIntParamRejectsFraction(t *testing.T) {
	_, err := intParam(Params{"x": 2.5}, "x")
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestDrawMultiplierBounds(t *testing.T) {
	rng := NewRand(42)
	for i := 0; i < 10000; i++ {
		m := drawMultiplier(rng, 0.03)
		assert.GreaterOrEqual(t, m, 1.0)
		assert.LessOrEqual(t, m, crashMaxMultiplier)
	}
}

func TestDrawMultiplierDeterministic(t *testing.T) {
	a := drawMultiplier(NewRand(7), 0.03)
	b := drawMultiplier(NewRand(7), 0.03)
	assert.Equal(t, a, b)
}
