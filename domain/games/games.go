package games

import (
	"errors"
	"fmt"
	"math/rand"

	"tokenrush/domain/entities"
)

// ErrInvalidParams indicates a game was asked to play with parameters
// outside its rules. It is raised before any wager is debited.
var ErrInvalidParams = errors.New("invalid game parameters")

// ErrUnknownGame indicates a game type with no registered resolver
var ErrUnknownGame = errors.New("unknown game type")

// Rand is the injected randomness source for resolvers. *rand.Rand
// satisfies it; tests inject fixed draws.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// NewRand returns a production randomness source
func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

// Params carries the caller-supplied per-game parameters
type Params map[string]any

// Outcome is the pure result of resolving one game attempt. Resolvers
// never touch storage; the ledger turns an Outcome into a settlement.
type Outcome struct {
	Result entities.GameResult
	Payout int64
	Detail map[string]any
}

// Resolver resolves one game type. Given the same draws a resolver always
// produces the same outcome.
type Resolver interface {
	// GameType identifies the game this resolver handles
	GameType() entities.GameType

	// ValidateParams rejects parameters outside the game's rules.
	// Called before the wager is debited.
	ValidateParams(params Params) error

	// Resolve maps (bet, params, randomness) to an outcome
	Resolve(betAmount int64, params Params, rng Rand) (*Outcome, error)
}

// Config holds the per-game wager bounds and house edge
type Config struct {
	MinBet    int64
	MaxBet    int64
	HouseEdge float64
}

// DefaultConfigs returns the standard per-game configuration
func DefaultConfigs() map[entities.GameType]Config {
	return map[entities.GameType]Config{
		entities.GameTypeCrashMaster: {MinBet: 10, MaxBet: 1000, HouseEdge: 0.03},
		entities.GameTypeMineQuest:   {MinBet: 5, MaxBet: 1000, HouseEdge: 0.05},
		entities.GameTypeDiceHero:    {MinBet: 1, MaxBet: 1000, HouseEdge: 0.02},
		entities.GameTypeLimboLeap:   {MinBet: 20, MaxBet: 1000, HouseEdge: 0.04},
	}
}

// Registry holds the resolver for each game type
type Registry struct {
	resolvers map[entities.GameType]Resolver
}

// NewRegistry builds a registry with the four standard resolvers
func NewRegistry(configs map[entities.GameType]Config) *Registry {
	r := &Registry{resolvers: make(map[entities.GameType]Resolver)}
	r.register(NewCrashMasterResolver(configs[entities.GameTypeCrashMaster]))
	r.register(NewMineQuestResolver(configs[entities.GameTypeMineQuest]))
	r.register(NewDiceHeroResolver(configs[entities.GameTypeDiceHero]))
	r.register(NewLimboLeapResolver(configs[entities.GameTypeLimboLeap]))
	return r
}

func (r *Registry) register(resolver Resolver) {
	r.resolvers[resolver.GameType()] = resolver
}

// Get returns the resolver for a game type
func (r *Registry) Get(gameType entities.GameType) (Resolver, error) {
	resolver, ok := r.resolvers[gameType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGame, gameType)
	}
	return resolver, nil
}

// floatParam extracts a numeric parameter, accepting the types JSON
// decoding and direct Go callers produce
func floatParam(params Params, key string) (float64, error) {
	v, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("%w: missing %q", ErrInvalidParams, key)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%w: %q must be a number", ErrInvalidParams, key)
	}
}

// intParam extracts an integer parameter
func intParam(params Params, key string) (int, error) {
	f, err := floatParam(params, key)
	if err != nil {
		return 0, err
	}
	n := int(f)
	if float64(n) != f {
		return 0, fmt.Errorf("%w: %q must be an integer", ErrInvalidParams, key)
	}
	return n, nil
}
