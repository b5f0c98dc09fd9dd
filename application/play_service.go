package application

import (
	"context"
	"fmt"
	"time"

	"tokenrush/domain/entities"
	"tokenrush/domain/games"
	"tokenrush/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// PlayResult is the settled outcome of one game attempt
type PlayResult struct {
	SessionID string
	GameType  entities.GameType
	BetAmount int64
	Result    entities.GameResult
	Payout    int64
	Detail    map[string]any
}

// PlayService orchestrates one complete game round: validate, debit,
// resolve, settle. It owns no game rules and no balance arithmetic; those
// live in the resolvers and the ledger respectively.
type PlayService struct {
	registry *games.Registry
	ledger   interfaces.LedgerService
	newRand  func() games.Rand
}

// NewPlayService creates a new play service
func NewPlayService(registry *games.Registry, ledger interfaces.LedgerService) *PlayService {
	return &PlayService{
		registry: registry,
		ledger:   ledger,
		newRand:  func() games.Rand { return games.NewRand(time.Now().UnixNano()) },
	}
}

// NewPlayServiceWithRand creates a play service with an injected randomness
// source, for deterministic tests
func NewPlayServiceWithRand(registry *games.Registry, ledger interfaces.LedgerService, newRand func() games.Rand) *PlayService {
	return &PlayService{
		registry: registry,
		ledger:   ledger,
		newRand:  newRand,
	}
}

// Play runs one round of the given game. Parameters are validated before
// any tokens move; once the wager is debited the round always ends in a
// settlement attempt.
func (s *PlayService) Play(ctx context.Context, userID int64, gameType entities.GameType, betAmount int64, params games.Params) (*PlayResult, error) {
	resolver, err := s.registry.Get(gameType)
	if err != nil {
		return nil, err
	}
	if err := resolver.ValidateParams(params); err != nil {
		return nil, err
	}

	sessionID, err := s.ledger.DebitWager(ctx, userID, gameType, betAmount, params)
	if err != nil {
		return nil, err
	}

	outcome, err := resolver.Resolve(betAmount, params, s.newRand())
	if err != nil {
		// Params were validated up front, so this is unexpected. The
		// session stays active and the sweeper will flag it.
		log.WithFields(log.Fields{
			"sessionId": sessionID,
			"gameType":  gameType,
			"userId":    userID,
		}).WithError(err).Error("Game resolution failed after wager debit")
		return nil, fmt.Errorf("failed to resolve %s round: %w", gameType, err)
	}

	if err := s.ledger.FinalizeSession(ctx, sessionID, outcome.Result, outcome.Payout, outcome.Detail); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"sessionId": sessionID,
		"gameType":  gameType,
		"userId":    userID,
		"result":    outcome.Result,
		"payout":    outcome.Payout,
	}).Info("Game round settled")

	return &PlayResult{
		SessionID: sessionID,
		GameType:  gameType,
		BetAmount: betAmount,
		Result:    outcome.Result,
		Payout:    outcome.Payout,
		Detail:    outcome.Detail,
	}, nil
}

// PlayCrashMaster plays one CrashMaster round at the given cash-out target
func (s *PlayService) PlayCrashMaster(ctx context.Context, userID int64, betAmount int64, cashOutAt float64) (*PlayResult, error) {
	return s.Play(ctx, userID, entities.GameTypeCrashMaster, betAmount, games.Params{
		"cashOutAt": cashOutAt,
	})
}

// PlayMineQuest plays one MineQuest round on the given grid
func (s *PlayService) PlayMineQuest(ctx context.Context, userID int64, betAmount int64, gridSize, mines, picks int) (*PlayResult, error) {
	return s.Play(ctx, userID, entities.GameTypeMineQuest, betAmount, games.Params{
		"gridSize": gridSize,
		"mines":    mines,
		"picks":    picks,
	})
}

// PlayDiceHero plays one DiceHero round calling the given face
func (s *PlayService) PlayDiceHero(ctx context.Context, userID int64, betAmount int64, chosenNumber int) (*PlayResult, error) {
	return s.Play(ctx, userID, entities.GameTypeDiceHero, betAmount, games.Params{
		"chosenNumber": chosenNumber,
	})
}

// PlayLimboLeap plays one LimboLeap round at the given target multiplier
func (s *PlayService) PlayLimboLeap(ctx context.Context, userID int64, betAmount int64, targetMultiplier float64) (*PlayResult, error) {
	return s.Play(ctx, userID, entities.GameTypeLimboLeap, betAmount, games.Params{
		"targetMultiplier": targetMultiplier,
	})
}
