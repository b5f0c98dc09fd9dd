package services

import (
	"context"
	"fmt"
	"time"

	"tokenrush/domain/entities"
	"tokenrush/domain/events"
	"tokenrush/domain/games"
	"tokenrush/domain/interfaces"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// ledgerService is the token ledger and settlement engine. All balance
// mutations in the system go through its three primitives; every mutation
// pairs an atomic balance delta with an append-only transaction log entry.
type ledgerService struct {
	uowFactory     interfaces.UnitOfWorkFactory
	eventPublisher interfaces.EventPublisher
	configs        map[entities.GameType]games.Config
}

// NewLedgerService creates a new ledger service
func NewLedgerService(uowFactory interfaces.UnitOfWorkFactory, eventPublisher interfaces.EventPublisher, configs map[entities.GameType]games.Config) interfaces.LedgerService {
	return &ledgerService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		configs:        configs,
	}
}

// DebitWager debits the wager and opens the session in one transaction.
// A reader can never observe a session without its debit or a debit
// without its session.
func (s *ledgerService) DebitWager(ctx context.Context, userID int64, gameType entities.GameType, betAmount int64, gameParams map[string]any) (string, error) {
	config, ok := s.configs[gameType]
	if !ok {
		return "", fmt.Errorf("%w: %s", games.ErrUnknownGame, gameType)
	}
	if betAmount < config.MinBet || betAmount > config.MaxBet {
		return "", fmt.Errorf("%w: %s accepts bets between %d and %d tokens",
			entities.ErrInvalidBetAmount, gameType, config.MinBet, config.MaxBet)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", entities.ErrStoreUnavailable, err)
	}
	defer func() { _ = uow.Rollback() }()

	newBalance, err := uow.UserRepository().ApplyBalanceDelta(ctx, userID, -betAmount)
	if err != nil {
		return "", fmt.Errorf("failed to debit wager: %w", err)
	}

	session := &entities.GameSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		GameType:  gameType,
		BetAmount: betAmount,
		Status:    entities.SessionStatusActive,
		GameData:  gameParams,
	}
	if err := uow.SessionRepository().Create(ctx, session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	txn := &entities.TokenTransaction{
		ID:     uuid.NewString(),
		UserID: userID,
		Amount: -betAmount,
		Source: entities.TokenSourceGameBet,
		Metadata: map[string]any{
			"sessionId": session.ID,
			"gameType":  gameType.String(),
		},
	}
	if err := uow.TransactionRepository().Append(ctx, txn); err != nil {
		return "", fmt.Errorf("failed to log wager transaction: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return "", fmt.Errorf("%w: %v", entities.ErrStoreUnavailable, err)
	}

	s.publish(events.BalanceChangeEvent{
		UserID:       userID,
		OldBalance:   newBalance + betAmount,
		NewBalance:   newBalance,
		Source:       entities.TokenSourceGameBet,
		ChangeAmount: -betAmount,
	})

	return session.ID, nil
}

// FinalizeSession settles a session exactly once. The active→completed
// transition and the payout credit share one transactional boundary: if
// the credit cannot be applied, the transition rolls back with it and the
// failure is surfaced for reconciliation.
func (s *ledgerService) FinalizeSession(ctx context.Context, sessionID string, result entities.GameResult, payout int64, outcomeDetail map[string]any) error {
	if result != entities.GameResultWin && result != entities.GameResultLoss {
		return fmt.Errorf("invalid session result %q", result)
	}
	if payout < 0 {
		return fmt.Errorf("payout cannot be negative")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("%w: %v", entities.ErrStoreUnavailable, err)
	}
	defer func() { _ = uow.Rollback() }()

	session, err := uow.SessionRepository().Finalize(ctx, sessionID, result, payout, outcomeDetail, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to finalize session %s: %w", sessionID, err)
	}

	var newBalance int64
	if payout > 0 {
		newBalance, err = uow.UserRepository().ApplyBalanceDelta(ctx, session.UserID, payout)
		if err != nil {
			// The rollback undoes the status transition with the credit,
			// so no half-settled state survives. Loud on purpose.
			log.WithFields(log.Fields{
				"sessionId": sessionID,
				"userId":    session.UserID,
				"payout":    payout,
			}).WithError(err).Error("Payout credit failed during settlement")
			return fmt.Errorf("failed to credit payout for session %s: %w", sessionID, err)
		}

		txn := &entities.TokenTransaction{
			ID:     uuid.NewString(),
			UserID: session.UserID,
			Amount: payout,
			Source: entities.TokenSourceGameWin,
			Metadata: map[string]any{
				"sessionId": sessionID,
				"gameType":  session.GameType.String(),
				"betAmount": session.BetAmount,
			},
		}
		if err := uow.TransactionRepository().Append(ctx, txn); err != nil {
			return fmt.Errorf("failed to log payout transaction: %w", err)
		}
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("%w: %v", entities.ErrStoreUnavailable, err)
	}

	if payout > 0 {
		s.publish(events.BalanceChangeEvent{
			UserID:       session.UserID,
			OldBalance:   newBalance - payout,
			NewBalance:   newBalance,
			Source:       entities.TokenSourceGameWin,
			ChangeAmount: payout,
		})
	}
	s.publish(events.SessionSettledEvent{
		SessionID: sessionID,
		UserID:    session.UserID,
		GameType:  session.GameType,
		BetAmount: session.BetAmount,
		Result:    result,
		Payout:    payout,
	})

	return nil
}

// CreditTokens applies a reward credit. The balance update and the log
// append are deliberately asymmetric: once the balance commit succeeds the
// grant stands, and a failed log append is reported to the observability
// channel instead of unwinding tokens the user may already see.
func (s *ledgerService) CreditTokens(ctx context.Context, userID int64, amount int64, source entities.TokenSource, metadata map[string]any) (int64, error) {
	if amount == 0 {
		return s.GetBalance(ctx, userID)
	}
	if amount < 0 {
		return 0, fmt.Errorf("%w: got %d", entities.ErrInvalidRewardAmount, amount)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("%w: %v", entities.ErrStoreUnavailable, err)
	}
	defer func() { _ = uow.Rollback() }()

	newBalance, err := uow.UserRepository().ApplyBalanceDelta(ctx, userID, amount)
	if err != nil {
		return 0, fmt.Errorf("failed to credit tokens: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("%w: %v", entities.ErrStoreUnavailable, err)
	}

	s.publish(events.BalanceChangeEvent{
		UserID:       userID,
		OldBalance:   newBalance - amount,
		NewBalance:   newBalance,
		Source:       source,
		ChangeAmount: amount,
	})

	// Best-effort log append after the committed balance change
	if err := s.appendTransaction(ctx, userID, amount, source, metadata); err != nil {
		log.WithFields(log.Fields{
			"userId": userID,
			"amount": amount,
			"source": source,
		}).WithError(err).Error("Transaction log append failed after committed credit")
		s.publish(events.AuditGapEvent{
			UserID: userID,
			Amount: amount,
			Source: source,
			Reason: err.Error(),
		})
	}

	return newBalance, nil
}

// appendTransaction writes one transaction log entry in its own transaction
func (s *ledgerService) appendTransaction(ctx context.Context, userID int64, amount int64, source entities.TokenSource, metadata map[string]any) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() { _ = uow.Rollback() }()

	txn := &entities.TokenTransaction{
		ID:       uuid.NewString(),
		UserID:   userID,
		Amount:   amount,
		Source:   source,
		Metadata: metadata,
	}
	if err := uow.TransactionRepository().Append(ctx, txn); err != nil {
		return err
	}
	return uow.Commit()
}

// GetBalance returns a user's current balance
func (s *ledgerService) GetBalance(ctx context.Context, userID int64) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("%w: %v", entities.ErrStoreUnavailable, err)
	}
	defer func() { _ = uow.Rollback() }()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	if user == nil {
		return 0, fmt.Errorf("%w: %d", entities.ErrUserNotFound, userID)
	}
	return user.Balance, nil
}

// GetTransactionHistory returns a user's transaction log entries
func (s *ledgerService) GetTransactionHistory(ctx context.Context, userID int64, source entities.TokenSource, limit, offset int) ([]*entities.TokenTransaction, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrStoreUnavailable, err)
	}
	defer func() { _ = uow.Rollback() }()

	txns, err := uow.TransactionRepository().GetByUser(ctx, userID, source, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction history: %w", err)
	}
	return txns, nil
}

// GetSessionHistory returns a user's game sessions
func (s *ledgerService) GetSessionHistory(ctx context.Context, userID int64, gameType entities.GameType, limit, offset int) ([]*entities.GameSession, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrStoreUnavailable, err)
	}
	defer func() { _ = uow.Rollback() }()

	sessions, err := uow.SessionRepository().GetByUser(ctx, userID, gameType, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get session history: %w", err)
	}
	return sessions, nil
}

// publish emits a domain event. Publish failures are logged, never
// propagated: events are observability, not correctness.
func (s *ledgerService) publish(event events.Event) {
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithField("eventType", event.Type()).WithError(err).Error("Failed to publish event")
	}
}
