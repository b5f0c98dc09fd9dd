package services

import (
	"context"
	"fmt"
	"strings"

	"tokenrush/domain/entities"
	"tokenrush/domain/events"
	"tokenrush/domain/interfaces"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type userService struct {
	uowFactory      interfaces.UnitOfWorkFactory
	eventPublisher  interfaces.EventPublisher
	startingBalance int64
}

// NewUserService creates a new user service
func NewUserService(uowFactory interfaces.UnitOfWorkFactory, eventPublisher interfaces.EventPublisher, startingBalance int64) interfaces.UserService {
	return &userService{
		uowFactory:      uowFactory,
		eventPublisher:  eventPublisher,
		startingBalance: startingBalance,
	}
}

// GetOrCreateUser returns the user, creating them with the starting balance
// on first contact. The creation, the initial grant's log entry and the
// referral code assignment land in one transaction.
func (s *userService) GetOrCreateUser(ctx context.Context, userID int64, username string) (*entities.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrStoreUnavailable, err)
	}
	defer func() { _ = uow.Rollback() }()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	user, err = uow.UserRepository().Create(ctx, userID, username, s.startingBalance, generateReferralCode())
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.startingBalance > 0 {
		txn := &entities.TokenTransaction{
			ID:       uuid.NewString(),
			UserID:   userID,
			Amount:   s.startingBalance,
			Source:   entities.TokenSourceInitial,
			Metadata: map[string]any{"username": username},
		}
		if err := uow.TransactionRepository().Append(ctx, txn); err != nil {
			return nil, fmt.Errorf("failed to log initial grant: %w", err)
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrStoreUnavailable, err)
	}

	log.WithFields(log.Fields{
		"userId":   userID,
		"username": username,
	}).Info("Created new user")

	if err := s.eventPublisher.Publish(events.UserCreatedEvent{
		UserID:         userID,
		Username:       username,
		InitialBalance: s.startingBalance,
	}); err != nil {
		log.WithField("userId", userID).WithError(err).Error("Failed to publish user created event")
	}

	return user, nil
}

// GetLeaderboard returns the users with the highest balances
func (s *userService) GetLeaderboard(ctx context.Context, limit int) ([]*entities.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrStoreUnavailable, err)
	}
	defer func() { _ = uow.Rollback() }()

	users, err := uow.UserRepository().GetTopBalances(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	return users, nil
}

// generateReferralCode produces a short shareable code. Eight hex chars is
// plenty for this population; the unique constraint catches the rare clash
// at insert time.
func generateReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
