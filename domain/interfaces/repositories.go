package interfaces

import (
	"context"
	"time"

	"tokenrush/domain/entities"
	"tokenrush/domain/events"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByID retrieves a user by their id
	GetByID(ctx context.Context, userID int64) (*entities.User, error)

	// GetByReferralCode retrieves the user owning a referral code
	GetByReferralCode(ctx context.Context, code string) (*entities.User, error)

	// Create creates a new user with the initial balance and referral code
	Create(ctx context.Context, userID int64, username string, initialBalance int64, referralCode string) (*entities.User, error)

	// ApplyBalanceDelta atomically applies a signed delta to a user's balance
	// and returns the new balance. The update is rejected when it would take
	// the balance negative.
	ApplyBalanceDelta(ctx context.Context, userID int64, delta int64) (int64, error)

	// GetTopBalances returns the users with the highest balances
	GetTopBalances(ctx context.Context, limit int) ([]*entities.User, error)
}

// SessionRepository defines the interface for game session data access
type SessionRepository interface {
	// Create inserts a new session in active status
	Create(ctx context.Context, session *entities.GameSession) error

	// GetByID retrieves a session by its id
	GetByID(ctx context.Context, sessionID string) (*entities.GameSession, error)

	// Finalize transitions a session from active to completed, recording
	// result, payout and outcome detail. The transition is a single
	// compare-and-set; a session that is not active is not updated.
	Finalize(ctx context.Context, sessionID string, result entities.GameResult, payout int64, gameData map[string]any, endedAt time.Time) (*entities.GameSession, error)

	// GetByUser returns sessions for a user, newest first. gameType filters
	// when non-empty.
	GetByUser(ctx context.Context, userID int64, gameType entities.GameType, limit, offset int) ([]*entities.GameSession, error)

	// ListStaleActive returns active sessions started before the cutoff
	ListStaleActive(ctx context.Context, cutoff time.Time, limit int) ([]*entities.GameSession, error)
}

// TransactionRepository defines the interface for the append-only token
// transaction log
type TransactionRepository interface {
	// Append inserts a new transaction log entry
	Append(ctx context.Context, txn *entities.TokenTransaction) error

	// GetByUser returns transactions for a user, newest first. source
	// filters when non-empty.
	GetByUser(ctx context.Context, userID int64, source entities.TokenSource, limit, offset int) ([]*entities.TokenTransaction, error)

	// SumByUser returns the sum of all transaction amounts for a user
	SumByUser(ctx context.Context, userID int64) (int64, error)
}

// DailyBonusRepository defines the interface for daily bonus claims
type DailyBonusRepository interface {
	// GetLastClaim returns the most recent claim for a user, or nil
	GetLastClaim(ctx context.Context, userID int64) (*entities.DailyBonusClaim, error)

	// Create inserts a claim. Inserting a second claim for the same user
	// and date fails with a conflict.
	Create(ctx context.Context, claim *entities.DailyBonusClaim) error
}

// AchievementRepository defines the interface for achievement grants
type AchievementRepository interface {
	// Grant inserts an achievement grant if absent. Returns false when the
	// user already holds the achievement.
	Grant(ctx context.Context, grant *entities.UserAchievement) (bool, error)

	// GetByUser returns all achievements granted to a user
	GetByUser(ctx context.Context, userID int64) ([]*entities.UserAchievement, error)
}

// ReferralRepository defines the interface for referral relationships
type ReferralRepository interface {
	// Create inserts a referral relationship. Inserting a second referral
	// for the same referred user fails with a conflict.
	Create(ctx context.Context, referral *entities.Referral) error

	// GetByReferredUser returns the referral for a referred user, or nil
	GetByReferredUser(ctx context.Context, referredUserID int64) (*entities.Referral, error)

	// CountByReferrer returns how many users a referrer has brought in
	CountByReferrer(ctx context.Context, referrerID int64) (int64, error)
}

// AdRewardRepository defines the interface for rewarded ad views
type AdRewardRepository interface {
	// Create inserts an ad reward record. A duplicate (user, provider,
	// reference) fails with a conflict.
	Create(ctx context.Context, reward *entities.AdReward) error
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(event events.Event) error
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	UserRepository() UserRepository
	SessionRepository() SessionRepository
	TransactionRepository() TransactionRepository
	DailyBonusRepository() DailyBonusRepository
	AchievementRepository() AchievementRepository
	ReferralRepository() ReferralRepository
	AdRewardRepository() AdRewardRepository
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
