package interfaces

import (
	"context"

	"tokenrush/domain/entities"
)

// LedgerService defines the token ledger and session settlement engine.
// It is the only writer of balances and the transaction log; every other
// component mutates tokens through these operations.
type LedgerService interface {
	// DebitWager atomically debits a wager and opens an active session.
	// Either both effects happen or neither does.
	DebitWager(ctx context.Context, userID int64, gameType entities.GameType, betAmount int64, gameParams map[string]any) (string, error)

	// FinalizeSession settles an active session exactly once, crediting the
	// payout when positive. A second call for the same session fails with
	// ErrSessionAlreadyFinalized.
	FinalizeSession(ctx context.Context, sessionID string, result entities.GameResult, payout int64, outcomeDetail map[string]any) error

	// CreditTokens applies a credit and appends a transaction log entry.
	// A zero amount is a no-op returning the current balance. The log append
	// is best-effort relative to the balance update.
	CreditTokens(ctx context.Context, userID int64, amount int64, source entities.TokenSource, metadata map[string]any) (int64, error)

	// GetBalance returns a user's current balance
	GetBalance(ctx context.Context, userID int64) (int64, error)

	// GetTransactionHistory returns a user's transaction log entries
	GetTransactionHistory(ctx context.Context, userID int64, source entities.TokenSource, limit, offset int) ([]*entities.TokenTransaction, error)

	// GetSessionHistory returns a user's game sessions
	GetSessionHistory(ctx context.Context, userID int64, gameType entities.GameType, limit, offset int) ([]*entities.GameSession, error)
}

// UserService defines user lifecycle operations
type UserService interface {
	// GetOrCreateUser returns the user, creating them with the starting
	// balance on first contact
	GetOrCreateUser(ctx context.Context, userID int64, username string) (*entities.User, error)

	// GetLeaderboard returns the users with the highest balances
	GetLeaderboard(ctx context.Context, limit int) ([]*entities.User, error)
}

// RewardsService defines the reward program built on top of the ledger
type RewardsService interface {
	// ClaimDailyBonus grants the streak-based daily bonus, once per UTC day
	ClaimDailyBonus(ctx context.Context, userID int64) (*entities.DailyBonusClaim, error)

	// GrantAchievement grants an achievement and its token reward if the
	// user does not already hold it. Returns false when already granted.
	GrantAchievement(ctx context.Context, userID int64, achievementID string) (bool, error)

	// ProcessReferral links a new user to the owner of a referral code and
	// credits both sides
	ProcessReferral(ctx context.Context, userID int64, referralCode string) error

	// ClaimAdReward credits a rewarded ad view
	ClaimAdReward(ctx context.Context, userID int64, provider string, amount int64, referenceID string) error
}
