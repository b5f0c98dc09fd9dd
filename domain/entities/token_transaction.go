package entities

import (
	"errors"
	"time"
)

// TokenSource represents the cause of a balance change
type TokenSource string

// All token sources supported by the ledger
const (
	// Game-related sources
	TokenSourceGameBet TokenSource = "game_bet"
	TokenSourceGameWin TokenSource = "game_win"

	// Reward sources
	TokenSourceDailyBonus  TokenSource = "daily_bonus"
	TokenSourceAchievement TokenSource = "achievement"
	TokenSourceReferral    TokenSource = "referral"
	TokenSourceAdReward    TokenSource = "ad_reward"

	// System sources
	TokenSourceInitial          TokenSource = "initial"
	TokenSourceManualAdjustment TokenSource = "manual_adjustment"
)

// IsGameSource returns true if the source is a game wager or payout
func (ts TokenSource) IsGameSource() bool {
	return ts == TokenSourceGameBet || ts == TokenSourceGameWin
}

// IsRewardSource returns true if the source is a reward grant
func (ts TokenSource) IsRewardSource() bool {
	return ts == TokenSourceDailyBonus ||
		ts == TokenSourceAchievement ||
		ts == TokenSourceReferral ||
		ts == TokenSourceAdReward
}

// String returns the string representation of the token source
func (ts TokenSource) String() string {
	return string(ts)
}

// TokenTransaction is an immutable record of a single balance mutation.
// The transaction log is append-only: it is the record of causes, the
// user's balance is the current effect.
type TokenTransaction struct {
	ID        string         `db:"id"`
	UserID    int64          `db:"user_id"`
	Amount    int64          `db:"amount"`
	Source    TokenSource    `db:"source"`
	Metadata  map[string]any `db:"metadata"`
	CreatedAt time.Time      `db:"created_at"`
}

// IsCredit returns true if the transaction added tokens
func (t *TokenTransaction) IsCredit() bool {
	return t.Amount > 0
}

// IsDebit returns true if the transaction removed tokens
func (t *TokenTransaction) IsDebit() bool {
	return t.Amount < 0
}

// Validate performs basic validation on the transaction
func (t *TokenTransaction) Validate() error {
	if t.UserID == 0 {
		return errors.New("transaction must belong to a user")
	}
	if t.Amount == 0 {
		return errors.New("transaction amount cannot be zero")
	}
	if t.Source == "" {
		return errors.New("transaction source is required")
	}
	return nil
}
