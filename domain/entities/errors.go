package entities

import "errors"

// Ledger and reward error taxonomy. Validation failures are expected,
// recoverable conditions that propagate to the caller with their reason;
// ErrStoreUnavailable wraps infrastructure failures where no partial
// mutation occurred and the whole operation is safe to retry.
var (
	ErrInvalidBetAmount        = errors.New("invalid bet amount")
	ErrInsufficientBalance     = errors.New("insufficient balance")
	ErrSessionNotFound         = errors.New("session not found")
	ErrSessionAlreadyFinalized = errors.New("session already finalized")
	ErrUserNotFound            = errors.New("user not found")

	ErrInvalidReferralCode    = errors.New("invalid referral code")
	ErrSelfReferral           = errors.New("cannot use your own referral code")
	ErrAlreadyReferred        = errors.New("referral code already used")
	ErrBonusAlreadyClaimed    = errors.New("daily bonus already claimed today")
	ErrAdRewardAlreadyClaimed = errors.New("ad reward already claimed")
	ErrUnknownAchievement     = errors.New("unknown achievement")
	ErrInvalidRewardAmount    = errors.New("reward amount must be positive")

	ErrStoreUnavailable = errors.New("store unavailable")
)
