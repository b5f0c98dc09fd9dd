package entities

import (
	"errors"
	"time"
)

// GameType identifies one of the supported games
type GameType string

const (
	GameTypeCrashMaster GameType = "crash_master"
	GameTypeMineQuest   GameType = "mine_quest"
	GameTypeDiceHero    GameType = "dice_hero"
	GameTypeLimboLeap   GameType = "limbo_leap"
)

// AllGameTypes lists every supported game type
var AllGameTypes = []GameType{
	GameTypeCrashMaster,
	GameTypeMineQuest,
	GameTypeDiceHero,
	GameTypeLimboLeap,
}

// IsValid returns true if the game type is one of the supported games
func (gt GameType) IsValid() bool {
	switch gt {
	case GameTypeCrashMaster, GameTypeMineQuest, GameTypeDiceHero, GameTypeLimboLeap:
		return true
	}
	return false
}

// String returns the string representation of the game type
func (gt GameType) String() string {
	return string(gt)
}

// SessionStatus represents the lifecycle state of a game session
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
)

// GameResult represents the outcome of a completed session
type GameResult string

const (
	GameResultWin  GameResult = "win"
	GameResultLoss GameResult = "loss"
)

// GameSession represents one complete attempt at a game, from debit to resolution
type GameSession struct {
	ID        string         `db:"id"`
	UserID    int64          `db:"user_id"`
	GameType  GameType       `db:"game_type"`
	BetAmount int64          `db:"bet_amount"`
	Status    SessionStatus  `db:"status"`
	Result    *GameResult    `db:"result"`
	Payout    int64          `db:"payout"`
	GameData  map[string]any `db:"game_data"`
	StartedAt time.Time      `db:"started_at"`
	EndedAt   *time.Time     `db:"ended_at"`
}

// IsActive returns true if the session has been debited but not yet settled
func (s *GameSession) IsActive() bool {
	return s.Status == SessionStatusActive
}

// IsCompleted returns true if the session has been settled
func (s *GameSession) IsCompleted() bool {
	return s.Status == SessionStatusCompleted
}

// IsWin returns true if the session settled as a win
func (s *GameSession) IsWin() bool {
	return s.Result != nil && *s.Result == GameResultWin
}

// NetChange returns the session's net effect on the user's balance
func (s *GameSession) NetChange() int64 {
	return s.Payout - s.BetAmount
}

// Age returns how long the session has existed
func (s *GameSession) Age(now time.Time) time.Duration {
	return now.Sub(s.StartedAt)
}

// Validate performs basic validation on the session
func (s *GameSession) Validate() error {
	if s.UserID == 0 {
		return errors.New("session must belong to a user")
	}
	if !s.GameType.IsValid() {
		return errors.New("unknown game type")
	}
	if s.BetAmount <= 0 {
		return errors.New("bet amount must be positive")
	}
	if s.Payout < 0 {
		return errors.New("payout cannot be negative")
	}
	if s.IsCompleted() && s.Result == nil {
		return errors.New("completed session must have a result")
	}
	return nil
}
