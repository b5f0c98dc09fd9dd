package events

import "tokenrush/domain/entities"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange  EventType = "balance_change"
	EventTypeUserCreated    EventType = "user_created"
	EventTypeSessionSettled EventType = "session_settled"
	EventTypeRewardGranted  EventType = "reward_granted"
	EventTypeAuditGap       EventType = "audit_gap"
	EventTypeStaleSession   EventType = "stale_session"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred.
// The external leaderboard service consumes these to maintain rankings.
type BalanceChangeEvent struct {
	UserID       int64
	OldBalance   int64
	NewBalance   int64
	Source       entities.TokenSource
	ChangeAmount int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// UserCreatedEvent represents a new user creation
type UserCreatedEvent struct {
	UserID         int64
	Username       string
	InitialBalance int64
}

func (e UserCreatedEvent) Type() EventType {
	return EventTypeUserCreated
}

// SessionSettledEvent represents a game session that was settled
type SessionSettledEvent struct {
	SessionID string
	UserID    int64
	GameType  entities.GameType
	BetAmount int64
	Result    entities.GameResult
	Payout    int64
}

func (e SessionSettledEvent) Type() EventType {
	return EventTypeSessionSettled
}

// RewardGrantedEvent represents a reward credit (daily bonus, achievement,
// referral, ad reward)
type RewardGrantedEvent struct {
	UserID int64
	Source entities.TokenSource
	Amount int64
}

func (e RewardGrantedEvent) Type() EventType {
	return EventTypeRewardGranted
}

// AuditGapEvent signals that a balance mutation committed but its
// transaction-log append failed. The balance change stands; this event is
// the trace that lets the gap be reconciled later.
type AuditGapEvent struct {
	UserID int64
	Amount int64
	Source entities.TokenSource
	Reason string
}

func (e AuditGapEvent) Type() EventType {
	return EventTypeAuditGap
}

// StaleSessionEvent flags an active session that was debited but never
// finalized within the expected window
type StaleSessionEvent struct {
	SessionID  string
	UserID     int64
	GameType   entities.GameType
	BetAmount  int64
	AgeSeconds int64
}

func (e StaleSessionEvent) Type() EventType {
	return EventTypeStaleSession
}
