package entities

import (
	"errors"
	"time"
)

// User represents a player with a token balance
type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	Balance      int64     `db:"balance"`
	ReferralCode string    `db:"referral_code"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// CanAfford checks if the user has sufficient balance for an amount
func (u *User) CanAfford(amount int64) bool {
	return u.Balance >= amount
}

// HasPositiveBalance checks if the user has a positive balance
func (u *User) HasPositiveBalance() bool {
	return u.Balance > 0
}

// ValidateDebit checks if an amount can be debited from the user
func (u *User) ValidateDebit(amount int64) error {
	if amount <= 0 {
		return errors.New("debit amount must be positive")
	}
	if !u.CanAfford(amount) {
		return errors.New("insufficient balance")
	}
	return nil
}

// CalculateNewBalance calculates what the balance would be after a change
func (u *User) CalculateNewBalance(changeAmount int64) int64 {
	return u.Balance + changeAmount
}
