package testutil

import (
	"context"
	"testing"

	"tokenrush/database"
	"tokenrush/domain/entities"

	"github.com/stretchr/testify/require"
)

// CreateTestUser inserts a user directly and returns it
func CreateTestUser(t *testing.T, db *database.DB, userID int64, balance int64) *entities.User {
	ctx := context.Background()

	user := &entities.User{
		ID:           userID,
		Username:     "test_user",
		Balance:      balance,
		ReferralCode: referralCodeFor(userID),
	}
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO users (id, username, balance, referral_code)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, user.ID, user.Username, user.Balance, user.ReferralCode).Scan(&user.CreatedAt, &user.UpdatedAt)
	require.NoError(t, err)

	return user
}

// GetBalance reads a user's balance directly
func GetBalance(t *testing.T, db *database.DB, userID int64) int64 {
	var balance int64
	err := db.Pool.QueryRow(context.Background(),
		`SELECT balance FROM users WHERE id = $1`, userID).Scan(&balance)
	require.NoError(t, err)
	return balance
}

// CountTransactions counts log entries for a user
func CountTransactions(t *testing.T, db *database.DB, userID int64) int {
	var count int
	err := db.Pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM token_transactions WHERE user_id = $1`, userID).Scan(&count)
	require.NoError(t, err)
	return count
}

// referralCodeFor derives a deterministic unique code for test users
func referralCodeFor(userID int64) string {
	const digits = "ABCDEFGHJK"
	code := make([]byte, 0, 10)
	for userID > 0 {
		code = append(code, digits[userID%10])
		userID /= 10
	}
	for len(code) < 6 {
		code = append(code, 'X')
	}
	return string(code)
}
