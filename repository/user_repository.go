package repository

import (
	"context"
	"fmt"

	"tokenrush/database"
	"tokenrush/domain/entities"
	"tokenrush/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// UserRepository implements the UserRepository interface
type UserRepository struct {
	q Queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

func newUserRepository(tx Queryable) interfaces.UserRepository {
	return &UserRepository{q: tx}
}

// GetByID retrieves a user by their id
func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*entities.User, error) {
	query := `
		SELECT id, username, balance, referral_code, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user entities.User
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.Username,
		&user.Balance,
		&user.ReferralCode,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	return &user, nil
}

// GetByReferralCode retrieves the user owning a referral code
func (r *UserRepository) GetByReferralCode(ctx context.Context, code string) (*entities.User, error) {
	query := `
		SELECT id, username, balance, referral_code, created_at, updated_at
		FROM users
		WHERE referral_code = $1
	`

	var user entities.User
	err := r.q.QueryRow(ctx, query, code).Scan(
		&user.ID,
		&user.Username,
		&user.Balance,
		&user.ReferralCode,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by referral code: %w", err)
	}
	return &user, nil
}

// Create creates a new user with the initial balance and referral code
func (r *UserRepository) Create(ctx context.Context, userID int64, username string, initialBalance int64, referralCode string) (*entities.User, error) {
	query := `
		INSERT INTO users (id, username, balance, referral_code)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	user := &entities.User{
		ID:           userID,
		Username:     username,
		Balance:      initialBalance,
		ReferralCode: referralCode,
	}
	err := r.q.QueryRow(ctx, query, userID, username, initialBalance, referralCode).Scan(
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user %d: %w", userID, err)
	}
	return user, nil
}

// ApplyBalanceDelta atomically applies a signed delta to a user's balance.
// The WHERE clause makes the row update conditional on the resulting balance
// staying non-negative, so an overdraft never reaches the table.
func (r *UserRepository) ApplyBalanceDelta(ctx context.Context, userID int64, delta int64) (int64, error) {
	query := `
		UPDATE users
		SET balance = balance + $2, updated_at = NOW()
		WHERE id = $1 AND balance + $2 >= 0
		RETURNING balance
	`

	var newBalance int64
	err := r.q.QueryRow(ctx, query, userID, delta).Scan(&newBalance)
	if err == pgx.ErrNoRows {
		// Either the user does not exist or the debit would overdraw.
		// One extra read disambiguates.
		exists, checkErr := r.userExists(ctx, userID)
		if checkErr != nil {
			return 0, checkErr
		}
		if !exists {
			return 0, fmt.Errorf("%w: %d", entities.ErrUserNotFound, userID)
		}
		return 0, fmt.Errorf("%w: balance cannot cover %d tokens", entities.ErrInsufficientBalance, -delta)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to apply balance delta for user %d: %w", userID, err)
	}
	return newBalance, nil
}

func (r *UserRepository) userExists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user %d: %w", userID, err)
	}
	return exists, nil
}

// GetTopBalances returns the users with the highest balances
func (r *UserRepository) GetTopBalances(ctx context.Context, limit int) ([]*entities.User, error) {
	query := `
		SELECT id, username, balance, referral_code, created_at, updated_at
		FROM users
		ORDER BY balance DESC, id
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top balances: %w", err)
	}
	defer rows.Close()

	var users []*entities.User
	for rows.Next() {
		var user entities.User
		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Balance,
			&user.ReferralCode,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}
