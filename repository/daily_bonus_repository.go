package repository

import (
	"context"
	"fmt"

	"tokenrush/database"
	"tokenrush/domain/entities"
	"tokenrush/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// DailyBonusRepository implements the DailyBonusRepository interface
type DailyBonusRepository struct {
	q Queryable
}

// NewDailyBonusRepository creates a new daily bonus repository
func NewDailyBonusRepository(db *database.DB) *DailyBonusRepository {
	return &DailyBonusRepository{q: db.Pool}
}

func newDailyBonusRepository(tx Queryable) interfaces.DailyBonusRepository {
	return &DailyBonusRepository{q: tx}
}

// GetLastClaim returns the most recent claim for a user, or nil
func (r *DailyBonusRepository) GetLastClaim(ctx context.Context, userID int64) (*entities.DailyBonusClaim, error) {
	query := `
		SELECT id, user_id, claim_date, amount, streak_days, created_at
		FROM daily_bonus_claims
		WHERE user_id = $1
		ORDER BY claim_date DESC
		LIMIT 1
	`

	var claim entities.DailyBonusClaim
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&claim.ID,
		&claim.UserID,
		&claim.ClaimDate,
		&claim.Amount,
		&claim.StreakDays,
		&claim.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last bonus claim for user %d: %w", userID, err)
	}
	return &claim, nil
}

// Create inserts a claim. The unique (user_id, claim_date) index turns a
// same-day double claim into ErrBonusAlreadyClaimed.
func (r *DailyBonusRepository) Create(ctx context.Context, claim *entities.DailyBonusClaim) error {
	query := `
		INSERT INTO daily_bonus_claims (user_id, claim_date, amount, streak_days)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		claim.UserID,
		claim.ClaimDate,
		claim.Amount,
		claim.StreakDays,
	).Scan(&claim.ID, &claim.CreatedAt)
	if isUniqueViolation(err) {
		return entities.ErrBonusAlreadyClaimed
	}
	if err != nil {
		return fmt.Errorf("failed to create bonus claim for user %d: %w", claim.UserID, err)
	}
	return nil
}
