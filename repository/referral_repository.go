package repository

import (
	"context"
	"fmt"

	"tokenrush/database"
	"tokenrush/domain/entities"
	"tokenrush/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// ReferralRepository implements the ReferralRepository interface
type ReferralRepository struct {
	q Queryable
}

// NewReferralRepository creates a new referral repository
func NewReferralRepository(db *database.DB) *ReferralRepository {
	return &ReferralRepository{q: db.Pool}
}

func newReferralRepository(tx Queryable) interfaces.ReferralRepository {
	return &ReferralRepository{q: tx}
}

// Create inserts a referral relationship. The unique constraint on the
// referred user turns a second referral into ErrAlreadyReferred.
func (r *ReferralRepository) Create(ctx context.Context, referral *entities.Referral) error {
	query := `
		INSERT INTO referrals (id, referrer_id, referred_user_id, referral_code)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		referral.ID,
		referral.ReferrerID,
		referral.ReferredUserID,
		referral.ReferralCode,
	).Scan(&referral.CreatedAt)
	if isUniqueViolation(err) {
		return entities.ErrAlreadyReferred
	}
	if err != nil {
		return fmt.Errorf("failed to create referral for user %d: %w", referral.ReferredUserID, err)
	}
	return nil
}

// GetByReferredUser returns the referral for a referred user, or nil
func (r *ReferralRepository) GetByReferredUser(ctx context.Context, referredUserID int64) (*entities.Referral, error) {
	query := `
		SELECT id, referrer_id, referred_user_id, referral_code, created_at
		FROM referrals
		WHERE referred_user_id = $1
	`

	var referral entities.Referral
	err := r.q.QueryRow(ctx, query, referredUserID).Scan(
		&referral.ID,
		&referral.ReferrerID,
		&referral.ReferredUserID,
		&referral.ReferralCode,
		&referral.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get referral for user %d: %w", referredUserID, err)
	}
	return &referral, nil
}

// CountByReferrer returns how many users a referrer has brought in
func (r *ReferralRepository) CountByReferrer(ctx context.Context, referrerID int64) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM referrals WHERE referrer_id = $1`, referrerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count referrals for user %d: %w", referrerID, err)
	}
	return count, nil
}
