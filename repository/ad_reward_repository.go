package repository

import (
	"context"
	"fmt"

	"tokenrush/database"
	"tokenrush/domain/entities"
	"tokenrush/domain/interfaces"
)

// AdRewardRepository implements the AdRewardRepository interface
type AdRewardRepository struct {
	q Queryable
}

// NewAdRewardRepository creates a new ad reward repository
func NewAdRewardRepository(db *database.DB) *AdRewardRepository {
	return &AdRewardRepository{q: db.Pool}
}

func newAdRewardRepository(tx Queryable) interfaces.AdRewardRepository {
	return &AdRewardRepository{q: tx}
}

// Create inserts an ad reward record. A replayed provider callback hits the
// unique (user, provider, reference) constraint and fails with
// ErrAdRewardAlreadyClaimed.
func (r *AdRewardRepository) Create(ctx context.Context, reward *entities.AdReward) error {
	query := `
		INSERT INTO ad_rewards (id, user_id, provider, reward_amount, reference_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		reward.ID,
		reward.UserID,
		reward.Provider,
		reward.RewardAmount,
		reward.ReferenceID,
	).Scan(&reward.CreatedAt)
	if isUniqueViolation(err) {
		return entities.ErrAdRewardAlreadyClaimed
	}
	if err != nil {
		return fmt.Errorf("failed to create ad reward for user %d: %w", reward.UserID, err)
	}
	return nil
}
