package repository

import (
	"context"
	"fmt"

	"tokenrush/database"
	"tokenrush/domain/entities"
	"tokenrush/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// AchievementRepository implements the AchievementRepository interface
type AchievementRepository struct {
	q Queryable
}

// NewAchievementRepository creates a new achievement repository
func NewAchievementRepository(db *database.DB) *AchievementRepository {
	return &AchievementRepository{q: db.Pool}
}

func newAchievementRepository(tx Queryable) interfaces.AchievementRepository {
	return &AchievementRepository{q: tx}
}

// Grant inserts an achievement grant if absent. ON CONFLICT DO NOTHING
// makes the duplicate case a clean zero-row insert rather than an error.
func (r *AchievementRepository) Grant(ctx context.Context, grant *entities.UserAchievement) (bool, error) {
	query := `
		INSERT INTO user_achievements (user_id, achievement_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, achievement_id) DO NOTHING
		RETURNING id, granted_at
	`

	err := r.q.QueryRow(ctx, query, grant.UserID, grant.AchievementID).Scan(&grant.ID, &grant.GrantedAt)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to grant achievement %s to user %d: %w", grant.AchievementID, grant.UserID, err)
	}
	return true, nil
}

// GetByUser returns all achievements granted to a user
func (r *AchievementRepository) GetByUser(ctx context.Context, userID int64) ([]*entities.UserAchievement, error) {
	query := `
		SELECT id, user_id, achievement_id, granted_at
		FROM user_achievements
		WHERE user_id = $1
		ORDER BY granted_at
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get achievements for user %d: %w", userID, err)
	}
	defer rows.Close()

	var grants []*entities.UserAchievement
	for rows.Next() {
		var grant entities.UserAchievement
		err := rows.Scan(&grant.ID, &grant.UserID, &grant.AchievementID, &grant.GrantedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		grants = append(grants, &grant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate achievements: %w", err)
	}
	return grants, nil
}
