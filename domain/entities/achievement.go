package entities

import "time"

// AchievementDefinition describes a grantable achievement and its token reward
type AchievementDefinition struct {
	ID           string
	Title        string
	Description  string
	RewardAmount int64
}

// UserAchievement records that a user unlocked an achievement.
// The (user, achievement) pair is unique; a second grant is a no-op.
type UserAchievement struct {
	ID            int64     `db:"id"`
	UserID        int64     `db:"user_id"`
	AchievementID string    `db:"achievement_id"`
	GrantedAt     time.Time `db:"granted_at"`
}

// AchievementDefinitions is the static achievement catalog
var AchievementDefinitions = []AchievementDefinition{
	{
		ID:           "first_win",
		Title:        "First Win",
		Description:  "Win your first game",
		RewardAmount: 100,
	},
	{
		ID:           "high_roller",
		Title:        "High Roller",
		Description:  "Win a game with a 10x multiplier or higher",
		RewardAmount: 500,
	},
	{
		ID:           "daily_streak_7",
		Title:        "One Week Strong",
		Description:  "Claim the daily bonus seven days in a row",
		RewardAmount: 250,
	},
}

// FindAchievement looks up an achievement definition by id
func FindAchievement(id string) (AchievementDefinition, bool) {
	for _, def := range AchievementDefinitions {
		if def.ID == id {
			return def, true
		}
	}
	return AchievementDefinition{}, false
}
