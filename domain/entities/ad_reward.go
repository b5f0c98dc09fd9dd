package entities

import "time"

// AdReward records one rewarded ad view. The (user, provider, reference)
// triple is unique so a replayed callback cannot grant twice.
type AdReward struct {
	ID           string    `db:"id"`
	UserID       int64     `db:"user_id"`
	Provider     string    `db:"provider"`
	RewardAmount int64     `db:"reward_amount"`
	ReferenceID  *string   `db:"reference_id"`
	CreatedAt    time.Time `db:"created_at"`
}
