package entities

import "time"

// DailyBonusClaim records one daily bonus claim. The (user, claim date)
// pair is unique, which is what enforces one claim per UTC day.
type DailyBonusClaim struct {
	ID         int64     `db:"id"`
	UserID     int64     `db:"user_id"`
	ClaimDate  time.Time `db:"claim_date"`
	StreakDays int       `db:"streak_days"`
	Amount     int64     `db:"amount"`
	CreatedAt  time.Time `db:"created_at"`
}

// dailyBonusBase is the day-one bonus amount
const dailyBonusBase int64 = 50

// dailyBonusStep is the extra amount granted per consecutive streak day
const dailyBonusStep int64 = 25

// dailyBonusStreakCap caps the streak multiplier at one week
const dailyBonusStreakCap = 7

// DailyBonusAmount returns the bonus for a given streak length.
// The amount grows linearly and caps at a seven day streak.
func DailyBonusAmount(streakDays int) int64 {
	if streakDays < 1 {
		streakDays = 1
	}
	if streakDays > dailyBonusStreakCap {
		streakDays = dailyBonusStreakCap
	}
	return dailyBonusBase + dailyBonusStep*int64(streakDays-1)
}

// NextStreak returns the streak length for a claim on claimDate given the
// previous claim, or 1 when the chain is broken or absent.
func NextStreak(prev *DailyBonusClaim, claimDate time.Time) int {
	if prev == nil {
		return 1
	}
	if prev.ClaimDate.AddDate(0, 0, 1).Equal(claimDate) {
		return prev.StreakDays + 1
	}
	return 1
}
