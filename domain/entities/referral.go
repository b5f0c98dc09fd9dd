package entities

import "time"

// Referral records that one user was referred by another. A user may be
// referred at most once, and never by themselves.
type Referral struct {
	ID             string    `db:"id"`
	ReferrerID     int64     `db:"referrer_id"`
	ReferredUserID int64     `db:"referred_user_id"`
	ReferralCode   string    `db:"referral_code"`
	CreatedAt      time.Time `db:"created_at"`
}

// IsSelfReferral returns true if the referrer and referred user are the same
func (r *Referral) IsSelfReferral() bool {
	return r.ReferrerID == r.ReferredUserID
}
