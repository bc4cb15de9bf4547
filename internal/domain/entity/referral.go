package entity

import "time"

// ReferralCodeLength is the length of generated referral codes
const ReferralCodeLength = 8

// Referral links a referrer to a user who signed up with their code
type Referral struct {
	ID         uint64
	ReferrerID uint64
	ReferredID uint64
	Reward     int64 // kobo
	CreatedAt  time.Time
}
