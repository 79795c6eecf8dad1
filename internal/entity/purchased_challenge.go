package entity

import "time"

type PurchasedChallenge struct {
	Base
	UserID        string `gorm:"size:64;uniqueIndex:idx_purchased_challenges_user_challenge,priority:1"`
	ChallengeID   string `gorm:"size:64;uniqueIndex:idx_purchased_challenges_user_challenge,priority:2"`
	PricePaid     float64
	PaymentMethod string
	TransactionID string
	PurchasedAt   time.Time
}
