package entity

import "time"

// Attempt is immutable once created. WindowStart and Slot identify the quota
// bucket the attempt consumed, so two attempts can never share a bucket.
type Attempt struct {
	ID          string    `gorm:"primaryKey;size:64"`
	UserID      string    `gorm:"size:64;uniqueIndex:idx_attempts_quota_slot,priority:1;index:idx_attempts_user_date,priority:1"`
	ChallengeID string    `gorm:"size:64;uniqueIndex:idx_attempts_quota_slot,priority:2;index:idx_attempts_challenge_date,priority:1"`
	WindowStart time.Time `gorm:"uniqueIndex:idx_attempts_quota_slot,priority:3"`
	Slot        int       `gorm:"uniqueIndex:idx_attempts_quota_slot,priority:4"`

	GameType      string `gorm:"size:64"`
	Payload       Map
	Score         float64
	ScoreMetadata Map

	// AttemptDate is the instant used for quota window membership. CreatedAt
	// is only used for display.
	AttemptDate time.Time `gorm:"index:idx_attempts_challenge_date,priority:2;index:idx_attempts_user_date,priority:2"`
	CreatedAt   time.Time
}
