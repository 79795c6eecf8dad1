package entity

import (
	"database/sql"
	"time"
)

type Participant struct {
	UserID      string `gorm:"primaryKey;size:64"`
	ChallengeID string `gorm:"primaryKey;size:64;index"`

	// Score is the best-ever score. It only changes when a new attempt improves
	// on it under the game's ordering.
	Score    sql.NullFloat64
	JoinedAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
