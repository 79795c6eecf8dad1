package entity

import "github.com/timechallenge/backend/pkg/dateutil"

const DefaultMaxAttemptsPerDay = 1

type Game struct {
	Base
	Name        string
	Description string
	Type        string `gorm:"index;size:64"`
	Config      Map

	// ResetTime is the HH:MM time-of-day the attempt quota resets.
	ResetTime         string `gorm:"size:5;default:00:00"`
	MaxAttemptsPerDay int    `gorm:"default:1"`
}

func (g Game) EffectiveResetTime() string {
	if g.ResetTime == "" {
		return dateutil.DefaultResetTime
	}

	return g.ResetTime
}

func (g Game) EffectiveMaxAttempts() int {
	if g.MaxAttemptsPerDay <= 0 {
		return DefaultMaxAttemptsPerDay
	}

	return g.MaxAttemptsPerDay
}
