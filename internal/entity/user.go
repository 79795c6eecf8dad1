package entity

import (
	"database/sql"
	"time"
)

type User struct {
	Base
	Email        string `gorm:"uniqueIndex;size:255"`
	PasswordHash string
	FirstName    string
	LastName     string

	PackageType      PackageType `gorm:"default:free"`
	PackageExpiresAt sql.NullTime

	Level            int `gorm:"default:1"`
	XP               int
	Streak           int
	LastPlayedDate   sql.NullTime
	ChallengesPlayed int
}

// ActivePackage returns the user's package, degraded to free once it expired.
func (u User) ActivePackage(now time.Time) PackageType {
	if u.PackageType == "" {
		return PackageFree
	}

	if u.PackageExpiresAt.Valid && now.After(u.PackageExpiresAt.Time) {
		return PackageFree
	}

	return u.PackageType
}
