package testutil

import (
	"context"
	"database/sql"
	"time"

	"github.com/timechallenge/backend/internal/entity"
	"github.com/timechallenge/backend/pkg/xcontext"
)

// Fixed instants shared by the fixtures. Every fixture challenge is active at
// Now.
var (
	Now       = time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	StartDate = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	EndDate   = time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
)

var (
	User1 = entity.User{
		Base:        entity.Base{ID: "user1"},
		Email:       "user1@example.com",
		FirstName:   "User",
		LastName:    "One",
		PackageType: entity.PackageFree,
		Level:       1,
	}

	User2 = entity.User{
		Base:        entity.Base{ID: "user2"},
		Email:       "user2@example.com",
		PackageType: entity.PackagePro,
		Level:       1,
	}

	User3 = entity.User{
		Base:        entity.Base{ID: "user3"},
		Email:       "user3@example.com",
		PackageType: entity.PackageVIP,
		Level:       1,
	}

	TimerGame = entity.Game{
		Base:              entity.Base{ID: "timer-game"},
		Name:              "Stop at 10 seconds",
		Type:              "timer",
		Config:            entity.Map{"targetMillis": 10000, "maxMillis": 60000},
		ResetTime:         "00:00",
		MaxAttemptsPerDay: 1,
	}

	FreeChallenge = entity.Challenge{
		Base:         entity.Base{ID: "free-challenge"},
		GameID:       TimerGame.ID,
		Name:         "Free challenge",
		StartDate:    StartDate,
		EndDate:      EndDate,
		JoinDeadline: EndDate,
		GameMode:     entity.GameModeFree,
		Visibility:   entity.VisibilityPublic,
		CreatedBy:    User1.ID,
	}

	PaidChallenge = entity.Challenge{
		Base:            entity.Base{ID: "paid-challenge"},
		GameID:          TimerGame.ID,
		Name:            "Paid challenge",
		StartDate:       StartDate,
		EndDate:         EndDate,
		JoinDeadline:    EndDate,
		GameMode:        entity.GameModePaid,
		Price:           10,
		PricesByPackage: entity.PackagePrices{entity.PackageVIP: 5},
		Visibility:      entity.VisibilityShop,
		CreatedBy:       User1.ID,
	}

	ProChallenge = entity.Challenge{
		Base:         entity.Base{ID: "pro-challenge"},
		GameID:       TimerGame.ID,
		Name:         "Pro challenge",
		StartDate:    StartDate,
		EndDate:      EndDate,
		JoinDeadline: EndDate,
		GameMode:     entity.GameModePro,
		Visibility:   entity.VisibilityPublic,
		CreatedBy:    User1.ID,
	}
)

// CreateFixtureDb inserts the fixture users, the timer game and the fixture
// challenges.
func CreateFixtureDb(ctx context.Context) {
	for _, u := range []entity.User{User1, User2, User3} {
		u := u
		must(xcontext.DB(ctx).Create(&u).Error)
	}

	game := TimerGame
	must(xcontext.DB(ctx).Create(&game).Error)

	for _, c := range []entity.Challenge{FreeChallenge, PaidChallenge, ProChallenge} {
		c := c
		must(xcontext.DB(ctx).Omit("Game").Create(&c).Error)
	}
}

// CreateGame inserts a game and returns it.
func CreateGame(ctx context.Context, game entity.Game) entity.Game {
	must(xcontext.DB(ctx).Create(&game).Error)
	return game
}

// CreateChallenge inserts a challenge and returns it.
func CreateChallenge(ctx context.Context, challenge entity.Challenge) entity.Challenge {
	must(xcontext.DB(ctx).Omit("Game").Create(&challenge).Error)
	return challenge
}

// Enroll makes the user a participant of the challenge.
func Enroll(ctx context.Context, userID, challengeID string) {
	must(xcontext.DB(ctx).Create(&entity.Participant{
		UserID:      userID,
		ChallengeID: challengeID,
		JoinedAt:    StartDate,
	}).Error)
}

// InsertAttempt stores an attempt directly, bypassing admission. Each call
// uses its own quota slot.
func InsertAttempt(ctx context.Context, id, userID, challengeID string, score float64, at time.Time) {
	must(xcontext.DB(ctx).Create(&entity.Attempt{
		ID:          id,
		UserID:      userID,
		ChallengeID: challengeID,
		WindowStart: at.UTC(),
		Slot:        1,
		GameType:    "timer",
		Score:       score,
		AttemptDate: at.UTC(),
		CreatedAt:   at.UTC(),
	}).Error)
}

// SetBestScore overwrites the stored best score of a participant.
func SetBestScore(ctx context.Context, userID, challengeID string, score float64) {
	must(xcontext.DB(ctx).Model(&entity.Participant{}).
		Where("user_id=? AND challenge_id=?", userID, challengeID).
		Update("score", sql.NullFloat64{Valid: true, Float64: score}).Error)
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
