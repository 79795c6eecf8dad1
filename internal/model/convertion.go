package model

import (
	"database/sql"
	"time"

	"github.com/timechallenge/backend/internal/entity"
	"github.com/timechallenge/backend/pkg/dateutil"
)

const DefaultTimeLayout string = time.RFC3339Nano

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.UTC().Format(DefaultTimeLayout)
}

func formatNullTime(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}

	return formatTime(t.Time)
}

func ConvertUser(user *entity.User) User {
	if user == nil {
		return User{}
	}

	return User{
		ID:               user.ID,
		Email:            user.Email,
		FirstName:        user.FirstName,
		LastName:         user.LastName,
		PackageType:      string(user.PackageType),
		PackageExpiresAt: formatNullTime(user.PackageExpiresAt),
		Level:            user.Level,
		XP:               user.XP,
		Streak:           user.Streak,
		LastPlayedDate:   formatNullTime(user.LastPlayedDate),
		ChallengesPlayed: user.ChallengesPlayed,
		CreatedAt:        formatTime(user.CreatedAt),
	}
}

func ConvertGame(game *entity.Game) Game {
	if game == nil {
		return Game{}
	}

	return Game{
		ID:                game.ID,
		Name:              game.Name,
		Description:       game.Description,
		Type:              game.Type,
		Config:            game.Config,
		ResetTime:         game.EffectiveResetTime(),
		MaxAttemptsPerDay: game.EffectiveMaxAttempts(),
		CreatedAt:         formatTime(game.CreatedAt),
	}
}

func ConvertChallenge(challenge *entity.Challenge) Challenge {
	if challenge == nil {
		return Challenge{}
	}

	var game *Game
	if challenge.Game.ID != "" {
		g := ConvertGame(&challenge.Game)
		game = &g
	}

	var prices map[string]float64
	if len(challenge.PricesByPackage) > 0 {
		prices = map[string]float64{}
		for pkg, price := range challenge.PricesByPackage {
			prices[string(pkg)] = price
		}
	}

	return Challenge{
		ID:               challenge.ID,
		GameID:           challenge.GameID,
		Game:             game,
		Name:             challenge.Name,
		Description:      challenge.Description,
		StartDate:        formatTime(challenge.StartDate),
		EndDate:          formatTime(challenge.EndDate),
		JoinDeadline:     formatTime(challenge.JoinDeadline),
		MaxParticipants:  challenge.MaxParticipants,
		ParticipantCount: challenge.ParticipantCount,
		GameMode:         string(challenge.GameMode),
		Price:            challenge.Price,
		PricesByPackage:  prices,
		Prize:            challenge.Prize,
		Visibility:       string(challenge.Visibility),
		CreatedBy:        challenge.CreatedBy,
		CreatedAt:        formatTime(challenge.CreatedAt),
	}
}

func ConvertParticipant(participant *entity.Participant) Participant {
	if participant == nil {
		return Participant{}
	}

	var score *float64
	if participant.Score.Valid {
		s := participant.Score.Float64
		score = &s
	}

	return Participant{
		UserID:      participant.UserID,
		ChallengeID: participant.ChallengeID,
		Score:       score,
		JoinedAt:    formatTime(participant.JoinedAt),
	}
}

func ConvertAttempt(attempt *entity.Attempt) Attempt {
	if attempt == nil {
		return Attempt{}
	}

	return Attempt{
		ID:            attempt.ID,
		UserID:        attempt.UserID,
		ChallengeID:   attempt.ChallengeID,
		GameType:      attempt.GameType,
		Payload:       attempt.Payload,
		Score:         attempt.Score,
		ScoreMetadata: attempt.ScoreMetadata,
		AttemptDate:   formatTime(attempt.AttemptDate),
		CreatedAt:     formatTime(attempt.CreatedAt),
	}
}

func ConvertWindow(w dateutil.Window) Window {
	return Window{Start: formatTime(w.Start), End: formatTime(w.End)}
}

func ConvertPurchasedChallenge(
	purchase *entity.PurchasedChallenge, challenge *entity.Challenge,
) PurchasedChallenge {
	if purchase == nil {
		return PurchasedChallenge{}
	}

	var c *Challenge
	if challenge != nil {
		cc := ConvertChallenge(challenge)
		c = &cc
	}

	return PurchasedChallenge{
		ID:            purchase.ID,
		UserID:        purchase.UserID,
		ChallengeID:   purchase.ChallengeID,
		Challenge:     c,
		PricePaid:     purchase.PricePaid,
		PaymentMethod: purchase.PaymentMethod,
		TransactionID: purchase.TransactionID,
		PurchasedAt:   formatTime(purchase.PurchasedAt),
	}
}

// FormatTime renders t the way every response renders instants.
func FormatTime(t time.Time) string {
	return formatTime(t)
}
