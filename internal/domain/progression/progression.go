package progression

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/timechallenge/backend/internal/entity"
	"github.com/timechallenge/backend/internal/repository"
	"github.com/timechallenge/backend/pkg/dateutil"
	"github.com/timechallenge/backend/pkg/errorx"
	"github.com/timechallenge/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// Event is emitted after an attempt has been committed.
type Event struct {
	UserID                    string    `json:"user_id"`
	ChallengeID               string    `json:"challenge_id"`
	IsFirstAttemptInGlobalDay bool      `json:"is_first_attempt_in_global_day"`
	AttemptedAt               time.Time `json:"attempted_at"`
}

type Notifier interface {
	NotifyAttempt(ctx context.Context, event Event) error
}

type NotifierFunc func(ctx context.Context, event Event) error

func (f NotifierFunc) NotifyAttempt(ctx context.Context, event Event) error {
	return f(ctx, event)
}

type Service struct {
	userRepo      repository.UserRepository
	challengeRepo repository.ChallengeRepository
}

func NewService(
	userRepo repository.UserRepository,
	challengeRepo repository.ChallengeRepository,
) *Service {
	return &Service{userRepo: userRepo, challengeRepo: challengeRepo}
}

// NotifyAttempt applies the experience and streak rewards of one attempt.
func (s *Service) NotifyAttempt(ctx context.Context, event Event) error {
	return xcontext.Transaction(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.GetByIDForUpdate(ctx, event.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errorx.New(errorx.NotFound, "Not found user")
			}

			xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
			return errorx.Unknown
		}

		challenge, err := s.challengeRepo.GetByID(ctx, event.ChallengeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errorx.New(errorx.NotFound, "Not found challenge")
			}

			xcontext.Logger(ctx).Errorf("Cannot get challenge: %v", err)
			return errorx.Unknown
		}

		progress, changed := Apply(user, challenge, event)
		if !changed {
			return nil
		}

		if err := s.userRepo.UpdateProgress(ctx, user.ID, progress); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update user progress: %v", err)
			return errorx.Unknown
		}

		return nil
	})
}

// Apply computes the user's progress after the attempt described by event.
// The second result is false when nothing changes.
func Apply(user *entity.User, challenge *entity.Challenge, event Event) (repository.UserProgress, bool) {
	progress := repository.UserProgress{
		XP:             user.XP,
		Level:          user.Level,
		Streak:         user.Streak,
		LastPlayedDate: user.LastPlayedDate,
	}
	changed := false

	if challenge.GameMode == entity.GameModeFree || challenge.Price == 0 {
		progress.XP++
		progress.Level = CalculateLevel(progress.XP)
		changed = true
	}

	if event.IsFirstAttemptInGlobalDay {
		attemptedAt := event.AttemptedAt.UTC()

		switch {
		case !user.LastPlayedDate.Valid:
			progress.Streak = 1
		case dateutil.DaysBetween(user.LastPlayedDate.Time, attemptedAt) == 1:
			progress.Streak = user.Streak + 1
		case dateutil.DaysBetween(user.LastPlayedDate.Time, attemptedAt) > 1:
			progress.Streak = 1
		}

		progress.LastPlayedDate = sql.NullTime{Valid: true, Time: attemptedAt}
		changed = true
	}

	return progress, changed
}

// CalculateLevel returns the level reached with xp. Level 1 starts at 0 XP
// and each next level needs 100 XP more than the previous one did.
func CalculateLevel(xp int) int {
	level := 1
	required := 100
	total := 0

	for xp >= total+required {
		total += required
		level++
		required += 100
	}

	return level
}

// LevelThreshold returns the total XP at which level starts and the XP the
// level spans before the next one.
func LevelThreshold(level int) (start, span int) {
	for i := 1; i < level; i++ {
		start += i * 100
	}

	return start, level * 100
}
