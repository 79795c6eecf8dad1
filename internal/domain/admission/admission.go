package admission

import (
	"context"
	"errors"
	"time"

	"github.com/timechallenge/backend/internal/entity"
	"github.com/timechallenge/backend/internal/repository"
	"github.com/timechallenge/backend/pkg/dateutil"
	"github.com/timechallenge/backend/pkg/errorx"
	"github.com/timechallenge/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// Entitlement decides whether a user may play a challenge at all, for
// example because the challenge is paid or needs a higher package.
type Entitlement interface {
	CanAccess(ctx context.Context, userID, challengeID string) (bool, error)
}

type EntitlementFunc func(ctx context.Context, userID, challengeID string) (bool, error)

func (f EntitlementFunc) CanAccess(ctx context.Context, userID, challengeID string) (bool, error) {
	return f(ctx, userID, challengeID)
}

type Decision struct {
	Eligible bool

	// Reason and Message explain a rejection. RetryAt is nil when the
	// rejection is final.
	Reason  errorx.Code
	Message string
	RetryAt *time.Time

	AttemptsUsed int
	Max          int
	Window       dateutil.Window

	Challenge   *entity.Challenge
	Participant *entity.Participant
}

// Err returns the rejection as an errorx, or nil if the decision is eligible.
func (d *Decision) Err() error {
	if d.Eligible {
		return nil
	}

	err := errorx.New(d.Reason, "%s", d.Message)
	if d.RetryAt != nil {
		err = err.WithRetryAt(*d.RetryAt)
	}

	return err
}

// Remaining returns how many attempts are left in the window after the
// attempts already used.
func (d *Decision) Remaining() int {
	if r := d.Max - d.AttemptsUsed; r > 0 {
		return r
	}

	return 0
}

type Controller struct {
	challengeRepo   repository.ChallengeRepository
	participantRepo repository.ParticipantRepository
	attemptRepo     repository.AttemptRepository
	entitlement     Entitlement
}

func NewController(
	challengeRepo repository.ChallengeRepository,
	participantRepo repository.ParticipantRepository,
	attemptRepo repository.AttemptRepository,
	entitlement Entitlement,
) *Controller {
	return &Controller{
		challengeRepo:   challengeRepo,
		participantRepo: participantRepo,
		attemptRepo:     attemptRepo,
		entitlement:     entitlement,
	}
}

// Check decides whether the user may submit an attempt at now. It never
// writes. The returned error is only set for unknown challenges and storage
// failures; rejections are reported in the decision.
func (c *Controller) Check(ctx context.Context, userID, challengeID string, now time.Time) (*Decision, error) {
	return c.decide(ctx, userID, challengeID, now, false)
}

// Admit is Check for a submission. It must run inside a transaction, which
// keeps the participant row locked until the attempt is stored.
func (c *Controller) Admit(ctx context.Context, userID, challengeID string, now time.Time) (*Decision, error) {
	return c.decide(ctx, userID, challengeID, now, true)
}

func (c *Controller) decide(
	ctx context.Context, userID, challengeID string, now time.Time, lock bool,
) (*Decision, error) {
	now = now.In(xcontext.Configs(ctx).Challenge.Location())

	challenge, err := c.challengeRepo.GetByID(ctx, challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found challenge")
		}

		return nil, storageError(ctx, lock, "Cannot get challenge", err)
	}

	game := challenge.Game
	decision := &Decision{Challenge: challenge, Max: game.EffectiveMaxAttempts()}

	if c.entitlement != nil {
		ok, err := c.entitlement.CanAccess(ctx, userID, challengeID)
		if err != nil {
			return nil, storageError(ctx, lock, "Cannot check entitlement", err)
		}

		if !ok {
			return reject(decision, errorx.EntitlementDenied, "You do not have access to this challenge", nil), nil
		}
	}

	var participant *entity.Participant
	if lock {
		participant, err = c.participantRepo.GetForUpdate(ctx, userID, challengeID)
	} else {
		participant, err = c.participantRepo.Get(ctx, userID, challengeID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return reject(decision, errorx.NotEnrolled, "You have not joined this challenge", nil), nil
		}

		return nil, storageError(ctx, lock, "Cannot get participant", err)
	}
	decision.Participant = participant

	if now.Before(challenge.StartDate) {
		startDate := challenge.StartDate
		return reject(decision, errorx.ChallengeNotStarted, "Challenge has not started yet", &startDate), nil
	}

	if now.After(challenge.EndDate) {
		return reject(decision, errorx.ChallengeEnded, "Challenge has ended", nil), nil
	}

	window, err := dateutil.CurrentWindow(game.EffectiveResetTime(), now)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Invalid reset time of game %s: %v", game.ID, err)
		return nil, errorx.Unknown
	}
	decision.Window = window

	used, err := c.attemptRepo.Count(ctx, repository.AttemptFilter{
		UserID:      userID,
		ChallengeID: challengeID,
		From:        window.Start,
		To:          window.End,
	})
	if err != nil {
		return nil, storageError(ctx, lock, "Cannot count attempts", err)
	}
	decision.AttemptsUsed = int(used)

	if decision.AttemptsUsed >= decision.Max {
		retryAt := window.End
		return reject(decision, errorx.QuotaExceeded, "Daily attempt limit reached", &retryAt), nil
	}

	decision.Eligible = true
	return decision, nil
}

func reject(d *Decision, reason errorx.Code, message string, retryAt *time.Time) *Decision {
	d.Eligible = false
	d.Reason = reason
	d.Message = message
	d.RetryAt = retryAt
	return d
}

// storageError hides storage failures behind errorx.Unknown. When admitting,
// conflicts such as a deadlock on the participant row lock are returned as
// they are, so the surrounding transaction can be retried.
func storageError(ctx context.Context, admitting bool, msg string, err error) error {
	if admitting && repository.IsConflict(err) {
		xcontext.Logger(ctx).Debugf("%s: %v", msg, err)
		return err
	}

	xcontext.Logger(ctx).Errorf("%s: %v", msg, err)
	return errorx.Unknown
}
