package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/timechallenge/backend/internal/common"
	"github.com/timechallenge/backend/internal/domain/admission"
	"github.com/timechallenge/backend/internal/domain/gamestrategy"
	"github.com/timechallenge/backend/internal/domain/progression"
	"github.com/timechallenge/backend/internal/domain/statistic"
	"github.com/timechallenge/backend/internal/entity"
	"github.com/timechallenge/backend/internal/model"
	"github.com/timechallenge/backend/internal/repository"
	"github.com/timechallenge/backend/pkg/dateutil"
	"github.com/timechallenge/backend/pkg/errorx"
	"github.com/timechallenge/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type AttemptDomain interface {
	GetEligibility(context.Context, *model.GetEligibilityRequest) (*model.GetEligibilityResponse, error)
	Submit(context.Context, *model.SubmitAttemptRequest) (*model.SubmitAttemptResponse, error)
	GetStats(context.Context, *model.GetAttemptStatsRequest) (*model.GetAttemptStatsResponse, error)
}

type attemptDomain struct {
	admission       *admission.Controller
	attemptRepo     repository.AttemptRepository
	participantRepo repository.ParticipantRepository
	challengeRepo   repository.ChallengeRepository
	registry        *gamestrategy.Registry
	leaderboard     statistic.Leaderboard
	notifier        progression.Notifier
	clock           clock
}

func NewAttemptDomain(
	attemptRepo repository.AttemptRepository,
	participantRepo repository.ParticipantRepository,
	challengeRepo repository.ChallengeRepository,
	registry *gamestrategy.Registry,
	entitlement admission.Entitlement,
	leaderboard statistic.Leaderboard,
	notifier progression.Notifier,
) *attemptDomain {
	return &attemptDomain{
		admission:       admission.NewController(challengeRepo, participantRepo, attemptRepo, entitlement),
		attemptRepo:     attemptRepo,
		participantRepo: participantRepo,
		challengeRepo:   challengeRepo,
		registry:        registry,
		leaderboard:     leaderboard,
		notifier:        notifier,
	}
}

func (d *attemptDomain) GetEligibility(
	ctx context.Context, req *model.GetEligibilityRequest,
) (*model.GetEligibilityResponse, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	decision, err := d.admission.Check(ctx, userID, req.ChallengeID, d.clock.now(ctx))
	if err != nil {
		return nil, err
	}

	resp := &model.GetEligibilityResponse{
		CanPlay:      decision.Eligible,
		AttemptsUsed: decision.AttemptsUsed,
		Max:          decision.Max,
	}

	if !decision.Window.Start.IsZero() {
		w := model.ConvertWindow(decision.Window)
		resp.Window = &w
	}

	if !decision.Eligible {
		resp.Reason = decision.Reason.Reason()
		resp.Message = decision.Message
		if decision.RetryAt != nil {
			resp.RetryAt = model.FormatTime(*decision.RetryAt)
		}
	}

	return resp, nil
}

type submission struct {
	attempt    *entity.Attempt
	score      gamestrategy.ScoreResult
	isNewBest  bool
	decision   *admission.Decision
	firstOfDay bool
}

func (d *attemptDomain) Submit(
	ctx context.Context, req *model.SubmitAttemptRequest,
) (*model.SubmitAttemptResponse, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	now := d.clock.now(ctx)
	retries := xcontext.Configs(ctx).Challenge.SubmitRetries

	var result *submission
	for i := 0; ; i++ {
		result, err = d.submit(ctx, userID, req.ChallengeID, req.Payload, now)
		if err == nil {
			break
		}

		if !repository.IsConflict(err) {
			switch {
			case errorx.Is(err, errorx.ValidationError):
				common.CountSubmission(common.SubmissionInvalid)
			case errors.Is(err, errorx.Unknown), errorx.Is(err, errorx.Internal):
				common.CountSubmission(common.SubmissionFailed)
			default:
				common.CountSubmission(common.SubmissionRejected)
			}

			return nil, err
		}

		if i >= retries {
			xcontext.Logger(ctx).Warnf("Give up submitting attempt of user %s after %d retries: %v",
				userID, retries, err)
			common.CountSubmission(common.SubmissionConflict)
			return nil, errorx.New(errorx.ConcurrencyConflict, "Too many concurrent submissions, please retry")
		}

		xcontext.Logger(ctx).Debugf("Retry submitting attempt of user %s: %v", userID, err)
	}

	common.CountSubmission(common.SubmissionAccepted)

	if d.leaderboard != nil {
		d.leaderboard.Invalidate(ctx, req.ChallengeID, result.decision.Window)
	}

	if d.notifier != nil {
		err := d.notifier.NotifyAttempt(ctx, progression.Event{
			UserID:                    userID,
			ChallengeID:               req.ChallengeID,
			IsFirstAttemptInGlobalDay: result.firstOfDay,
			AttemptedAt:               result.attempt.AttemptDate,
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot notify progression of user %s: %v", userID, err)
		}
	}

	// The decision was taken before the new attempt was stored.
	used := result.decision.AttemptsUsed + 1
	remaining := result.decision.Remaining() - 1

	return &model.SubmitAttemptResponse{
		Attempt: model.ConvertAttempt(result.attempt),
		ScoreResult: model.ScoreResult{
			Value:    result.score.Value,
			Ordering: string(result.score.Ordering),
			Metadata: result.score.Metadata,
		},
		IsNewBest:    result.isNewBest,
		AttemptsUsed: used,
		Remaining:    remaining,
	}, nil
}

// submit admits, scores and stores one attempt in a single transaction.
// Storage conflicts are returned unwrapped so that the caller can retry them.
func (d *attemptDomain) submit(
	ctx context.Context, userID, challengeID string, payload map[string]any, now time.Time,
) (*submission, error) {
	var result *submission

	err := xcontext.Transaction(ctx, func(ctx context.Context) error {
		decision, err := d.admission.Admit(ctx, userID, challengeID, now)
		if err != nil {
			return err
		}

		if err := decision.Err(); err != nil {
			return err
		}

		game := decision.Challenge.Game
		strategy, err := d.registry.Create(ctx, game.Type, game.Config)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Invalid strategy of game %s: %v", game.ID, err)
			return errorx.New(errorx.Internal, "Game of this challenge is misconfigured")
		}

		if err := strategy.Validate(payload); err != nil {
			return err
		}

		score, err := strategy.Score(payload)
		if err != nil {
			return err
		}

		today := dateutil.StartOfDay(now.UTC())
		attemptsToday, err := d.attemptRepo.Count(ctx, repository.AttemptFilter{
			UserID: userID,
			From:   today.Start,
			To:     today.End,
		})
		if err != nil {
			return storageError(ctx, "Cannot count attempts of today", err)
		}

		attempt := &entity.Attempt{
			ID:            uuid.NewString(),
			UserID:        userID,
			ChallengeID:   challengeID,
			WindowStart:   decision.Window.Start.UTC(),
			Slot:          decision.AttemptsUsed + 1,
			GameType:      game.Type,
			Payload:       entity.Map(payload),
			Score:         score.Value,
			ScoreMetadata: entity.Map(score.Metadata),
			AttemptDate:   now.UTC(),
		}
		if err := d.attemptRepo.Create(ctx, attempt); err != nil {
			return storageError(ctx, "Cannot create attempt", err)
		}

		isNewBest, err := d.participantRepo.UpdateBestScore(ctx, userID, challengeID, score.Value, score.Ordering)
		if err != nil {
			return storageError(ctx, "Cannot update best score", err)
		}

		result = &submission{
			attempt:    attempt,
			score:      score,
			isNewBest:  isNewBest,
			decision:   decision,
			firstOfDay: attemptsToday == 0,
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// storageError keeps retryable conflicts as they are and hides every other
// storage failure behind errorx.Unknown.
func storageError(ctx context.Context, msg string, err error) error {
	if repository.IsConflict(err) {
		return err
	}

	xcontext.Logger(ctx).Errorf("%s: %v", msg, err)
	return errorx.Unknown
}

func (d *attemptDomain) GetStats(
	ctx context.Context, req *model.GetAttemptStatsRequest,
) (*model.GetAttemptStatsResponse, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	challenge, err := d.challengeRepo.GetByID(ctx, req.ChallengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found challenge")
		}

		xcontext.Logger(ctx).Errorf("Cannot get challenge: %v", err)
		return nil, errorx.Unknown
	}

	strategy, err := d.registry.Create(ctx, challenge.Game.Type, challenge.Game.Config)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Invalid strategy of game %s: %v", challenge.GameID, err)
		return nil, errorx.New(errorx.Internal, "Game of this challenge is misconfigured")
	}
	ordering := strategy.Ordering()

	now := d.clock.now(ctx)
	resetTime := challenge.Game.EffectiveResetTime()
	window, err := dateutil.CurrentWindow(resetTime, now)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Invalid reset time of game %s: %v", challenge.GameID, err)
		return nil, errorx.Unknown
	}

	nextReset, err := dateutil.NextResetAfter(resetTime, now)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Invalid reset time of game %s: %v", challenge.GameID, err)
		return nil, errorx.Unknown
	}

	filter := repository.AttemptFilter{UserID: userID, ChallengeID: challenge.ID}
	overall, err := d.attemptRepo.GetBests(ctx, filter, ordering)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get best scores: %v", err)
		return nil, errorx.Unknown
	}

	filter.From, filter.To = window.Start, window.End
	inWindow, err := d.attemptRepo.GetBests(ctx, filter, ordering)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get best scores in window: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetAttemptStatsResponse{
		MaxAttemptsPerDay: challenge.Game.EffectiveMaxAttempts(),
		Ordering:          string(ordering),
		ResetTime:         resetTime,
		NextReset:         model.FormatTime(nextReset),
		Window:            model.ConvertWindow(window),
	}

	// Both filters select a single user, so there is at most one row.
	if len(overall) > 0 {
		resp.TotalAttempts = overall[0].TotalAttempts
		resp.BestOverall = &overall[0].BestScore
	}

	if len(inWindow) > 0 {
		resp.AttemptsInWindow = inWindow[0].TotalAttempts
		resp.BestInWindow = &inWindow[0].BestScore
	}

	return resp, nil
}
