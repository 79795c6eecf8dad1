package domain

import (
	"context"
	"errors"
	"time"

	"github.com/timechallenge/backend/internal/domain/statistic"
	"github.com/timechallenge/backend/internal/model"
	"github.com/timechallenge/backend/internal/repository"
	"github.com/timechallenge/backend/pkg/dateutil"
	"github.com/timechallenge/backend/pkg/errorx"
	"github.com/timechallenge/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type StatisticDomain interface {
	GetLeaderboard(context.Context, *model.GetLeaderboardRequest) (*model.GetLeaderboardResponse, error)
	GetWindowLeaderboard(
		context.Context, *model.GetWindowLeaderboardRequest,
	) (*model.GetWindowLeaderboardResponse, error)
}

type statisticDomain struct {
	challengeRepo repository.ChallengeRepository
	leaderboard   statistic.Leaderboard
}

func NewStatisticDomain(
	challengeRepo repository.ChallengeRepository,
	leaderboard statistic.Leaderboard,
) *statisticDomain {
	return &statisticDomain{challengeRepo: challengeRepo, leaderboard: leaderboard}
}

func (d *statisticDomain) GetLeaderboard(
	ctx context.Context, req *model.GetLeaderboardRequest,
) (*model.GetLeaderboardResponse, error) {
	offset, limit, err := checkLimit(ctx, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	result, err := d.leaderboard.Lifetime(ctx, req.ChallengeID, offset, limit, xcontext.RequestUserID(ctx))
	if err != nil {
		return nil, err
	}

	return &model.GetLeaderboardResponse{
		Ordering: string(result.Ordering),
		Total:    result.Total,
		Entries:  convertEntries(result.Entries),
		MyRank:   convertMyRank(result.MyRank),
	}, nil
}

func (d *statisticDomain) GetWindowLeaderboard(
	ctx context.Context, req *model.GetWindowLeaderboardRequest,
) (*model.GetWindowLeaderboardResponse, error) {
	offset, limit, err := checkLimit(ctx, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	var window *dateutil.Window
	if req.At != "" {
		at, err := time.Parse(time.RFC3339, req.At)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid time %s, expected RFC3339", req.At)
		}

		challenge, err := d.challengeRepo.GetByID(ctx, req.ChallengeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.NotFound, "Not found challenge")
			}

			xcontext.Logger(ctx).Errorf("Cannot get challenge: %v", err)
			return nil, errorx.Unknown
		}

		w, err := dateutil.CurrentWindow(
			challenge.Game.EffectiveResetTime(), at.In(xcontext.Configs(ctx).Challenge.Location()))
		if err != nil {
			xcontext.Logger(ctx).Errorf("Invalid reset time of game %s: %v", challenge.GameID, err)
			return nil, errorx.Unknown
		}
		window = &w
	}

	result, err := d.leaderboard.Windowed(
		ctx, req.ChallengeID, window, offset, limit, xcontext.RequestUserID(ctx))
	if err != nil {
		return nil, err
	}

	return &model.GetWindowLeaderboardResponse{
		Ordering: string(result.Ordering),
		Window:   model.ConvertWindow(*result.Window),
		Total:    result.Total,
		Entries:  convertEntries(result.Entries),
		MyRank:   convertMyRank(result.MyRank),
	}, nil
}

func convertEntries(entries []statistic.Entry) []model.LeaderboardEntry {
	result := []model.LeaderboardEntry{}
	for _, e := range entries {
		result = append(result, convertEntry(e))
	}

	return result
}

func convertMyRank(e *statistic.Entry) *model.LeaderboardEntry {
	if e == nil {
		return nil
	}

	entry := convertEntry(*e)
	return &entry
}

func convertEntry(e statistic.Entry) model.LeaderboardEntry {
	return model.LeaderboardEntry{
		UserID:        e.UserID,
		BestScore:     e.BestScore,
		TotalAttempts: e.TotalAttempts,
		LastAttemptAt: model.FormatTime(e.LastAttemptAt),
		Rank:          e.Rank,
	}
}
