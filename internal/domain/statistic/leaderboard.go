package statistic

import (
	"context"
	"errors"
	"time"

	"github.com/timechallenge/backend/internal/domain/gamestrategy"
	"github.com/timechallenge/backend/internal/entity"
	"github.com/timechallenge/backend/internal/repository"
	"github.com/timechallenge/backend/pkg/dateutil"
	"github.com/timechallenge/backend/pkg/errorx"
	"github.com/timechallenge/backend/pkg/xcontext"
	"github.com/timechallenge/backend/pkg/xredis"
	"gorm.io/gorm"
)

type Result struct {
	Ordering entity.ScoreOrdering
	Window   *dateutil.Window
	Total    int
	Entries  []Entry
	MyRank   *Entry
}

type Leaderboard interface {
	// Lifetime ranks every attempt of the challenge.
	Lifetime(ctx context.Context, challengeID string, offset, limit int, userID string) (*Result, error)

	// Windowed ranks the attempts whose AttemptDate is in window. A nil window
	// means the current reset window of the challenge's game.
	Windowed(
		ctx context.Context, challengeID string, window *dateutil.Window, offset, limit int, userID string,
	) (*Result, error)

	// Invalidate bumps the cache version of the challenge so no cached
	// leaderboard of it is served again. The lifetime leaderboard and those of
	// the given windows are also deleted.
	Invalidate(ctx context.Context, challengeID string, windows ...dateutil.Window)
}

type leaderboard struct {
	challengeRepo repository.ChallengeRepository
	attemptRepo   repository.AttemptRepository
	registry      *gamestrategy.Registry
	redisClient   xredis.Client
	now           func() time.Time
}

func New(
	challengeRepo repository.ChallengeRepository,
	attemptRepo repository.AttemptRepository,
	registry *gamestrategy.Registry,
	redisClient xredis.Client,
) *leaderboard {
	return &leaderboard{
		challengeRepo: challengeRepo,
		attemptRepo:   attemptRepo,
		registry:      registry,
		redisClient:   redisClient,
		now:           time.Now,
	}
}

// WithClock replaces the clock used to find the current window.
func (l *leaderboard) WithClock(now func() time.Time) *leaderboard {
	l.now = now
	return l
}

func (l *leaderboard) Lifetime(
	ctx context.Context, challengeID string, offset, limit int, userID string,
) (*Result, error) {
	challenge, ordering, err := l.resolve(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	key := func(version int64) string { return redisKeyLifetimeLeaderboard(challenge.ID, version) }
	entries, err := l.ranked(ctx, challenge.ID, key, ordering,
		repository.AttemptFilter{ChallengeID: challenge.ID})
	if err != nil {
		return nil, err
	}

	return &Result{
		Ordering: ordering,
		Total:    len(entries),
		Entries:  Page(entries, offset, limit),
		MyRank:   Find(entries, userID),
	}, nil
}

func (l *leaderboard) Windowed(
	ctx context.Context, challengeID string, window *dateutil.Window, offset, limit int, userID string,
) (*Result, error) {
	challenge, ordering, err := l.resolve(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	if window == nil {
		now := l.now().In(xcontext.Configs(ctx).Challenge.Location())
		current, err := dateutil.CurrentWindow(challenge.Game.EffectiveResetTime(), now)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Invalid reset time of game %s: %v", challenge.GameID, err)
			return nil, errorx.Unknown
		}
		window = &current
	}

	w := *window
	key := func(version int64) string { return redisKeyWindowLeaderboard(challenge.ID, version, w) }
	entries, err := l.ranked(ctx, challenge.ID, key, ordering,
		repository.AttemptFilter{ChallengeID: challenge.ID, From: w.Start, To: w.End})
	if err != nil {
		return nil, err
	}

	return &Result{
		Ordering: ordering,
		Window:   window,
		Total:    len(entries),
		Entries:  Page(entries, offset, limit),
		MyRank:   Find(entries, userID),
	}, nil
}

func (l *leaderboard) Invalidate(ctx context.Context, challengeID string, windows ...dateutil.Window) {
	if l.redisClient == nil {
		return
	}

	version, err := l.redisClient.Incr(ctx, redisKeyLeaderboardVersion(challengeID))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot invalidate leaderboard of challenge %s: %v", challengeID, err)
		return
	}

	// Entries of the previous version are unreachable now and only freed early.
	keys := []string{redisKeyLifetimeLeaderboard(challengeID, version-1)}
	for _, w := range windows {
		keys = append(keys, redisKeyWindowLeaderboard(challengeID, version-1, w))
	}

	if err := l.redisClient.Del(ctx, keys...); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot drop stale leaderboards of challenge %s: %v", challengeID, err)
	}
}

func (l *leaderboard) resolve(
	ctx context.Context, challengeID string,
) (*entity.Challenge, entity.ScoreOrdering, error) {
	challenge, err := l.challengeRepo.GetByID(ctx, challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", errorx.New(errorx.NotFound, "Not found challenge")
		}

		xcontext.Logger(ctx).Errorf("Cannot get challenge: %v", err)
		return nil, "", errorx.Unknown
	}

	strategy, err := l.registry.Create(ctx, challenge.Game.Type, challenge.Game.Config)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot build strategy of game %s: %v", challenge.GameID, err)
		return nil, "", errorx.New(errorx.Internal, "Game of this challenge is misconfigured")
	}

	return challenge, strategy.Ordering(), nil
}

// ranked returns the full ranked list, from the cache if present. The cache
// version is read before the attempts, so a list computed from data older than
// the latest invalidation is never stored under the current version.
func (l *leaderboard) ranked(
	ctx context.Context,
	challengeID string,
	key func(version int64) string,
	ordering entity.ScoreOrdering,
	filter repository.AttemptFilter,
) ([]Entry, error) {
	cacheKey := ""
	if l.redisClient != nil {
		version, err := l.redisClient.GetInt(ctx, redisKeyLeaderboardVersion(challengeID))
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot read leaderboard version of challenge %s: %v", challengeID, err)
		} else {
			cacheKey = key(version)
		}
	}

	if cacheKey != "" {
		var cached []Entry
		err := l.redisClient.GetObj(ctx, cacheKey, &cached)
		if err == nil {
			return cached, nil
		}

		if !xredis.IsNil(err) {
			xcontext.Logger(ctx).Warnf("Cannot read leaderboard cache %s: %v", cacheKey, err)
		}
	}

	bests, err := l.attemptRepo.GetBests(ctx, filter, ordering)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get best scores: %v", err)
		return nil, errorx.Unknown
	}

	entries := Rank(bests, ordering)

	if cacheKey != "" {
		ttl := xcontext.Configs(ctx).Redis.LeaderboardTTL
		if err := l.redisClient.SetObj(ctx, cacheKey, entries, ttl); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot write leaderboard cache %s: %v", cacheKey, err)
		}
	}

	return entries, nil
}
