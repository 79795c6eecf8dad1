package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/timechallenge/backend/internal/domain/gamestrategy"
	"github.com/timechallenge/backend/internal/domain/statistic"
	"github.com/timechallenge/backend/internal/model"
	"github.com/timechallenge/backend/internal/repository"
	"github.com/timechallenge/backend/pkg/errorx"
	"github.com/timechallenge/backend/pkg/testutil"
)

func newTestStatisticDomain() *statisticDomain {
	challengeRepo := repository.NewChallengeRepository()
	return NewStatisticDomain(
		challengeRepo,
		statistic.New(
			challengeRepo,
			repository.NewAttemptRepository(),
			gamestrategy.NewDefaultRegistry(),
			testutil.NewMockRedisClient(),
		).WithClock(func() time.Time { return testutil.Now }),
	)
}

func Test_statisticDomain_GetLeaderboard(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User3.ID)
	testutil.CreateFixtureDb(ctx)

	day := testutil.Now.Add(-time.Hour)
	testutil.InsertAttempt(ctx, "a1", testutil.User1.ID, testutil.FreeChallenge.ID, 120, day)
	testutil.InsertAttempt(ctx, "a2", testutil.User2.ID, testutil.FreeChallenge.ID, 80, day)
	testutil.InsertAttempt(ctx, "a3", testutil.User3.ID, testutil.FreeChallenge.ID, 120, day.Add(time.Minute))
	testutil.InsertAttempt(ctx, "a4", testutil.User1.ID, testutil.FreeChallenge.ID, 300, day.Add(-24*time.Hour))

	d := newTestStatisticDomain()

	resp, err := d.GetLeaderboard(ctx, &model.GetLeaderboardRequest{ChallengeID: testutil.FreeChallenge.ID})
	require.NoError(t, err)
	require.Equal(t, "lower_is_better", resp.Ordering)
	require.Equal(t, 3, resp.Total)
	require.Equal(t, testutil.User2.ID, resp.Entries[0].UserID)
	require.Equal(t, 1, resp.Entries[0].Rank)
	require.Equal(t, testutil.User1.ID, resp.Entries[1].UserID)
	require.Equal(t, 2, resp.Entries[1].TotalAttempts)
	require.Equal(t, 2, resp.Entries[2].Rank)
	require.NotNil(t, resp.MyRank)
	require.Equal(t, testutil.User3.ID, resp.MyRank.UserID)
	require.Equal(t, 2, resp.MyRank.Rank)

	resp, err = d.GetLeaderboard(ctx, &model.GetLeaderboardRequest{
		ChallengeID: testutil.FreeChallenge.ID,
		Offset:      1,
		Limit:       1,
	})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 1)
	require.Equal(t, 3, resp.Total)
	require.Equal(t, testutil.User1.ID, resp.Entries[0].UserID)

	windowResp, err := d.GetWindowLeaderboard(ctx, &model.GetWindowLeaderboardRequest{
		ChallengeID: testutil.FreeChallenge.ID,
		At:          "2024-03-09T12:00:00Z",
	})
	require.NoError(t, err)
	require.Equal(t, "2024-03-09T00:00:00Z", windowResp.Window.Start)
	require.Equal(t, 1, windowResp.Total)
	require.Equal(t, float64(300), windowResp.Entries[0].BestScore)
	require.Nil(t, windowResp.MyRank)

	windowResp, err = d.GetWindowLeaderboard(ctx, &model.GetWindowLeaderboardRequest{
		ChallengeID: testutil.FreeChallenge.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "2024-03-10T00:00:00Z", windowResp.Window.Start)
	require.Equal(t, 3, windowResp.Total)
	require.Equal(t, 1, windowResp.Entries[1].TotalAttempts)

	_, err = d.GetWindowLeaderboard(ctx, &model.GetWindowLeaderboardRequest{
		ChallengeID: testutil.FreeChallenge.ID,
		At:          "yesterday",
	})
	require.True(t, errorx.Is(err, errorx.BadRequest))

	_, err = d.GetLeaderboard(ctx, &model.GetLeaderboardRequest{ChallengeID: "unknown"})
	require.True(t, errorx.Is(err, errorx.NotFound))
}
