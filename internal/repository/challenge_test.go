package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/timechallenge/backend/internal/entity"
	"github.com/timechallenge/backend/pkg/testutil"
)

func Test_challengeRepository_IncreaseParticipantCount(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	c := testutil.FreeChallenge
	c.ID = "small-challenge"
	c.MaxParticipants = 2
	testutil.CreateChallenge(ctx, c)

	repo := NewChallengeRepository()
	for i, want := range []bool{true, true, false} {
		ok, err := repo.IncreaseParticipantCount(ctx, c.ID)
		require.NoError(t, err)
		require.Equal(t, want, ok, "join #%d", i)
	}

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.ParticipantCount)
	require.Equal(t, testutil.TimerGame.ID, got.Game.ID)

	// Zero means unlimited.
	for i := 0; i < 5; i++ {
		ok, err := repo.IncreaseParticipantCount(ctx, testutil.FreeChallenge.ID)
		require.NoError(t, err)
		require.True(t, ok)
	}
}

func Test_challengeRepository_GetList(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	ended := testutil.PaidChallenge
	ended.ID = "ended-paid"
	ended.EndDate = testutil.StartDate.Add(time.Hour)
	ended.JoinDeadline = ended.EndDate
	testutil.CreateChallenge(ctx, ended)

	repo := NewChallengeRepository()

	all, err := repo.GetList(ctx, ChallengeFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)

	shop, err := repo.GetList(ctx, ChallengeFilter{
		Visibilities: []entity.Visibility{entity.VisibilityPublic, entity.VisibilityShop},
		GameModes:    []entity.GameMode{entity.GameModePaid},
		EndAfter:     testutil.Now,
	})
	require.NoError(t, err)
	require.Len(t, shop, 1)
	require.Equal(t, testutil.PaidChallenge.ID, shop[0].ID)
	require.Equal(t, float64(5), shop[0].PricesByPackage[entity.PackageVIP])

	page, err := repo.GetList(ctx, ChallengeFilter{Offset: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
}
