package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/timechallenge/backend/internal/domain/gamestrategy"
	"github.com/timechallenge/backend/internal/entity"
	"github.com/timechallenge/backend/internal/model"
	"github.com/timechallenge/backend/internal/repository"
	"github.com/timechallenge/backend/pkg/errorx"
	"github.com/timechallenge/backend/pkg/testutil"
)

func newTestChallengeDomain() *challengeDomain {
	d := NewChallengeDomain(
		repository.NewChallengeRepository(),
		repository.NewGameRepository(),
		repository.NewParticipantRepository(),
		repository.NewUserRepository(),
		gamestrategy.NewDefaultRegistry(),
	)
	d.clock = func() time.Time { return testutil.Now }
	return d
}

func Test_challengeDomain_Create(t *testing.T) {
	validReq := func() *model.CreateChallengeRequest {
		return &model.CreateChallengeRequest{
			GameID:          testutil.TimerGame.ID,
			Name:            "April challenge",
			StartDate:       time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
			EndDate:         time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
			JoinDeadline:    time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC),
			GameMode:        "paid",
			Price:           20,
			PricesByPackage: map[string]float64{"vip": 10},
			Visibility:      "shop",
		}
	}

	testCases := []struct {
		name     string
		modify   func(req *model.CreateChallengeRequest)
		wantCode errorx.Code
	}{
		{
			name:   "valid",
			modify: func(req *model.CreateChallengeRequest) {},
		},
		{
			name:     "unknown game",
			modify:   func(req *model.CreateChallengeRequest) { req.GameID = "unknown" },
			wantCode: errorx.NotFound,
		},
		{
			name:     "end before start",
			modify:   func(req *model.CreateChallengeRequest) { req.EndDate = req.StartDate.Add(-time.Hour) },
			wantCode: errorx.BadRequest,
		},
		{
			name: "join deadline after end",
			modify: func(req *model.CreateChallengeRequest) {
				req.JoinDeadline = req.EndDate.Add(time.Hour)
			},
			wantCode: errorx.BadRequest,
		},
		{
			name:     "invalid game mode",
			modify:   func(req *model.CreateChallengeRequest) { req.GameMode = "gold" },
			wantCode: errorx.BadRequest,
		},
		{
			name:     "paid without price",
			modify:   func(req *model.CreateChallengeRequest) { req.Price = 0 },
			wantCode: errorx.BadRequest,
		},
		{
			name:     "invalid package price",
			modify:   func(req *model.CreateChallengeRequest) { req.PricesByPackage = map[string]float64{"gold": 1} },
			wantCode: errorx.BadRequest,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContextWithUserID(testutil.User1.ID)
			testutil.CreateFixtureDb(ctx)

			req := validReq()
			tt.modify(req)

			resp, err := newTestChallengeDomain().Create(ctx, req)
			if tt.wantCode != 0 {
				require.True(t, errorx.Is(err, tt.wantCode), "got %v", err)
				return
			}

			require.NoError(t, err)
			challenge, err := repository.NewChallengeRepository().GetByID(ctx, resp.ID)
			require.NoError(t, err)
			require.Equal(t, entity.GameModePaid, challenge.GameMode)
			require.Equal(t, entity.VisibilityShop, challenge.Visibility)
			require.Equal(t, float64(10), challenge.PricesByPackage[entity.PackageVIP])
			require.Equal(t, testutil.User1.ID, challenge.CreatedBy)
			require.Equal(t, testutil.TimerGame.ID, challenge.Game.ID)
		})
	}
}

func Test_challengeDomain_Join(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	full := testutil.FreeChallenge
	full.ID = "full-challenge"
	full.MaxParticipants = 1
	full.ParticipantCount = 1
	testutil.CreateChallenge(ctx, full)

	closed := testutil.FreeChallenge
	closed.ID = "closed-challenge"
	closed.JoinDeadline = testutil.Now.Add(-time.Second)
	testutil.CreateChallenge(ctx, closed)

	d := newTestChallengeDomain()

	resp, err := d.Join(ctx, &model.JoinChallengeRequest{ChallengeID: testutil.FreeChallenge.ID})
	require.NoError(t, err)
	require.Equal(t, testutil.User1.ID, resp.Participant.UserID)
	require.Nil(t, resp.Participant.Score)

	_, err = d.Join(ctx, &model.JoinChallengeRequest{ChallengeID: testutil.FreeChallenge.ID})
	require.True(t, errorx.Is(err, errorx.AlreadyExists))

	_, err = d.Join(ctx, &model.JoinChallengeRequest{ChallengeID: full.ID})
	require.True(t, errorx.Is(err, errorx.Unavailable))

	_, err = d.Join(ctx, &model.JoinChallengeRequest{ChallengeID: closed.ID})
	require.True(t, errorx.Is(err, errorx.Unavailable))

	_, err = d.Join(ctx, &model.JoinChallengeRequest{ChallengeID: "unknown"})
	require.True(t, errorx.Is(err, errorx.NotFound))

	challenge, err := repository.NewChallengeRepository().GetByID(ctx, testutil.FreeChallenge.ID)
	require.NoError(t, err)
	require.Equal(t, 1, challenge.ParticipantCount)

	user, err := repository.NewUserRepository().GetByID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, 1, user.ChallengesPlayed)

	myResp, err := d.GetMyChallenges(ctx, &model.GetMyChallengesRequest{})
	require.NoError(t, err)
	require.Len(t, myResp.Challenges, 1)
	require.Equal(t, testutil.FreeChallenge.ID, myResp.Challenges[0].Challenge.ID)
}

func Test_challengeDomain_GetList(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	private := testutil.FreeChallenge
	private.ID = "private-challenge"
	private.Visibility = entity.VisibilityPrivate
	testutil.CreateChallenge(ctx, private)

	d := newTestChallengeDomain()

	resp, err := d.GetList(ctx, &model.GetListChallengeRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Challenges, 3)
	for _, c := range resp.Challenges {
		require.NotEqual(t, private.ID, c.ID)
	}

	resp, err = d.GetList(ctx, &model.GetListChallengeRequest{Offset: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, resp.Challenges, 1)

	_, err = d.GetList(ctx, &model.GetListChallengeRequest{Limit: 51})
	require.True(t, errorx.Is(err, errorx.BadRequest))
}
