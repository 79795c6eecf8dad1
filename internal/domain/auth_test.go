package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/timechallenge/backend/internal/model"
	"github.com/timechallenge/backend/internal/repository"
	"github.com/timechallenge/backend/pkg/errorx"
	"github.com/timechallenge/backend/pkg/testutil"
	"github.com/timechallenge/backend/pkg/xcontext"
)

func Test_authDomain(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	d := NewAuthDomain(repository.NewUserRepository())

	registerResp, err := d.Register(ctx, &model.RegisterRequest{
		Email:     " New.Player@Example.com ",
		Password:  "secret-password",
		FirstName: "New",
	})
	require.NoError(t, err)
	require.Equal(t, "new.player@example.com", registerResp.User.Email)
	require.Equal(t, "free", registerResp.User.PackageType)
	require.Equal(t, 1, registerResp.User.Level)

	token, err := xcontext.TokenEngine(ctx).Verify(registerResp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, registerResp.User.ID, token.ID)

	_, err = d.Register(ctx, &model.RegisterRequest{
		Email:    "new.player@example.com",
		Password: "another-password",
	})
	require.True(t, errorx.Is(err, errorx.AlreadyExists))

	loginResp, err := d.Login(ctx, &model.LoginRequest{
		Email:    "new.player@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)
	require.Equal(t, registerResp.User.ID, loginResp.User.ID)
	require.Equal(t, loginResp.AccessToken, loginResp.AccessTokenInfo())

	_, err = d.Login(ctx, &model.LoginRequest{Email: "new.player@example.com", Password: "wrong"})
	require.True(t, errorx.Is(err, errorx.Unauthenticated))

	_, err = d.Login(ctx, &model.LoginRequest{Email: "nobody@example.com", Password: "wrong"})
	require.True(t, errorx.Is(err, errorx.Unauthenticated))

	userCtx := xcontext.WithRequestUserID(ctx, registerResp.User.ID)
	meResp, err := d.GetMe(userCtx, &model.GetMeRequest{})
	require.NoError(t, err)
	require.Equal(t, "New", meResp.User.FirstName)

	_, err = d.GetMe(ctx, &model.GetMeRequest{})
	require.True(t, errorx.Is(err, errorx.Unauthenticated))
}

func Test_authDomain_GetMyProgression(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)

	userRepo := repository.NewUserRepository()
	require.NoError(t, userRepo.UpdateProgress(ctx, testutil.User1.ID, repository.UserProgress{
		XP:     150,
		Level:  2,
		Streak: 3,
	}))

	resp, err := NewAuthDomain(userRepo).GetMyProgression(ctx, &model.GetMyProgressionRequest{})
	require.NoError(t, err)
	require.Equal(t, 2, resp.Level)
	require.Equal(t, 50, resp.XPInCurrentLevel)
	require.Equal(t, 200, resp.XPForNextLevel)
	require.Equal(t, 25, resp.XPProgress)
	require.Equal(t, 3, resp.Streak)
}
