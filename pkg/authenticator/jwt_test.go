package authenticator_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/timechallenge/backend/pkg/authenticator"
)

type accessToken struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func TestJWT(t *testing.T) {
	engine := authenticator.NewTokenEngine[accessToken]("secret", time.Minute)
	token, err := engine.Generate("user1", accessToken{ID: "user1", Email: "a@b.c"})
	require.NoError(t, err)

	obj, err := engine.Verify(token)
	require.NoError(t, err)
	require.Equal(t, accessToken{ID: "user1", Email: "a@b.c"}, obj)
}

func TestJWTExpiration(t *testing.T) {
	engine := authenticator.NewTokenEngine[accessToken]("secret", -time.Minute)
	token, err := engine.Generate("user1", accessToken{ID: "user1"})
	require.NoError(t, err)

	_, err = engine.Verify(token)
	require.Error(t, err)
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := authenticator.NewTokenEngine[accessToken]("secret", time.Minute).
		Generate("user1", accessToken{ID: "user1"})
	require.NoError(t, err)

	_, err = authenticator.NewTokenEngine[accessToken]("another", time.Minute).Verify(token)
	require.Error(t, err)
}
