package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPassword(t *testing.T) {
	hashed, err := HashPassword("s3cret")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", hashed)
	require.True(t, VerifyPassword("s3cret", hashed))
	require.False(t, VerifyPassword("wrong", hashed))
}

func TestGenerateTransactionID(t *testing.T) {
	a, b := GenerateTransactionID(), GenerateTransactionID()
	require.Len(t, a, 24)
	require.NotEqual(t, a, b)
}
