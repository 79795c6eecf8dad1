package errorx

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	retryAt := time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC)
	err := New(QuotaExceeded, "Daily limit reached (%d/%d)", 1, 1).WithRetryAt(retryAt)

	require.Equal(t, "Daily limit reached (1/1)", err.Error())
	require.Equal(t, retryAt, *err.RetryAt)
	require.True(t, Is(fmt.Errorf("wrapped: %w", err), QuotaExceeded))
	require.False(t, Is(err, NotEnrolled))
	require.False(t, Is(fmt.Errorf("plain"), QuotaExceeded))
}

func TestCode(t *testing.T) {
	require.Equal(t, "quota_exceeded", QuotaExceeded.Reason())
	require.Equal(t, "", BadRequest.Reason())
	require.Equal(t, http.StatusTooManyRequests, QuotaExceeded.HTTPStatus())
	require.Equal(t, http.StatusForbidden, NotEnrolled.HTTPStatus())
	require.Equal(t, http.StatusConflict, ConcurrencyConflict.HTTPStatus())
	require.Equal(t, http.StatusInternalServerError, Unknown.Code.HTTPStatus())
}
