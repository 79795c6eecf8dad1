package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/timechallenge/backend/pkg/errorx"
	"github.com/timechallenge/backend/pkg/testutil"
	"github.com/timechallenge/backend/pkg/xcontext"
)

func Test_resultCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "success", err: nil, want: "ok"},
		{name: "errorx", err: errorx.New(errorx.QuotaExceeded, "quota"), want: "200004"},
		{name: "unknown", err: errors.New("boom"), want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, resultCode(tt.err))
		})
	}
}

func TestPrometheus(t *testing.T) {
	ctx := testutil.MockContext()
	ctx = xcontext.WithHTTPRequest(ctx, httptest.NewRequest(http.MethodPost, "/submitAttempt", nil))
	ctx = xcontext.WithStartTime(ctx, time.Now().Add(-time.Second))
	ctx = xcontext.WithError(ctx, errorx.New(errorx.NotEnrolled, "not enrolled"))

	require.NotPanics(t, func() { Prometheus()(ctx) })
}
