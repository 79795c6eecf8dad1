package middleware

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/timechallenge/backend/internal/common"
	"github.com/timechallenge/backend/pkg/errorx"
	"github.com/timechallenge/backend/pkg/router"
	"github.com/timechallenge/backend/pkg/xcontext"
)

func WithStartTime() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		return xcontext.WithStartTime(ctx, time.Now()), nil
	}
}

// Prometheus counts every request by method, path and result code. The code
// is "ok" on success, the errorx code otherwise, or "unknown" for untyped
// errors.
func Prometheus() router.CloserFunc {
	return func(ctx context.Context) {
		req := xcontext.HTTPRequest(ctx)
		code := resultCode(xcontext.Error(ctx))

		common.PromCounters[common.HTTPRequestTotal].
			WithLabelValues(req.Method, req.URL.Path, code).Inc()

		if startTime := xcontext.StartTime(ctx); !startTime.IsZero() {
			common.PromHistograms[common.HTTPRequestDurationSeconds].
				WithLabelValues(req.Method, req.URL.Path, code).Observe(time.Since(startTime).Seconds())
		}
	}
}

func resultCode(err error) string {
	if err == nil {
		return "ok"
	}

	var errx errorx.Error
	if errors.As(err, &errx) {
		return strconv.Itoa(int(errx.Code))
	}

	return "unknown"
}
