package domain

import (
	"context"
	"time"

	"github.com/timechallenge/backend/pkg/errorx"
	"github.com/timechallenge/backend/pkg/xcontext"
)

// clock returns the current time in the configured challenge location.
type clock func() time.Time

func (c clock) now(ctx context.Context) time.Time {
	if c == nil {
		c = time.Now
	}

	return c().In(xcontext.Configs(ctx).Challenge.Location())
}

func checkLimit(ctx context.Context, offset, limit int) (int, int, error) {
	if offset < 0 {
		return 0, 0, errorx.New(errorx.BadRequest, "Offset must be non-negative")
	}

	apiCfg := xcontext.Configs(ctx).ApiServer
	if limit == 0 {
		limit = apiCfg.DefaultLimit
	}

	if limit < 0 {
		return 0, 0, errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	if limit > apiCfg.MaxLimit {
		return 0, 0, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", apiCfg.MaxLimit)
	}

	return offset, limit, nil
}

func requireUser(ctx context.Context) (string, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return "", errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	return userID, nil
}
