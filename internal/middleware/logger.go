package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/timechallenge/backend/pkg/errorx"
	"github.com/timechallenge/backend/pkg/router"
	"github.com/timechallenge/backend/pkg/xcontext"
)

func Logger() router.CloserFunc {
	return func(ctx context.Context) {
		req := xcontext.HTTPRequest(ctx)
		info := fmt.Sprintf("%s | %s", req.Method, req.URL.Path)
		if err := xcontext.Error(ctx); err != nil {
			var errx errorx.Error
			if errors.As(err, &errx) {
				xcontext.Logger(ctx).Warnf("%s | %d | %s", info, errx.Code, errx.Message)
			} else {
				xcontext.Logger(ctx).Errorf("%s | %d | %v", info, -1, err)
			}
		} else {
			xcontext.Logger(ctx).Infof("%s | %s", info, xcontext.RequestUserID(ctx))
		}
	}
}
