package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/timechallenge/backend/pkg/errorx"
	"github.com/timechallenge/backend/pkg/router"
	"github.com/timechallenge/backend/pkg/xcontext"
)

type AuthVerifier struct {
	useAccessToken bool
	optional       bool
}

func NewAuthVerifier() *AuthVerifier {
	return &AuthVerifier{}
}

// WithAccessToken accepts a bearer token in the Authorization header or the
// access token cookie.
func (a *AuthVerifier) WithAccessToken() *AuthVerifier {
	a.useAccessToken = true
	return a
}

// WithOptional lets anonymous requests through. A token which is present
// but invalid is still rejected.
func (a *AuthVerifier) WithOptional() *AuthVerifier {
	a.optional = true
	return a
}

func (a *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if a.useAccessToken {
			token := getAccessToken(xcontext.HTTPRequest(ctx), xcontext.Configs(ctx).Auth.AccessToken.Name)
			if token != "" {
				info, err := xcontext.TokenEngine(ctx).Verify(token)
				if err != nil {
					xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
					return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
				}

				return xcontext.WithRequestUserID(ctx, info.ID), nil
			}
		}

		if a.optional {
			return nil, nil
		}

		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}
}

func getAccessToken(req *http.Request, cookieName string) string {
	authorization := req.Header.Get("Authorization")
	if scheme, token, found := strings.Cut(authorization, " "); found && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}

	if cookie, err := req.Cookie(cookieName); err == nil {
		return cookie.Value
	}

	return ""
}
