package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/timechallenge/backend/pkg/errorx"
	"github.com/timechallenge/backend/pkg/router"
	"github.com/timechallenge/backend/pkg/testutil"
	"github.com/timechallenge/backend/pkg/xcontext"
)

type echoRequest struct {
	Name  string `json:"name" validate:"required"`
	Count int    `json:"count"`
}

type echoResponse struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	User  string `json:"user"`
}

type body struct {
	Code    int64           `json:"code"`
	Error   string          `json:"error"`
	Reason  string          `json:"reason"`
	RetryAt *time.Time      `json:"retry_at"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter() *router.Router {
	ctx := testutil.MockContext()
	r := router.New(xcontext.DB(ctx), xcontext.Configs(ctx), xcontext.Logger(ctx), xcontext.TokenEngine(ctx))
	r.Before(func(ctx context.Context) (context.Context, error) {
		return xcontext.WithRequestUserID(ctx, "user1"), nil
	})

	echo := func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		if req.Name == "quota" {
			return nil, errorx.New(errorx.QuotaExceeded, "Daily attempt limit reached").
				WithRetryAt(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC))
		}

		return &echoResponse{Name: req.Name, Count: req.Count, User: xcontext.RequestUserID(ctx)}, nil
	}

	router.GET(r, "/get", echo)
	router.POST(r, "/post", echo)
	return r
}

func do(t *testing.T, r *router.Router, req *http.Request) (int, body) {
	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, req)

	var b body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	return w.Code, b
}

func TestRouter(t *testing.T) {
	r := newTestRouter()

	status, b := do(t, r, httptest.NewRequest(http.MethodGet, "/get?name=alice&count=3", nil))
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, int64(0), b.Code)

	var resp echoResponse
	require.NoError(t, json.Unmarshal(b.Data, &resp))
	require.Equal(t, echoResponse{Name: "alice", Count: 3, User: "user1"}, resp)

	status, b = do(t, r, httptest.NewRequest(http.MethodPost, "/post", strings.NewReader(`{"name":"bob","count":1}`)))
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(b.Data, &resp))
	require.Equal(t, "bob", resp.Name)

	status, b = do(t, r, httptest.NewRequest(http.MethodGet, "/get?count=3", nil))
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, int64(errorx.BadRequest), b.Code)

	status, b = do(t, r, httptest.NewRequest(http.MethodPost, "/post", strings.NewReader(`{"name":`)))
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, r, httptest.NewRequest(http.MethodGet, "/post", nil))
	require.Equal(t, http.StatusNotImplemented, status)

	status, b = do(t, r, httptest.NewRequest(http.MethodGet, "/get?name=quota", nil))
	require.Equal(t, http.StatusTooManyRequests, status)
	require.Equal(t, int64(errorx.QuotaExceeded), b.Code)
	require.Equal(t, "quota_exceeded", b.Reason)
	require.Equal(t, "Daily attempt limit reached", b.Error)
	require.True(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC).Equal(*b.RetryAt))
}

func TestRouter_Branch(t *testing.T) {
	r := newTestRouter()

	branch := r.Branch()
	branch.Before(func(ctx context.Context) (context.Context, error) {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	})
	router.GET(branch, "/denied", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		return &echoResponse{}, nil
	})

	status, _ := do(t, r, httptest.NewRequest(http.MethodGet, "/denied?name=x", nil))
	require.Equal(t, http.StatusForbidden, status)

	// The parent router is not affected by the branch middleware.
	status, _ = do(t, r, httptest.NewRequest(http.MethodGet, "/get?name=x", nil))
	require.Equal(t, http.StatusOK, status)
}
