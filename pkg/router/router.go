package router

import (
	"context"
	"net/http"

	"github.com/rs/cors"
	"github.com/timechallenge/backend/config"
	"github.com/timechallenge/backend/internal/model"
	"github.com/timechallenge/backend/pkg/authenticator"
	"github.com/timechallenge/backend/pkg/errorx"
	"github.com/timechallenge/backend/pkg/logger"
	"github.com/timechallenge/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc may return a derived context. A nil context keeps the current
// one.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc always runs at the end of a request, after the response is
// written.
type CloserFunc func(ctx context.Context)

type Router struct {
	mux *http.ServeMux

	db          *gorm.DB
	cfg         config.Configs
	logger      logger.Logger
	tokenEngine authenticator.TokenEngine[model.AccessToken]

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

func New(
	db *gorm.DB,
	cfg config.Configs,
	logger logger.Logger,
	tokenEngine authenticator.TokenEngine[model.AccessToken],
) *Router {
	return &Router{
		mux:         http.NewServeMux(),
		db:          db,
		cfg:         cfg,
		logger:      logger,
		tokenEngine: tokenEngine,
	}
}

// Branch returns a router sharing the same mux but owning a copy of the
// middlewares, so middlewares added to the branch do not leak to the parent.
func (r *Router) Branch() *Router {
	clone := *r
	clone.befores = append([]MiddlewareFunc{}, r.befores...)
	clone.afters = append([]MiddlewareFunc{}, r.afters...)
	clone.closers = append([]CloserFunc{}, r.closers...)
	return &clone
}

func (r *Router) Before(m MiddlewareFunc) {
	r.befores = append(r.befores, m)
}

func (r *Router) After(m MiddlewareFunc) {
	r.afters = append(r.afters, m)
}

func (r *Router) AddCloser(c CloserFunc) {
	r.closers = append(r.closers, c)
}

// Handle registers a raw http.Handler, for example the metrics exporter.
func (r *Router) Handle(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   r.cfg.ApiServer.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r.mux)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	route(r, http.MethodGet, pattern, handler)
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	route(r, http.MethodPost, pattern, handler)
}

func route[Request, Response any](
	r *Router, method, pattern string, handler HandlerFunc[Request, Response],
) {
	befores := r.befores
	afters := r.afters
	closers := r.closers

	r.mux.HandleFunc(pattern, func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		ctx = xcontext.WithHTTPRequest(ctx, req)
		ctx = xcontext.WithHTTPWriter(ctx, w)
		ctx = xcontext.WithConfigs(ctx, r.cfg)
		ctx = xcontext.WithLogger(ctx, r.logger)
		ctx = xcontext.WithDB(ctx, r.db)
		ctx = xcontext.WithTokenEngine(ctx, r.tokenEngine)

		ctx = serve(ctx, method, befores, afters, handler)

		writeResponse(ctx)
		for _, closer := range closers {
			closer(ctx)
		}
	})
}

func serve[Request, Response any](
	ctx context.Context,
	method string,
	befores, afters []MiddlewareFunc,
	handler HandlerFunc[Request, Response],
) context.Context {
	if xcontext.HTTPRequest(ctx).Method != method {
		return xcontext.WithError(ctx, errorx.New(errorx.NotImplemented, "Method %s is not allowed", xcontext.HTTPRequest(ctx).Method))
	}

	var err error
	if ctx, err = runMiddlewares(ctx, befores); err != nil {
		return xcontext.WithError(ctx, err)
	}

	req, err := bind[Request](ctx, method)
	if err != nil {
		return xcontext.WithError(ctx, err)
	}

	resp, err := handler(ctx, req)
	if err != nil {
		return xcontext.WithError(ctx, err)
	}

	ctx = xcontext.WithResponse(ctx, resp)
	if ctx, err = runMiddlewares(ctx, afters); err != nil {
		return xcontext.WithError(ctx, err)
	}

	return ctx
}

func runMiddlewares(ctx context.Context, middlewares []MiddlewareFunc) (context.Context, error) {
	for _, m := range middlewares {
		newCtx, err := m(ctx)
		if err != nil {
			return ctx, err
		}

		if newCtx != nil {
			ctx = newCtx
		}
	}

	return ctx, nil
}
