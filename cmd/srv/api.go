package main

import (
	"errors"
	"net/http"

	"github.com/timechallenge/backend/internal/middleware"
	"github.com/timechallenge/backend/pkg/prometheus"
	"github.com/timechallenge/backend/pkg/router"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(cctx *cli.Context) error {
	if err := s.loadConfig(cctx); err != nil {
		return err
	}
	s.loadLogger()
	if err := s.loadDatabase(); err != nil {
		return err
	}
	if s.configs.Database.AutoMigrate {
		if err := s.migrateDB(); err != nil {
			return err
		}
	}
	s.loadRedis()
	s.loadRepos()
	s.loadRegistry()
	s.loadTokenEngine()
	if err := s.loadNotifier(); err != nil {
		return err
	}
	s.loadLeaderboard()
	s.loadDomains()
	s.loadRouter()
	defer s.close()

	s.server = &http.Server{
		Addr:    s.configs.ApiServer.Address(),
		Handler: s.router.Handler(),
	}

	s.logger.Infof("Starting server on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	s.logger.Infof("Server stopped")
	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.db, s.configs, s.logger, s.tokenEngine)
	s.router.Before(middleware.WithStartTime())
	s.router.AddCloser(middleware.Logger())
	s.router.AddCloser(middleware.Prometheus())
	s.router.Handle("/metrics", prometheus.NewHandler())

	// Auth API.
	authRouter := s.router.Branch()
	authRouter.After(middleware.HandleSetAccessToken())
	{
		router.POST(authRouter, "/register", s.authDomain.Register)
		router.POST(authRouter, "/login", s.authDomain.Login)
	}

	// These following APIs need authentication with Access Token.
	onlyTokenAuthRouter := s.router.Branch()
	onlyTokenAuthRouter.Before(middleware.NewAuthVerifier().WithAccessToken().Middleware())
	{
		// User API
		router.GET(onlyTokenAuthRouter, "/getMe", s.authDomain.GetMe)
		router.GET(onlyTokenAuthRouter, "/getMyProgression", s.authDomain.GetMyProgression)

		// Game API
		router.POST(onlyTokenAuthRouter, "/createGame", s.gameDomain.Create)

		// Challenge API
		router.POST(onlyTokenAuthRouter, "/createChallenge", s.challengeDomain.Create)
		router.GET(onlyTokenAuthRouter, "/getMyChallenges", s.challengeDomain.GetMyChallenges)
		router.POST(onlyTokenAuthRouter, "/joinChallenge", s.challengeDomain.Join)

		// Attempt API
		router.GET(onlyTokenAuthRouter, "/getEligibility", s.attemptDomain.GetEligibility)
		router.POST(onlyTokenAuthRouter, "/submitAttempt", s.attemptDomain.Submit)
		router.GET(onlyTokenAuthRouter, "/getAttemptStats", s.attemptDomain.GetStats)

		// Shop API
		router.GET(onlyTokenAuthRouter, "/getShopChallenges", s.shopDomain.GetShopChallenges)
		router.POST(onlyTokenAuthRouter, "/purchaseChallenge", s.shopDomain.Purchase)
		router.GET(onlyTokenAuthRouter, "/getMyPurchases", s.shopDomain.GetMyPurchases)
		router.GET(onlyTokenAuthRouter, "/checkAccess", s.shopDomain.CheckAccess)
	}

	// Public API, the user is resolved when a valid token is given.
	publicRouter := s.router.Branch()
	publicRouter.Before(middleware.NewAuthVerifier().WithAccessToken().WithOptional().Middleware())
	{
		router.GET(publicRouter, "/getListGame", s.gameDomain.GetList)
		router.GET(publicRouter, "/getGameMetadata", s.gameDomain.GetMetadata)
		router.GET(publicRouter, "/getListChallenge", s.challengeDomain.GetList)
		router.GET(publicRouter, "/getLeaderboard", s.statisticDomain.GetLeaderboard)
		router.GET(publicRouter, "/getWindowLeaderboard", s.statisticDomain.GetWindowLeaderboard)
		router.GET(publicRouter, "/getChallengePrice", s.shopDomain.GetChallengePrice)
	}
}
