package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/timechallenge/backend/config"
	"github.com/timechallenge/backend/internal/domain"
	"github.com/timechallenge/backend/internal/domain/gamestrategy"
	"github.com/timechallenge/backend/internal/domain/progression"
	"github.com/timechallenge/backend/internal/domain/statistic"
	"github.com/timechallenge/backend/internal/model"
	"github.com/timechallenge/backend/internal/repository"
	"github.com/timechallenge/backend/migration"
	"github.com/timechallenge/backend/pkg/authenticator"
	"github.com/timechallenge/backend/pkg/kafka"
	"github.com/timechallenge/backend/pkg/logger"
	"github.com/timechallenge/backend/pkg/pubsub"
	"github.com/timechallenge/backend/pkg/router"
	"github.com/timechallenge/backend/pkg/xcontext"
	"github.com/timechallenge/backend/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type srv struct {
	ctx context.Context
	app *cli.App

	configs     config.Configs
	logger      logger.Logger
	db          *gorm.DB
	redisClient xredis.Client
	publisher   pubsub.Publisher
	subscriber  pubsub.Subscriber
	tokenEngine authenticator.TokenEngine[model.AccessToken]
	registry    *gamestrategy.Registry

	userRepo        repository.UserRepository
	gameRepo        repository.GameRepository
	challengeRepo   repository.ChallengeRepository
	participantRepo repository.ParticipantRepository
	attemptRepo     repository.AttemptRepository
	purchaseRepo    repository.PurchasedChallengeRepository

	leaderboard statistic.Leaderboard
	progression *progression.Service
	notifier    progression.Notifier

	authDomain      domain.AuthDomain
	gameDomain      domain.GameDomain
	challengeDomain domain.ChallengeDomain
	attemptDomain   domain.AttemptDomain
	shopDomain      domain.ShopDomain
	statisticDomain domain.StatisticDomain

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.StringSlice("env-file")...)
	if err != nil {
		return fmt.Errorf("cannot load config: %w", err)
	}

	s.configs = cfg
	s.ctx = xcontext.WithConfigs(cctx.Context, s.configs)
	return nil
}

func (s *srv) loadLogger() {
	s.logger = logger.NewLogger(s.configs.Log.Level)
	s.ctx = xcontext.WithLogger(s.ctx, s.logger)
}

func (s *srv) newDatabase() (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch s.configs.Database.Driver {
	case "mysql":
		dialector = mysql.New(mysql.Config{
			DSN:                       s.configs.Database.ConnectionString(),
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		})
	case "sqlite":
		dialector = sqlite.Open(s.configs.Database.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", s.configs.Database.Driver)
	}

	return gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
}

func (s *srv) loadDatabase() error {
	db, err := s.newDatabase()
	if err != nil {
		return fmt.Errorf("cannot open database: %w", err)
	}

	s.db = db
	s.ctx = xcontext.WithDB(s.ctx, s.db)
	return nil
}

func (s *srv) migrateDB() error {
	if s.configs.Database.Driver == "sqlite" {
		return migration.AutoMigrate(s.ctx)
	}

	return migration.Migrate(s.ctx)
}

// loadRedis leaves the client nil when redis is unreachable, the leaderboard
// then reads from the database on every request.
func (s *srv) loadRedis() {
	client, err := xredis.NewClient(s.ctx)
	if err != nil {
		s.logger.Warnf("Cannot connect to redis, leaderboard cache is disabled: %v", err)
		return
	}

	s.redisClient = client
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.gameRepo = repository.NewGameRepository()
	s.challengeRepo = repository.NewChallengeRepository()
	s.participantRepo = repository.NewParticipantRepository()
	s.attemptRepo = repository.NewAttemptRepository()
	s.purchaseRepo = repository.NewPurchasedChallengeRepository()
}

func (s *srv) loadRegistry() {
	s.registry = gamestrategy.NewDefaultRegistry()
}

func (s *srv) loadTokenEngine() {
	s.tokenEngine = authenticator.NewTokenEngine[model.AccessToken](
		s.configs.Auth.TokenSecret,
		s.configs.Auth.AccessToken.Expiration,
	)
}

// loadNotifier publishes attempt events to kafka when enabled. Otherwise the
// progression is updated in-process right after the attempt is committed.
func (s *srv) loadNotifier() error {
	s.progression = progression.NewService(s.userRepo, s.challengeRepo)
	if !s.configs.Kafka.Enable {
		s.notifier = s.progression
		return nil
	}

	publisher, err := kafka.NewPublisher("api", s.configs.Kafka.Addrs)
	if err != nil {
		return fmt.Errorf("cannot create kafka publisher: %w", err)
	}

	s.publisher = publisher
	s.notifier = progression.NewPublisher(s.configs.Kafka.AttemptTopic, s.publisher)
	return nil
}

func (s *srv) loadLeaderboard() {
	s.leaderboard = statistic.New(s.challengeRepo, s.attemptRepo, s.registry, s.redisClient)
}

func (s *srv) loadDomains() {
	shopDomain := domain.NewShopDomain(s.challengeRepo, s.purchaseRepo, s.userRepo)

	s.shopDomain = shopDomain
	s.authDomain = domain.NewAuthDomain(s.userRepo)
	s.gameDomain = domain.NewGameDomain(s.gameRepo, s.registry)
	s.challengeDomain = domain.NewChallengeDomain(
		s.challengeRepo, s.gameRepo, s.participantRepo, s.userRepo, s.registry)
	s.attemptDomain = domain.NewAttemptDomain(
		s.attemptRepo, s.participantRepo, s.challengeRepo, s.registry,
		shopDomain, s.leaderboard, s.notifier)
	s.statisticDomain = domain.NewStatisticDomain(s.challengeRepo, s.leaderboard)
}

func (s *srv) close() {
	if s.publisher != nil {
		if err := s.publisher.Stop(s.ctx); err != nil {
			s.logger.Errorf("Cannot stop publisher: %v", err)
		}
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.logger.Errorf("Cannot close redis client: %v", err)
		}
	}
}
