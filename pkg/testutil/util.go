package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/timechallenge/backend/config"
	"github.com/timechallenge/backend/internal/model"
	"github.com/timechallenge/backend/migration"
	"github.com/timechallenge/backend/pkg/authenticator"
	"github.com/timechallenge/backend/pkg/logger"
	"github.com/timechallenge/backend/pkg/xcontext"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MockContext returns a context carrying a fresh in-memory database with the
// full schema, test configs and a logger. A single connection serializes the
// writers like a locked row would.
func MockContext() context.Context {
	return MockContextWithMaxOpenConns(1)
}

// MockContextWithMaxOpenConns is MockContext with a pool of n connections, so
// concurrent transactions really overlap and may fail with a locked table.
func MockContextWithMaxOpenConns(n int) context.Context {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		panic(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}

	sqlDB.SetMaxOpenConns(n)

	cfg := config.Configs{
		Env: "test",
		Database: config.DatabaseConfigs{
			Driver: "sqlite",
		},
		ApiServer: config.APIServerConfigs{
			MaxLimit:     50,
			DefaultLimit: 10,
		},
		Auth: config.AuthConfigs{
			TokenSecret: "secret",
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: time.Minute,
			},
		},
		Redis: config.RedisConfigs{
			LeaderboardTTL: time.Minute,
		},
		Challenge: config.ChallengeConfigs{
			Timezone:      "UTC",
			SubmitRetries: 3,
		},
		Log: config.LogConfigs{
			Level: "error",
		},
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(cfg.Log.Level))
	ctx = xcontext.WithTokenEngine(ctx, authenticator.NewTokenEngine[model.AccessToken](
		cfg.Auth.TokenSecret, cfg.Auth.AccessToken.Expiration))
	ctx = xcontext.WithDB(ctx, db)

	if err := migration.AutoMigrate(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(userID string) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}
