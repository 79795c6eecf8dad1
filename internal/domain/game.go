package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/timechallenge/backend/internal/domain/gamestrategy"
	"github.com/timechallenge/backend/internal/entity"
	"github.com/timechallenge/backend/internal/model"
	"github.com/timechallenge/backend/internal/repository"
	"github.com/timechallenge/backend/pkg/dateutil"
	"github.com/timechallenge/backend/pkg/errorx"
	"github.com/timechallenge/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type GameDomain interface {
	Create(context.Context, *model.CreateGameRequest) (*model.CreateGameResponse, error)
	GetList(context.Context, *model.GetListGameRequest) (*model.GetListGameResponse, error)
	GetMetadata(context.Context, *model.GetGameMetadataRequest) (*model.GetGameMetadataResponse, error)
}

type gameDomain struct {
	gameRepo repository.GameRepository
	registry *gamestrategy.Registry
}

func NewGameDomain(gameRepo repository.GameRepository, registry *gamestrategy.Registry) *gameDomain {
	return &gameDomain{gameRepo: gameRepo, registry: registry}
}

func (d *gameDomain) Create(
	ctx context.Context, req *model.CreateGameRequest,
) (*model.CreateGameResponse, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	if !d.registry.IsSupported(req.Type) {
		return nil, errorx.New(errorx.UnsupportedGameType, "Game type %s is not supported", req.Type)
	}

	// Building the strategy validates the config.
	if _, err := d.registry.Create(ctx, req.Type, req.Config); err != nil {
		return nil, err
	}

	resetTime := req.ResetTime
	if resetTime == "" {
		resetTime = dateutil.DefaultResetTime
	}

	if _, _, err := dateutil.ParseResetTime(resetTime); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid reset time %s, expected HH:MM", req.ResetTime)
	}

	maxAttempts := req.MaxAttemptsPerDay
	if maxAttempts == 0 {
		maxAttempts = 1
	}

	game := &entity.Game{
		Base:              entity.Base{ID: uuid.NewString()},
		Name:              req.Name,
		Description:       req.Description,
		Type:              req.Type,
		Config:            entity.Map(req.Config),
		ResetTime:         resetTime,
		MaxAttemptsPerDay: maxAttempts,
	}

	if err := d.gameRepo.Create(ctx, game); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create game: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateGameResponse{ID: game.ID}, nil
}

func (d *gameDomain) GetList(
	ctx context.Context, req *model.GetListGameRequest,
) (*model.GetListGameResponse, error) {
	games, err := d.gameRepo.GetList(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get list of games: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Game{}
	for i := range games {
		result = append(result, model.ConvertGame(&games[i]))
	}

	return &model.GetListGameResponse{
		Games:          result,
		SupportedTypes: d.registry.SupportedTypes(),
	}, nil
}

// GetMetadata describes a game type. With a game id the strategy is built
// from that game's config, otherwise from the default config of the type.
func (d *gameDomain) GetMetadata(
	ctx context.Context, req *model.GetGameMetadataRequest,
) (*model.GetGameMetadataResponse, error) {
	gameType := req.Type
	var config map[string]any

	if req.GameID != "" {
		game, err := d.gameRepo.GetByID(ctx, req.GameID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.NotFound, "Not found game")
			}

			xcontext.Logger(ctx).Errorf("Cannot get game: %v", err)
			return nil, errorx.Unknown
		}

		gameType = game.Type
		config = game.Config
	}

	if gameType == "" {
		return nil, errorx.New(errorx.BadRequest, "Require type or game_id")
	}

	strategy, err := d.registry.Create(ctx, gameType, config)
	if err != nil {
		return nil, err
	}

	return &model.GetGameMetadataResponse{
		Type:     gameType,
		Ordering: string(strategy.Ordering()),
		Metadata: strategy.Metadata(),
	}, nil
}
