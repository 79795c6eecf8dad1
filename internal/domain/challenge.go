package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/timechallenge/backend/internal/domain/gamestrategy"
	"github.com/timechallenge/backend/internal/entity"
	"github.com/timechallenge/backend/internal/model"
	"github.com/timechallenge/backend/internal/repository"
	"github.com/timechallenge/backend/pkg/enum"
	"github.com/timechallenge/backend/pkg/errorx"
	"github.com/timechallenge/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ChallengeDomain interface {
	Create(context.Context, *model.CreateChallengeRequest) (*model.CreateChallengeResponse, error)
	GetList(context.Context, *model.GetListChallengeRequest) (*model.GetListChallengeResponse, error)
	GetMyChallenges(context.Context, *model.GetMyChallengesRequest) (*model.GetMyChallengesResponse, error)
	Join(context.Context, *model.JoinChallengeRequest) (*model.JoinChallengeResponse, error)
}

type challengeDomain struct {
	challengeRepo   repository.ChallengeRepository
	gameRepo        repository.GameRepository
	participantRepo repository.ParticipantRepository
	userRepo        repository.UserRepository
	registry        *gamestrategy.Registry
	clock           clock
}

func NewChallengeDomain(
	challengeRepo repository.ChallengeRepository,
	gameRepo repository.GameRepository,
	participantRepo repository.ParticipantRepository,
	userRepo repository.UserRepository,
	registry *gamestrategy.Registry,
) *challengeDomain {
	return &challengeDomain{
		challengeRepo:   challengeRepo,
		gameRepo:        gameRepo,
		participantRepo: participantRepo,
		userRepo:        userRepo,
		registry:        registry,
	}
}

func (d *challengeDomain) Create(
	ctx context.Context, req *model.CreateChallengeRequest,
) (*model.CreateChallengeResponse, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	game, err := d.gameRepo.GetByID(ctx, req.GameID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found game")
		}

		xcontext.Logger(ctx).Errorf("Cannot get game: %v", err)
		return nil, errorx.Unknown
	}

	if _, err := d.registry.Create(ctx, game.Type, game.Config); err != nil {
		xcontext.Logger(ctx).Debugf("Invalid strategy of game %s: %v", game.ID, err)
		return nil, errorx.New(errorx.BadRequest, "Game %s has an invalid configuration", game.ID)
	}

	if !req.StartDate.Before(req.EndDate) {
		return nil, errorx.New(errorx.BadRequest, "Start date must be before end date")
	}

	if req.JoinDeadline.After(req.EndDate) {
		return nil, errorx.New(errorx.BadRequest, "Join deadline must not be after end date")
	}

	gameMode := entity.GameModeFree
	if req.GameMode != "" {
		gameMode, err = enum.ToEnum[entity.GameMode](req.GameMode)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid game mode %s", req.GameMode)
		}
	}

	if gameMode == entity.GameModePaid && req.Price <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Paid challenge must have a positive price")
	}

	visibility := entity.VisibilityPublic
	if req.Visibility != "" {
		visibility, err = enum.ToEnum[entity.Visibility](req.Visibility)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid visibility %s", req.Visibility)
		}
	}

	prices := entity.PackagePrices{}
	for pkg, price := range req.PricesByPackage {
		packageType, err := enum.ToEnum[entity.PackageType](pkg)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid package %s", pkg)
		}

		if price < 0 {
			return nil, errorx.New(errorx.BadRequest, "Price of package %s must be non-negative", pkg)
		}

		prices[packageType] = price
	}

	challenge := &entity.Challenge{
		Base:            entity.Base{ID: uuid.NewString()},
		GameID:          game.ID,
		Name:            req.Name,
		Description:     req.Description,
		StartDate:       req.StartDate.UTC(),
		EndDate:         req.EndDate.UTC(),
		JoinDeadline:    req.JoinDeadline.UTC(),
		MaxParticipants: req.MaxParticipants,
		GameMode:        gameMode,
		Price:           req.Price,
		PricesByPackage: prices,
		Prize:           req.Prize,
		Visibility:      visibility,
		CreatedBy:       userID,
	}

	if err := d.challengeRepo.Create(ctx, challenge); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create challenge: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateChallengeResponse{ID: challenge.ID}, nil
}

func (d *challengeDomain) GetList(
	ctx context.Context, req *model.GetListChallengeRequest,
) (*model.GetListChallengeResponse, error) {
	offset, limit, err := checkLimit(ctx, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	challenges, err := d.challengeRepo.GetList(ctx, repository.ChallengeFilter{
		Visibilities: []entity.Visibility{entity.VisibilityPublic, entity.VisibilityShop},
		Offset:       offset,
		Limit:        limit,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get list of challenges: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Challenge{}
	for i := range challenges {
		result = append(result, model.ConvertChallenge(&challenges[i]))
	}

	return &model.GetListChallengeResponse{Challenges: result}, nil
}

func (d *challengeDomain) GetMyChallenges(
	ctx context.Context, req *model.GetMyChallengesRequest,
) (*model.GetMyChallengesResponse, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	participants, err := d.participantRepo.GetListByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get participants: %v", err)
		return nil, errorx.Unknown
	}

	if len(participants) == 0 {
		return &model.GetMyChallengesResponse{Challenges: []model.JoinedChallenge{}}, nil
	}

	ids := []string{}
	for _, p := range participants {
		ids = append(ids, p.ChallengeID)
	}

	challenges, err := d.challengeRepo.GetByIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get challenges: %v", err)
		return nil, errorx.Unknown
	}

	challengeSet := map[string]*entity.Challenge{}
	for i := range challenges {
		challengeSet[challenges[i].ID] = &challenges[i]
	}

	result := []model.JoinedChallenge{}
	for i := range participants {
		challenge, ok := challengeSet[participants[i].ChallengeID]
		if !ok {
			xcontext.Logger(ctx).Errorf("Not found challenge %s of participant", participants[i].ChallengeID)
			return nil, errorx.Unknown
		}

		result = append(result, model.JoinedChallenge{
			Challenge:   model.ConvertChallenge(challenge),
			Participant: model.ConvertParticipant(&participants[i]),
		})
	}

	return &model.GetMyChallengesResponse{Challenges: result}, nil
}

func (d *challengeDomain) Join(
	ctx context.Context, req *model.JoinChallengeRequest,
) (*model.JoinChallengeResponse, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	now := d.clock.now(ctx)

	var participant *entity.Participant
	err = xcontext.Transaction(ctx, func(ctx context.Context) error {
		challenge, err := d.challengeRepo.GetByID(ctx, req.ChallengeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errorx.New(errorx.NotFound, "Not found challenge")
			}

			xcontext.Logger(ctx).Errorf("Cannot get challenge: %v", err)
			return errorx.Unknown
		}

		if now.After(challenge.JoinDeadline) {
			return errorx.New(errorx.Unavailable, "Registration of this challenge is closed")
		}

		_, err = d.participantRepo.Get(ctx, userID, challenge.ID)
		if err == nil {
			return errorx.New(errorx.AlreadyExists, "You have already joined this challenge")
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get participant: %v", err)
			return errorx.Unknown
		}

		ok, err := d.challengeRepo.IncreaseParticipantCount(ctx, challenge.ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot increase participant count: %v", err)
			return errorx.Unknown
		}

		if !ok {
			return errorx.New(errorx.Unavailable, "This challenge is full")
		}

		participant = &entity.Participant{
			UserID:      userID,
			ChallengeID: challenge.ID,
			JoinedAt:    now.UTC(),
		}
		if err := d.participantRepo.Create(ctx, participant); err != nil {
			if repository.IsDuplicate(err) {
				return errorx.New(errorx.AlreadyExists, "You have already joined this challenge")
			}

			xcontext.Logger(ctx).Errorf("Cannot create participant: %v", err)
			return errorx.Unknown
		}

		if err := d.userRepo.IncreaseChallengesPlayed(ctx, userID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot increase challenges played: %v", err)
			return errorx.Unknown
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &model.JoinChallengeResponse{Participant: model.ConvertParticipant(participant)}, nil
}
