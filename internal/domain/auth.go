package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/timechallenge/backend/internal/domain/progression"
	"github.com/timechallenge/backend/internal/entity"
	"github.com/timechallenge/backend/internal/model"
	"github.com/timechallenge/backend/internal/repository"
	"github.com/timechallenge/backend/pkg/crypto"
	"github.com/timechallenge/backend/pkg/errorx"
	"github.com/timechallenge/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type AuthDomain interface {
	Register(context.Context, *model.RegisterRequest) (*model.RegisterResponse, error)
	Login(context.Context, *model.LoginRequest) (*model.LoginResponse, error)
	GetMe(context.Context, *model.GetMeRequest) (*model.GetMeResponse, error)
	GetMyProgression(context.Context, *model.GetMyProgressionRequest) (*model.GetMyProgressionResponse, error)
}

type authDomain struct {
	userRepo repository.UserRepository
}

func NewAuthDomain(userRepo repository.UserRepository) *authDomain {
	return &authDomain{userRepo: userRepo}
}

func (d *authDomain) Register(
	ctx context.Context, req *model.RegisterRequest,
) (*model.RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	_, err := d.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "Email %s is already registered", email)
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get user by email: %v", err)
		return nil, errorx.Unknown
	}

	hashed, err := crypto.HashPassword(req.Password)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot hash password: %v", err)
		return nil, errorx.Unknown
	}

	user := &entity.User{
		Base:         entity.Base{ID: uuid.NewString()},
		Email:        email,
		PasswordHash: hashed,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PackageType:  entity.PackageFree,
		Level:        1,
	}

	if err := d.userRepo.Create(ctx, user); err != nil {
		if repository.IsDuplicate(err) {
			return nil, errorx.New(errorx.AlreadyExists, "Email %s is already registered", email)
		}

		xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
		return nil, errorx.Unknown
	}

	token, err := generateAccessToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &model.RegisterResponse{AccessToken: token, User: model.ConvertUser(user)}, nil
}

func (d *authDomain) Login(
	ctx context.Context, req *model.LoginRequest,
) (*model.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := d.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unauthenticated, "Invalid email or password")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user by email: %v", err)
		return nil, errorx.Unknown
	}

	if !crypto.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, errorx.New(errorx.Unauthenticated, "Invalid email or password")
	}

	token, err := generateAccessToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{AccessToken: token, User: model.ConvertUser(user)}, nil
}

func (d *authDomain) GetMe(
	ctx context.Context, req *model.GetMeRequest,
) (*model.GetMeResponse, error) {
	user, err := d.requestUser(ctx)
	if err != nil {
		return nil, err
	}

	return &model.GetMeResponse{User: model.ConvertUser(user)}, nil
}

func (d *authDomain) GetMyProgression(
	ctx context.Context, req *model.GetMyProgressionRequest,
) (*model.GetMyProgressionResponse, error) {
	user, err := d.requestUser(ctx)
	if err != nil {
		return nil, err
	}

	start, span := progression.LevelThreshold(user.Level)
	inLevel := user.XP - start

	return &model.GetMyProgressionResponse{
		Level:            user.Level,
		XP:               user.XP,
		XPInCurrentLevel: inLevel,
		XPForNextLevel:   span,
		XPProgress:       inLevel * 100 / span,
		Streak:           user.Streak,
		LastPlayedDate:   model.ConvertUser(user).LastPlayedDate,
		ChallengesPlayed: user.ChallengesPlayed,
	}, nil
}

func (d *authDomain) requestUser(ctx context.Context) (*entity.User, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return user, nil
}

func generateAccessToken(ctx context.Context, user *entity.User) (string, error) {
	token, err := xcontext.TokenEngine(ctx).Generate(user.ID, model.AccessToken{
		ID:    user.ID,
		Email: user.Email,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return "", errorx.Unknown
	}

	return token, nil
}
