package repository

import (
	"context"

	"github.com/timechallenge/backend/internal/entity"
	"github.com/timechallenge/backend/pkg/xcontext"
)

type GameRepository interface {
	Create(ctx context.Context, data *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	GetList(ctx context.Context) ([]entity.Game, error)
}

type gameRepository struct{}

func NewGameRepository() *gameRepository {
	return &gameRepository{}
}

func (r *gameRepository) Create(ctx context.Context, data *entity.Game) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *gameRepository) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	var result entity.Game
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *gameRepository) GetList(ctx context.Context) ([]entity.Game, error) {
	var result []entity.Game
	if err := xcontext.DB(ctx).Order("created_at ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}
