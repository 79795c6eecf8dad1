package repository

import (
	"context"
	"time"

	"github.com/timechallenge/backend/internal/entity"
	"github.com/timechallenge/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ChallengeFilter struct {
	Visibilities []entity.Visibility
	GameModes    []entity.GameMode

	// EndAfter keeps only challenges not ended at this instant.
	EndAfter time.Time

	Offset int
	Limit  int
}

type ChallengeRepository interface {
	Create(ctx context.Context, data *entity.Challenge) error
	GetByID(ctx context.Context, id string) (*entity.Challenge, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.Challenge, error)
	GetList(ctx context.Context, filter ChallengeFilter) ([]entity.Challenge, error)

	// IncreaseParticipantCount returns false when the challenge is full.
	IncreaseParticipantCount(ctx context.Context, id string) (bool, error)
}

type challengeRepository struct{}

func NewChallengeRepository() *challengeRepository {
	return &challengeRepository{}
}

func (r *challengeRepository) Create(ctx context.Context, data *entity.Challenge) error {
	return xcontext.DB(ctx).Omit("Game").Create(data).Error
}

func (r *challengeRepository) GetByID(ctx context.Context, id string) (*entity.Challenge, error) {
	var result entity.Challenge
	err := xcontext.DB(ctx).Preload("Game").Take(&result, "id=?", id).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *challengeRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Challenge, error) {
	var result []entity.Challenge
	err := xcontext.DB(ctx).Preload("Game").Where("id IN (?)", ids).Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *challengeRepository) GetList(
	ctx context.Context, filter ChallengeFilter,
) ([]entity.Challenge, error) {
	tx := xcontext.DB(ctx).Model(&entity.Challenge{}).Preload("Game")

	if len(filter.Visibilities) > 0 {
		tx = tx.Where("visibility IN (?)", filter.Visibilities)
	}

	if len(filter.GameModes) > 0 {
		tx = tx.Where("game_mode IN (?)", filter.GameModes)
	}

	if !filter.EndAfter.IsZero() {
		tx = tx.Where("end_date >= ?", filter.EndAfter)
	}

	if filter.Limit > 0 {
		tx = tx.Offset(filter.Offset).Limit(filter.Limit)
	}

	var result []entity.Challenge
	if err := tx.Order("start_date DESC").Order("id ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *challengeRepository) IncreaseParticipantCount(ctx context.Context, id string) (bool, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.Challenge{}).
		Where("id=?", id).
		Where("max_participants=0 OR participant_count<max_participants").
		Update("participant_count", gorm.Expr("participant_count+1"))
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected == 1, nil
}
