package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/timechallenge/backend/internal/entity"
	"github.com/timechallenge/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type ParticipantRepository interface {
	Create(ctx context.Context, data *entity.Participant) error
	Get(ctx context.Context, userID, challengeID string) (*entity.Participant, error)

	// GetForUpdate locks the participant row until the surrounding transaction
	// ends. Stores without row locks fall back to a plain read.
	GetForUpdate(ctx context.Context, userID, challengeID string) (*entity.Participant, error)
	GetListByUserID(ctx context.Context, userID string) ([]entity.Participant, error)

	// UpdateBestScore stores score only if no score is stored yet or score
	// improves on the stored one. It returns whether the row changed.
	UpdateBestScore(
		ctx context.Context, userID, challengeID string, score float64, ordering entity.ScoreOrdering,
	) (bool, error)
}

type participantRepository struct{}

func NewParticipantRepository() *participantRepository {
	return &participantRepository{}
}

func (r *participantRepository) Create(ctx context.Context, data *entity.Participant) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *participantRepository) Get(ctx context.Context, userID, challengeID string) (*entity.Participant, error) {
	var result entity.Participant
	err := xcontext.DB(ctx).
		Where("user_id=? AND challenge_id=?", userID, challengeID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *participantRepository) GetForUpdate(
	ctx context.Context, userID, challengeID string,
) (*entity.Participant, error) {
	var result entity.Participant
	err := xcontext.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id=? AND challenge_id=?", userID, challengeID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *participantRepository) GetListByUserID(ctx context.Context, userID string) ([]entity.Participant, error) {
	var result []entity.Participant
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("joined_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *participantRepository) UpdateBestScore(
	ctx context.Context, userID, challengeID string, score float64, ordering entity.ScoreOrdering,
) (bool, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.Participant{}).
		Where("user_id=? AND challenge_id=?", userID, challengeID).
		Where(fmt.Sprintf("score IS NULL OR score %s ?", ordering.Comparator()), score).
		Update("score", score)
	if tx.Error != nil {
		return false, tx.Error
	}

	if tx.RowsAffected > 1 {
		return false, errors.New("the number of rows effected is invalid")
	}

	return tx.RowsAffected == 1, nil
}
