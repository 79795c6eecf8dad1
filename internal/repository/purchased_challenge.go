package repository

import (
	"context"

	"github.com/timechallenge/backend/internal/entity"
	"github.com/timechallenge/backend/pkg/xcontext"
)

type PurchasedChallengeRepository interface {
	Create(ctx context.Context, data *entity.PurchasedChallenge) error
	Get(ctx context.Context, userID, challengeID string) (*entity.PurchasedChallenge, error)
	GetListByUserID(ctx context.Context, userID string) ([]entity.PurchasedChallenge, error)
}

type purchasedChallengeRepository struct{}

func NewPurchasedChallengeRepository() *purchasedChallengeRepository {
	return &purchasedChallengeRepository{}
}

func (r *purchasedChallengeRepository) Create(ctx context.Context, data *entity.PurchasedChallenge) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *purchasedChallengeRepository) Get(
	ctx context.Context, userID, challengeID string,
) (*entity.PurchasedChallenge, error) {
	var result entity.PurchasedChallenge
	err := xcontext.DB(ctx).
		Where("user_id=? AND challenge_id=?", userID, challengeID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *purchasedChallengeRepository) GetListByUserID(
	ctx context.Context, userID string,
) ([]entity.PurchasedChallenge, error) {
	var result []entity.PurchasedChallenge
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("purchased_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
