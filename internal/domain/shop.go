package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/timechallenge/backend/internal/entity"
	"github.com/timechallenge/backend/internal/model"
	"github.com/timechallenge/backend/internal/repository"
	"github.com/timechallenge/backend/pkg/crypto"
	"github.com/timechallenge/backend/pkg/errorx"
	"github.com/timechallenge/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

const defaultPaymentMethod = "simulated"

type ShopDomain interface {
	GetShopChallenges(context.Context, *model.GetShopChallengesRequest) (*model.GetShopChallengesResponse, error)
	Purchase(context.Context, *model.PurchaseChallengeRequest) (*model.PurchaseChallengeResponse, error)
	GetMyPurchases(context.Context, *model.GetMyPurchasesRequest) (*model.GetMyPurchasesResponse, error)
	GetChallengePrice(context.Context, *model.GetChallengePriceRequest) (*model.GetChallengePriceResponse, error)
	CheckAccess(context.Context, *model.CheckAccessRequest) (*model.CheckAccessResponse, error)

	// CanAccess is the entitlement consulted before every attempt.
	CanAccess(ctx context.Context, userID, challengeID string) (bool, error)
}

type shopDomain struct {
	challengeRepo repository.ChallengeRepository
	purchaseRepo  repository.PurchasedChallengeRepository
	userRepo      repository.UserRepository
	clock         clock
}

func NewShopDomain(
	challengeRepo repository.ChallengeRepository,
	purchaseRepo repository.PurchasedChallengeRepository,
	userRepo repository.UserRepository,
) *shopDomain {
	return &shopDomain{
		challengeRepo: challengeRepo,
		purchaseRepo:  purchaseRepo,
		userRepo:      userRepo,
	}
}

// CanAccess reports whether the user may play the challenge. A paid challenge
// needs a purchase, other modes need a package at least as high as the mode.
// Unknown users and challenges have no access.
func (d *shopDomain) CanAccess(ctx context.Context, userID, challengeID string) (bool, error) {
	challenge, err := d.challengeRepo.GetByID(ctx, challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}

		return false, err
	}

	if challenge.GameMode == entity.GameModePaid {
		_, err := d.purchaseRepo.Get(ctx, userID, challengeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}

			return false, err
		}

		return true, nil
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}

		return false, err
	}

	return packageAllows(user.ActivePackage(d.clock.now(ctx)), challenge.GameMode), nil
}

func packageAllows(pkg entity.PackageType, mode entity.GameMode) bool {
	required := slices.Index(entity.PackageHierarchy, entity.PackageType(mode))
	if required < 0 {
		// Modes outside the hierarchy, free included, are open to everyone.
		return true
	}

	return slices.Index(entity.PackageHierarchy, pkg) >= required
}

// CalculatePrice returns the price the user pays for the challenge.
func CalculatePrice(user *entity.User, challenge *entity.Challenge, now time.Time) float64 {
	if challenge.GameMode != entity.GameModePaid {
		return 0
	}

	if user != nil {
		if price, ok := challenge.PricesByPackage[user.ActivePackage(now)]; ok {
			return price
		}
	}

	return challenge.Price
}

func (d *shopDomain) GetShopChallenges(
	ctx context.Context, req *model.GetShopChallengesRequest,
) (*model.GetShopChallengesResponse, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	now := d.clock.now(ctx)
	challenges, err := d.challengeRepo.GetList(ctx, repository.ChallengeFilter{
		Visibilities: []entity.Visibility{entity.VisibilityPublic, entity.VisibilityShop},
		GameModes:    []entity.GameMode{entity.GameModePaid},
		EndAfter:     now.UTC(),
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get shop challenges: %v", err)
		return nil, errorx.Unknown
	}

	purchases, err := d.purchaseRepo.GetListByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get purchases: %v", err)
		return nil, errorx.Unknown
	}

	purchased := map[string]bool{}
	for _, p := range purchases {
		purchased[p.ChallengeID] = true
	}

	result := []model.ShopChallenge{}
	for i := range challenges {
		if purchased[challenges[i].ID] {
			continue
		}

		result = append(result, model.ShopChallenge{
			Challenge: model.ConvertChallenge(&challenges[i]),
			UserPrice: CalculatePrice(user, &challenges[i], now),
		})
	}

	return &model.GetShopChallengesResponse{Challenges: result}, nil
}

func (d *shopDomain) Purchase(
	ctx context.Context, req *model.PurchaseChallengeRequest,
) (*model.PurchaseChallengeResponse, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	now := d.clock.now(ctx)
	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = defaultPaymentMethod
	}

	var purchase *entity.PurchasedChallenge
	var challenge *entity.Challenge
	err = xcontext.Transaction(ctx, func(ctx context.Context) error {
		var err error
		challenge, err = d.challengeRepo.GetByID(ctx, req.ChallengeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errorx.New(errorx.NotFound, "Not found challenge")
			}

			xcontext.Logger(ctx).Errorf("Cannot get challenge: %v", err)
			return errorx.Unknown
		}

		if challenge.GameMode != entity.GameModePaid {
			return errorx.New(errorx.BadRequest, "This challenge is not for sale")
		}

		user, err := d.userRepo.GetByID(ctx, userID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
			return errorx.Unknown
		}

		_, err = d.purchaseRepo.Get(ctx, userID, challenge.ID)
		if err == nil {
			return errorx.New(errorx.AlreadyExists, "You have already purchased this challenge")
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get purchase: %v", err)
			return errorx.Unknown
		}

		purchase = &entity.PurchasedChallenge{
			Base:          entity.Base{ID: uuid.NewString()},
			UserID:        userID,
			ChallengeID:   challenge.ID,
			PricePaid:     CalculatePrice(user, challenge, now),
			PaymentMethod: paymentMethod,
			TransactionID: crypto.GenerateTransactionID(),
			PurchasedAt:   now.UTC(),
		}
		if err := d.purchaseRepo.Create(ctx, purchase); err != nil {
			if repository.IsDuplicate(err) {
				return errorx.New(errorx.AlreadyExists, "You have already purchased this challenge")
			}

			xcontext.Logger(ctx).Errorf("Cannot create purchase: %v", err)
			return errorx.Unknown
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &model.PurchaseChallengeResponse{
		Purchase: model.ConvertPurchasedChallenge(purchase, challenge),
	}, nil
}

func (d *shopDomain) GetMyPurchases(
	ctx context.Context, req *model.GetMyPurchasesRequest,
) (*model.GetMyPurchasesResponse, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	purchases, err := d.purchaseRepo.GetListByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get purchases: %v", err)
		return nil, errorx.Unknown
	}

	if len(purchases) == 0 {
		return &model.GetMyPurchasesResponse{Purchases: []model.PurchasedChallenge{}}, nil
	}

	ids := []string{}
	for _, p := range purchases {
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

	result := []model.PurchasedChallenge{}
	for i := range purchases {
		result = append(result, model.ConvertPurchasedChallenge(
			&purchases[i], challengeSet[purchases[i].ChallengeID]))
	}

	return &model.GetMyPurchasesResponse{Purchases: result}, nil
}

func (d *shopDomain) GetChallengePrice(
	ctx context.Context, req *model.GetChallengePriceRequest,
) (*model.GetChallengePriceResponse, error) {
	challenge, err := d.challengeRepo.GetByID(ctx, req.ChallengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found challenge")
		}

		xcontext.Logger(ctx).Errorf("Cannot get challenge: %v", err)
		return nil, errorx.Unknown
	}

	// Anonymous users see the base price.
	var user *entity.User
	if userID := xcontext.RequestUserID(ctx); userID != "" {
		user, err = d.userRepo.GetByID(ctx, userID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
			return nil, errorx.Unknown
		}
	}

	return &model.GetChallengePriceResponse{
		ChallengeID: challenge.ID,
		GameMode:    string(challenge.GameMode),
		Price:       CalculatePrice(user, challenge, d.clock.now(ctx)),
	}, nil
}

func (d *shopDomain) CheckAccess(
	ctx context.Context, req *model.CheckAccessRequest,
) (*model.CheckAccessResponse, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	ok, err := d.CanAccess(ctx, userID, req.ChallengeID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check access: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CheckAccessResponse{CanAccess: ok}, nil
}
