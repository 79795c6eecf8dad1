package model

type ShopChallenge struct {
	Challenge Challenge `json:"challenge"`
	UserPrice float64   `json:"user_price"`
}

type GetShopChallengesRequest struct{}

type GetShopChallengesResponse struct {
	Challenges []ShopChallenge `json:"challenges"`
}

type PurchaseChallengeRequest struct {
	ChallengeID   string `json:"challenge_id" validate:"required"`
	PaymentMethod string `json:"payment_method"`
}

type PurchaseChallengeResponse struct {
	Purchase PurchasedChallenge `json:"purchase"`
}

type GetMyPurchasesRequest struct{}

type GetMyPurchasesResponse struct {
	Purchases []PurchasedChallenge `json:"purchases"`
}

type GetChallengePriceRequest struct {
	ChallengeID string `json:"challenge_id" validate:"required"`
}

type GetChallengePriceResponse struct {
	ChallengeID string  `json:"challenge_id"`
	GameMode    string  `json:"game_mode"`
	Price       float64 `json:"price"`
}

type CheckAccessRequest struct {
	ChallengeID string `json:"challenge_id" validate:"required"`
}

type CheckAccessResponse struct {
	CanAccess bool `json:"can_access"`
}
