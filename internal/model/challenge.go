package model

import "time"

type CreateChallengeRequest struct {
	GameID          string             `json:"game_id" validate:"required"`
	Name            string             `json:"name" validate:"required"`
	Description     string             `json:"description"`
	StartDate       time.Time          `json:"start_date" validate:"required"`
	EndDate         time.Time          `json:"end_date" validate:"required"`
	JoinDeadline    time.Time          `json:"join_deadline" validate:"required"`
	MaxParticipants int                `json:"max_participants" validate:"gte=0"`
	GameMode        string             `json:"game_mode"`
	Price           float64            `json:"price" validate:"gte=0"`
	PricesByPackage map[string]float64 `json:"prices_by_package"`
	Prize           string             `json:"prize"`
	Visibility      string             `json:"visibility"`
}

type CreateChallengeResponse struct {
	ID string `json:"id"`
}

type GetListChallengeRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetListChallengeResponse struct {
	Challenges []Challenge `json:"challenges"`
}

type GetMyChallengesRequest struct{}

type JoinedChallenge struct {
	Challenge   Challenge   `json:"challenge"`
	Participant Participant `json:"participant"`
}

type GetMyChallengesResponse struct {
	Challenges []JoinedChallenge `json:"challenges"`
}

type JoinChallengeRequest struct {
	ChallengeID string `json:"challenge_id" validate:"required"`
}

type JoinChallengeResponse struct {
	Participant Participant `json:"participant"`
}
