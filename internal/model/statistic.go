package model

type GetLeaderboardRequest struct {
	ChallengeID string `json:"challenge_id" validate:"required"`
	Offset      int    `json:"offset" validate:"gte=0"`
	Limit       int    `json:"limit" validate:"gte=0"`
}

type GetLeaderboardResponse struct {
	Ordering string             `json:"ordering"`
	Total    int                `json:"total"`
	Entries  []LeaderboardEntry `json:"entries"`
	MyRank   *LeaderboardEntry  `json:"my_rank,omitempty"`
}

type GetWindowLeaderboardRequest struct {
	ChallengeID string `json:"challenge_id" validate:"required"`
	// At selects the window containing this RFC3339 instant. Empty means the
	// current window.
	At     string `json:"at"`
	Offset int    `json:"offset" validate:"gte=0"`
	Limit  int    `json:"limit" validate:"gte=0"`
}

type GetWindowLeaderboardResponse struct {
	Ordering string             `json:"ordering"`
	Window   Window             `json:"window"`
	Total    int                `json:"total"`
	Entries  []LeaderboardEntry `json:"entries"`
	MyRank   *LeaderboardEntry  `json:"my_rank,omitempty"`
}
