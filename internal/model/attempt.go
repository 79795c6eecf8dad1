package model

type GetEligibilityRequest struct {
	ChallengeID string `json:"challenge_id" validate:"required"`
}

type GetEligibilityResponse struct {
	CanPlay      bool    `json:"can_play"`
	Reason       string  `json:"reason,omitempty"`
	Message      string  `json:"message,omitempty"`
	RetryAt      string  `json:"retry_at,omitempty"`
	AttemptsUsed int     `json:"attempts_used"`
	Max          int     `json:"max"`
	Window       *Window `json:"window,omitempty"`
}

type SubmitAttemptRequest struct {
	ChallengeID string         `json:"challenge_id" validate:"required"`
	Payload     map[string]any `json:"payload" validate:"required"`
}

type SubmitAttemptResponse struct {
	Attempt      Attempt     `json:"attempt"`
	ScoreResult  ScoreResult `json:"score_result"`
	IsNewBest    bool        `json:"is_new_best"`
	AttemptsUsed int         `json:"attempts_used"`
	Remaining    int         `json:"remaining"`
}

type GetAttemptStatsRequest struct {
	ChallengeID string `json:"challenge_id" validate:"required"`
}

type GetAttemptStatsResponse struct {
	TotalAttempts     int      `json:"total_attempts"`
	AttemptsInWindow  int      `json:"attempts_in_window"`
	MaxAttemptsPerDay int      `json:"max_attempts_per_day"`
	BestInWindow      *float64 `json:"best_in_window"`
	BestOverall       *float64 `json:"best_overall"`
	Ordering          string   `json:"ordering"`
	ResetTime         string   `json:"reset_time"`
	NextReset         string   `json:"next_reset"`
	Window            Window   `json:"window"`
}
