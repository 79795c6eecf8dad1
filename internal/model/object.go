package model

type AccessToken struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type User struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	PackageType      string `json:"package_type"`
	PackageExpiresAt string `json:"package_expires_at,omitempty"`
	Level            int    `json:"level"`
	XP               int    `json:"xp"`
	Streak           int    `json:"streak"`
	LastPlayedDate   string `json:"last_played_date,omitempty"`
	ChallengesPlayed int    `json:"challenges_played"`
	CreatedAt        string `json:"created_at"`
}

type Game struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Description       string         `json:"description"`
	Type              string         `json:"type"`
	Config            map[string]any `json:"config"`
	ResetTime         string         `json:"reset_time"`
	MaxAttemptsPerDay int            `json:"max_attempts_per_day"`
	CreatedAt         string         `json:"created_at"`
}

type Challenge struct {
	ID               string             `json:"id"`
	GameID           string             `json:"game_id"`
	Game             *Game              `json:"game,omitempty"`
	Name             string             `json:"name"`
	Description      string             `json:"description"`
	StartDate        string             `json:"start_date"`
	EndDate          string             `json:"end_date"`
	JoinDeadline     string             `json:"join_deadline"`
	MaxParticipants  int                `json:"max_participants"`
	ParticipantCount int                `json:"participant_count"`
	GameMode         string             `json:"game_mode"`
	Price            float64            `json:"price"`
	PricesByPackage  map[string]float64 `json:"prices_by_package,omitempty"`
	Prize            string             `json:"prize"`
	Visibility       string             `json:"visibility"`
	CreatedBy        string             `json:"created_by"`
	CreatedAt        string             `json:"created_at"`
}

type Participant struct {
	UserID      string   `json:"user_id"`
	ChallengeID string   `json:"challenge_id"`
	Score       *float64 `json:"score"`
	JoinedAt    string   `json:"joined_at"`
}

type Attempt struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	ChallengeID   string         `json:"challenge_id"`
	GameType      string         `json:"game_type"`
	Payload       map[string]any `json:"payload"`
	Score         float64        `json:"score"`
	ScoreMetadata map[string]any `json:"score_metadata"`
	AttemptDate   string         `json:"attempt_date"`
	CreatedAt     string         `json:"created_at"`
}

type ScoreResult struct {
	Value    float64        `json:"value"`
	Ordering string         `json:"ordering"`
	Metadata map[string]any `json:"metadata"`
}

type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type LeaderboardEntry struct {
	UserID        string  `json:"user_id"`
	BestScore     float64 `json:"best_score"`
	TotalAttempts int     `json:"total_attempts"`
	LastAttemptAt string  `json:"last_attempt_at"`
	Rank          int     `json:"rank"`
}

type PurchasedChallenge struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	ChallengeID   string     `json:"challenge_id"`
	Challenge     *Challenge `json:"challenge,omitempty"`
	PricePaid     float64    `json:"price_paid"`
	PaymentMethod string     `json:"payment_method"`
	TransactionID string     `json:"transaction_id"`
	PurchasedAt   string     `json:"purchased_at"`
}
