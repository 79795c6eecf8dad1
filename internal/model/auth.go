package model

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type RegisterResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

func (r *RegisterResponse) AccessTokenInfo() string {
	return r.AccessToken
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

func (r *LoginResponse) AccessTokenInfo() string {
	return r.AccessToken
}

type GetMeRequest struct{}

type GetMeResponse struct {
	User User `json:"user"`
}

type GetMyProgressionRequest struct{}

type GetMyProgressionResponse struct {
	Level            int    `json:"level"`
	XP               int    `json:"xp"`
	XPInCurrentLevel int    `json:"xp_in_current_level"`
	XPForNextLevel   int    `json:"xp_for_next_level"`
	XPProgress       int    `json:"xp_progress"`
	Streak           int    `json:"streak"`
	LastPlayedDate   string `json:"last_played_date,omitempty"`
	ChallengesPlayed int    `json:"challenges_played"`
}
