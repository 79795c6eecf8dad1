package model

type CreateGameRequest struct {
	Name              string         `json:"name" validate:"required"`
	Description       string         `json:"description"`
	Type              string         `json:"type" validate:"required"`
	Config            map[string]any `json:"config"`
	ResetTime         string         `json:"reset_time"`
	MaxAttemptsPerDay int            `json:"max_attempts_per_day" validate:"gte=0"`
}

type CreateGameResponse struct {
	ID string `json:"id"`
}

type GetListGameRequest struct{}

type GetListGameResponse struct {
	Games          []Game   `json:"games"`
	SupportedTypes []string `json:"supported_types"`
}

type GetGameMetadataRequest struct {
	Type   string `json:"type"`
	GameID string `json:"game_id"`
}

type GetGameMetadataResponse struct {
	Type     string         `json:"type"`
	Ordering string         `json:"ordering"`
	Metadata map[string]any `json:"metadata"`
}
