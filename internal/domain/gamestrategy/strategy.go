package gamestrategy

import (
	"context"

	"github.com/timechallenge/backend/internal/entity"
)

type ScoreResult struct {
	Value    float64
	Ordering entity.ScoreOrdering
	Metadata map[string]any
}

// Strategy validates and scores the payload of one attempt. Implementations
// are stateless once built from their game config and must be deterministic.
type Strategy interface {
	// Validate rejects payloads outside the physical bounds of the game. It
	// always returns an errorx with code ValidationError.
	Validate(payload map[string]any) error

	Score(payload map[string]any) (ScoreResult, error)

	// Metadata is the static description of the game shown to clients.
	Metadata() map[string]any

	Ordering() entity.ScoreOrdering
}

// Factory builds a strategy from the game config. It returns an errorx when
// the config is invalid.
type Factory func(ctx context.Context, config map[string]any) (Strategy, error)
