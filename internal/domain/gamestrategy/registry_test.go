package gamestrategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/timechallenge/backend/internal/entity"
	"github.com/timechallenge/backend/pkg/errorx"
)

type fixedStrategy struct {
	value float64
}

func (s fixedStrategy) Validate(map[string]any) error { return nil }

func (s fixedStrategy) Score(map[string]any) (ScoreResult, error) {
	return ScoreResult{Value: s.value, Ordering: s.Ordering()}, nil
}

func (s fixedStrategy) Metadata() map[string]any { return nil }

func (s fixedStrategy) Ordering() entity.ScoreOrdering { return entity.HigherIsBetter }

func TestRegistry(t *testing.T) {
	r := NewRegistry().
		Register("fixed", func(context.Context, map[string]any) (Strategy, error) {
			return fixedStrategy{value: 42}, nil
		}).
		Register(TimerType, NewTimer).
		Seal()

	require.Equal(t, []string{"fixed", TimerType}, r.SupportedTypes())
	require.True(t, r.IsSupported("fixed"))
	require.False(t, r.IsSupported("chess"))

	s, err := r.Create(context.Background(), "fixed", nil)
	require.NoError(t, err)
	result, err := s.Score(nil)
	require.NoError(t, err)
	require.Equal(t, float64(42), result.Value)

	_, err = r.Create(context.Background(), "chess", nil)
	require.True(t, errorx.Is(err, errorx.UnsupportedGameType))
}

func TestRegistry_Panics(t *testing.T) {
	require.Panics(t, func() {
		NewRegistry().Register(TimerType, NewTimer).Register(TimerType, NewTimer)
	})

	require.Panics(t, func() {
		NewRegistry().Seal().Register(TimerType, NewTimer)
	})
}

func TestNewDefaultRegistry(t *testing.T) {
	r := NewDefaultRegistry()
	require.Equal(t, []string{TimerType}, r.SupportedTypes())

	s, err := r.Create(context.Background(), TimerType, map[string]any{"targetMillis": 10000})
	require.NoError(t, err)
	require.Equal(t, entity.LowerIsBetter, s.Ordering())
}
