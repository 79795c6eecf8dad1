package gamestrategy

import (
	"context"
	"fmt"
	"math"

	"github.com/mitchellh/mapstructure"
	"github.com/timechallenge/backend/internal/entity"
	"github.com/timechallenge/backend/pkg/errorx"
	"github.com/timechallenge/backend/pkg/xcontext"
)

const (
	TimerType = "timer"

	defaultTargetMillis = 10000
	defaultMaxMillis    = 60000
)

// Timer scores how close the player stops a hidden timer to the target
// duration. The score is the distance in milliseconds, so lower is better.
type timer struct {
	TargetMillis float64 `mapstructure:"targetMillis"`
	MaxMillis    float64 `mapstructure:"maxMillis"`
}

type timerPayload struct {
	ElapsedMillis *float64 `mapstructure:"elapsedMillis"`
}

func NewTimer(ctx context.Context, config map[string]any) (Strategy, error) {
	t := timer{TargetMillis: defaultTargetMillis, MaxMillis: defaultMaxMillis}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &t,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(config); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot decode timer config: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid timer config")
	}

	if t.TargetMillis <= 0 || t.MaxMillis <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Timer target and max must be positive")
	}

	if t.TargetMillis > t.MaxMillis {
		return nil, errorx.New(errorx.BadRequest, "Timer target must not exceed max")
	}

	return &t, nil
}

func (t *timer) elapsed(payload map[string]any) (float64, error) {
	var p timerPayload
	if err := mapstructure.Decode(payload, &p); err != nil {
		return 0, errorx.New(errorx.ValidationError, "elapsedMillis must be a number")
	}

	if p.ElapsedMillis == nil || math.IsNaN(*p.ElapsedMillis) || *p.ElapsedMillis <= 0 {
		return 0, errorx.New(errorx.ValidationError, "elapsedMillis must be a positive number")
	}

	if *p.ElapsedMillis > t.MaxMillis {
		return 0, errorx.New(errorx.ValidationError,
			"elapsedMillis must not exceed %.0f", t.MaxMillis)
	}

	return *p.ElapsedMillis, nil
}

func (t *timer) Validate(payload map[string]any) error {
	_, err := t.elapsed(payload)
	return err
}

func (t *timer) Score(payload map[string]any) (ScoreResult, error) {
	elapsed, err := t.elapsed(payload)
	if err != nil {
		return ScoreResult{}, err
	}

	diff := math.Abs(t.TargetMillis - elapsed)
	accuracy := (t.TargetMillis - diff) / t.TargetMillis * 100

	return ScoreResult{
		Value:    diff,
		Ordering: t.Ordering(),
		Metadata: map[string]any{
			"targetMillis":  t.TargetMillis,
			"elapsedMillis": elapsed,
			"diffMillis":    diff,
			"accuracy":      fmt.Sprintf("%.2f%%", accuracy),
		},
	}, nil
}

func (t *timer) Metadata() map[string]any {
	return map[string]any{
		"type":        TimerType,
		"name":        fmt.Sprintf("Timer %g seconds", t.TargetMillis/1000),
		"description": "Press start, count in your head, then press stop as close to the target as you can.",
		"rules": map[string]any{
			"targetSeconds": t.TargetMillis / 1000,
			"maxSeconds":    t.MaxMillis / 1000,
			"scoringSystem": string(t.Ordering()),
		},
		"ui": map[string]any{
			"hasStartButton":    true,
			"hasStopButton":     true,
			"showRealTimeTimer": false,
		},
	}
}

func (t *timer) Ordering() entity.ScoreOrdering {
	return entity.LowerIsBetter
}
