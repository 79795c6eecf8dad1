package repository

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/timechallenge/backend/internal/entity"
	"github.com/timechallenge/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// AttemptFilter selects attempts by owner and by AttemptDate in [From, To).
// Zero values are not filtered.
type AttemptFilter struct {
	UserID      string
	ChallengeID string
	From        time.Time
	To          time.Time
}

// UserBest aggregates the filtered attempts of one user.
type UserBest struct {
	UserID        string
	BestScore     float64
	TotalAttempts int
	LastAttemptAt time.Time

	// QualifiedAt is the earliest AttemptDate reaching BestScore.
	QualifiedAt time.Time
}

type AttemptRepository interface {
	Create(ctx context.Context, data *entity.Attempt) error
	Count(ctx context.Context, filter AttemptFilter) (int64, error)

	// GetBests returns one row per user having an attempt matching filter,
	// grouped by the store. The rows are in no particular order.
	GetBests(ctx context.Context, filter AttemptFilter, ordering entity.ScoreOrdering) ([]UserBest, error)
}

type attemptRepository struct{}

func NewAttemptRepository() *attemptRepository {
	return &attemptRepository{}
}

func (r *attemptRepository) Create(ctx context.Context, data *entity.Attempt) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *attemptRepository) Count(ctx context.Context, filter AttemptFilter) (int64, error) {
	var result int64
	err := r.filter(xcontext.DB(ctx).Model(&entity.Attempt{}), filter, "").Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

type userBestRow struct {
	UserID        string
	BestScore     float64
	TotalAttempts int
	LastAttemptAt aggregatedTime
	QualifiedAt   aggregatedTime
}

func (r *attemptRepository) GetBests(
	ctx context.Context, filter AttemptFilter, ordering entity.ScoreOrdering,
) ([]UserBest, error) {
	best := "MIN"
	if ordering == entity.HigherIsBetter {
		best = "MAX"
	}

	perUser := r.filter(xcontext.DB(ctx).Model(&entity.Attempt{}), filter, "").
		Select(fmt.Sprintf("user_id, %s(score) AS best_score, COUNT(*) AS total_attempts, "+
			"MAX(created_at) AS last_attempt_at", best)).
		Group("user_id")

	var rows []userBestRow
	err := r.filter(xcontext.DB(ctx).Table("attempts AS a"), filter, "a.").
		Joins("JOIN (?) AS b ON a.user_id = b.user_id AND a.score = b.best_score", perUser).
		Select("b.user_id, b.best_score, b.total_attempts, b.last_attempt_at, " +
			"MIN(a.attempt_date) AS qualified_at").
		Group("b.user_id, b.best_score, b.total_attempts, b.last_attempt_at").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]UserBest, 0, len(rows))
	for _, row := range rows {
		result = append(result, UserBest{
			UserID:        row.UserID,
			BestScore:     row.BestScore,
			TotalAttempts: row.TotalAttempts,
			LastAttemptAt: row.LastAttemptAt.Time,
			QualifiedAt:   row.QualifiedAt.Time,
		})
	}

	return result, nil
}

func (r *attemptRepository) filter(tx *gorm.DB, filter AttemptFilter, prefix string) *gorm.DB {
	if filter.UserID != "" {
		tx = tx.Where(prefix+"user_id = ?", filter.UserID)
	}

	if filter.ChallengeID != "" {
		tx = tx.Where(prefix+"challenge_id = ?", filter.ChallengeID)
	}

	if !filter.From.IsZero() {
		tx = tx.Where(prefix+"attempt_date >= ?", filter.From.UTC())
	}

	if !filter.To.IsZero() {
		tx = tx.Where(prefix+"attempt_date < ?", filter.To.UTC())
	}

	return tx
}

// aggregatedTime scans the result of MIN/MAX over a time column. MySQL keeps
// the column type, SQLite returns the stored text.
type aggregatedTime struct {
	time.Time
}

func (t *aggregatedTime) Scan(value any) error {
	var s string
	switch v := value.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v.UTC()
		return nil
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("cannot scan %T into time", value)
	}

	s = strings.TrimSuffix(s, "Z")
	for _, layout := range sqlite3.SQLiteTimestampFormats {
		if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}

	return fmt.Errorf("cannot parse time %q", s)
}

func (t aggregatedTime) Value() (driver.Value, error) {
	return t.Time, nil
}
