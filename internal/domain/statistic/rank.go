package statistic

import (
	"sort"
	"time"

	"github.com/timechallenge/backend/internal/entity"
	"github.com/timechallenge/backend/internal/repository"
)

type Entry struct {
	UserID        string    `json:"user_id"`
	BestScore     float64   `json:"best_score"`
	TotalAttempts int       `json:"total_attempts"`
	LastAttemptAt time.Time `json:"last_attempt_at"`

	// QualifiedAt is the earliest AttemptDate reaching BestScore. It breaks
	// ties between equal best scores.
	QualifiedAt time.Time `json:"qualified_at"`
	Rank        int       `json:"rank"`
}

// Rank orders the users by their best score under ordering. Equal best
// scores share a rank and ranks have no gaps. Among equal scores the user who
// reached the score first comes first.
func Rank(bests []repository.UserBest, ordering entity.ScoreOrdering) []Entry {
	entries := make([]Entry, 0, len(bests))
	for _, b := range bests {
		entries = append(entries, Entry{
			UserID:        b.UserID,
			BestScore:     b.BestScore,
			TotalAttempts: b.TotalAttempts,
			LastAttemptAt: b.LastAttemptAt,
			QualifiedAt:   b.QualifiedAt,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.BestScore != b.BestScore {
			return ordering.Better(a.BestScore, b.BestScore)
		}

		if !a.QualifiedAt.Equal(b.QualifiedAt) {
			return a.QualifiedAt.Before(b.QualifiedAt)
		}

		return a.UserID < b.UserID
	})

	rank := 0
	for i := range entries {
		if i == 0 || entries[i].BestScore != entries[i-1].BestScore {
			rank++
		}
		entries[i].Rank = rank
	}

	return entries
}

// Page returns entries[offset:offset+limit] clamped to the slice bounds. A
// non-positive limit returns everything after offset.
func Page(entries []Entry, offset, limit int) []Entry {
	if offset < 0 {
		offset = 0
	}

	if offset >= len(entries) {
		return []Entry{}
	}

	end := len(entries)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	return entries[offset:end]
}

// Find returns the entry of userID, or nil if the user has no attempt in the
// ranked set.
func Find(entries []Entry, userID string) *Entry {
	if userID == "" {
		return nil
	}

	for i := range entries {
		if entries[i].UserID == userID {
			e := entries[i]
			return &e
		}
	}

	return nil
}
