package statistic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/timechallenge/backend/internal/entity"
	"github.com/timechallenge/backend/internal/repository"
)

var t0 = time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)

func best(userID string, value float64, minutes int) repository.UserBest {
	at := t0.Add(time.Duration(minutes) * time.Minute)
	return repository.UserBest{
		UserID:        userID,
		BestScore:     value,
		TotalAttempts: 1,
		LastAttemptAt: at,
		QualifiedAt:   at,
	}
}

func TestRank_LowerIsBetter(t *testing.T) {
	entries := Rank([]repository.UserBest{
		best("a", 500, 0),
		best("b", 200, 1),
		best("c", 800, 2),
	}, entity.LowerIsBetter)

	require.Len(t, entries, 3)
	require.Equal(t, "b", entries[0].UserID)
	require.Equal(t, float64(200), entries[0].BestScore)
	require.Equal(t, 1, entries[0].Rank)
	require.Equal(t, "a", entries[1].UserID)
	require.Equal(t, 2, entries[1].Rank)
	require.Equal(t, "c", entries[2].UserID)
	require.Equal(t, 3, entries[2].Rank)
}

func TestRank_HigherIsBetter(t *testing.T) {
	entries := Rank([]repository.UserBest{
		best("a", 500, 0),
		best("b", 200, 1),
		best("c", 800, 2),
	}, entity.HigherIsBetter)

	require.Equal(t, []string{"c", "a", "b"}, userIDs(entries))
	require.Equal(t, []int{1, 2, 3}, ranks(entries))
}

func TestRank_TiesAreDenseAndStable(t *testing.T) {
	entries := Rank([]repository.UserBest{
		best("late", 100, 30),
		best("early", 100, 10),
		best("zeta", 100, 20),
		best("alpha", 100, 20),
		best("worse", 250, 0),
		best("worst", 900, 0),
	}, entity.LowerIsBetter)

	require.Equal(t, []string{"early", "alpha", "zeta", "late", "worse", "worst"}, userIDs(entries))
	require.Equal(t, []int{1, 1, 1, 1, 2, 3}, ranks(entries))
}

func TestRank_KeepsAggregates(t *testing.T) {
	b := best("a", 300, 5)
	b.TotalAttempts = 3
	b.LastAttemptAt = t0.Add(10 * time.Minute)

	entries := Rank([]repository.UserBest{b}, entity.LowerIsBetter)
	require.Len(t, entries, 1)
	require.Equal(t, 3, entries[0].TotalAttempts)
	require.Equal(t, t0.Add(10*time.Minute), entries[0].LastAttemptAt)
	require.Equal(t, t0.Add(5*time.Minute), entries[0].QualifiedAt)
	require.Equal(t, 1, entries[0].Rank)
}

func TestRank_Empty(t *testing.T) {
	require.Empty(t, Rank(nil, entity.LowerIsBetter))
}

func TestPage(t *testing.T) {
	entries := Rank([]repository.UserBest{
		best("a", 1, 0), best("b", 2, 0), best("c", 3, 0), best("d", 4, 0),
	}, entity.LowerIsBetter)

	require.Equal(t, []string{"b", "c"}, userIDs(Page(entries, 1, 2)))
	require.Equal(t, []string{"d"}, userIDs(Page(entries, 3, 10)))
	require.Empty(t, Page(entries, 4, 10))
	require.Len(t, Page(entries, 0, 0), 4)
	require.Len(t, Page(entries, -1, 2), 2)
}

func TestFind(t *testing.T) {
	entries := Rank([]repository.UserBest{best("a", 1, 0), best("b", 2, 0)}, entity.LowerIsBetter)

	e := Find(entries, "b")
	require.NotNil(t, e)
	require.Equal(t, 2, e.Rank)
	require.Nil(t, Find(entries, "c"))
	require.Nil(t, Find(entries, ""))
}

func userIDs(entries []Entry) []string {
	ids := []string{}
	for _, e := range entries {
		ids = append(ids, e.UserID)
	}
	return ids
}

func ranks(entries []Entry) []int {
	r := []int{}
	for _, e := range entries {
		r = append(r, e.Rank)
	}
	return r
}
