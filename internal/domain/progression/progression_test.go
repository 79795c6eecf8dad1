package progression

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/timechallenge/backend/internal/entity"
	"github.com/timechallenge/backend/internal/repository"
	"github.com/timechallenge/backend/pkg/errorx"
	"github.com/timechallenge/backend/pkg/pubsub"
	"github.com/timechallenge/backend/pkg/testutil"
)

func TestCalculateLevel(t *testing.T) {
	testCases := []struct {
		xp    int
		level int
	}{
		{xp: 0, level: 1},
		{xp: 99, level: 1},
		{xp: 100, level: 2},
		{xp: 299, level: 2},
		{xp: 300, level: 3},
		{xp: 599, level: 3},
		{xp: 600, level: 4},
	}

	for _, tt := range testCases {
		require.Equal(t, tt.level, CalculateLevel(tt.xp), "xp %d", tt.xp)
	}
}

func TestLevelThreshold(t *testing.T) {
	start, span := LevelThreshold(1)
	require.Equal(t, 0, start)
	require.Equal(t, 100, span)

	start, span = LevelThreshold(3)
	require.Equal(t, 300, start)
	require.Equal(t, 300, span)
}

func TestApply(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 12, 0, 0, 0, time.UTC) }
	played := func(d int) sql.NullTime { return sql.NullTime{Valid: true, Time: day(d)} }

	testCases := []struct {
		name       string
		user       entity.User
		challenge  entity.Challenge
		event      Event
		wantXP     int
		wantStreak int
		changed    bool
	}{
		{
			name:       "first play ever",
			user:       entity.User{Level: 1},
			challenge:  entity.Challenge{GameMode: entity.GameModeFree},
			event:      Event{IsFirstAttemptInGlobalDay: true, AttemptedAt: day(10)},
			wantXP:     1,
			wantStreak: 1,
			changed:    true,
		},
		{
			name:       "played yesterday",
			user:       entity.User{Level: 1, Streak: 4, LastPlayedDate: played(9)},
			challenge:  entity.Challenge{GameMode: entity.GameModeFree},
			event:      Event{IsFirstAttemptInGlobalDay: true, AttemptedAt: day(10)},
			wantXP:     1,
			wantStreak: 5,
			changed:    true,
		},
		{
			name:       "streak broken",
			user:       entity.User{Level: 1, Streak: 4, LastPlayedDate: played(7)},
			challenge:  entity.Challenge{GameMode: entity.GameModeFree},
			event:      Event{IsFirstAttemptInGlobalDay: true, AttemptedAt: day(10)},
			wantXP:     1,
			wantStreak: 1,
			changed:    true,
		},
		{
			name:       "same day keeps streak",
			user:       entity.User{Level: 1, Streak: 4, LastPlayedDate: played(10)},
			challenge:  entity.Challenge{GameMode: entity.GameModeFree},
			event:      Event{IsFirstAttemptInGlobalDay: true, AttemptedAt: day(10).Add(time.Hour)},
			wantXP:     1,
			wantStreak: 4,
			changed:    true,
		},
		{
			name:       "paid challenge gives no xp",
			user:       entity.User{Level: 1, XP: 7, Streak: 2, LastPlayedDate: played(10)},
			challenge:  entity.Challenge{GameMode: entity.GameModePaid, Price: 10},
			event:      Event{AttemptedAt: day(10)},
			wantXP:     7,
			wantStreak: 2,
			changed:    false,
		},
		{
			name:       "zero priced pro challenge gives xp",
			user:       entity.User{Level: 1, XP: 99},
			challenge:  entity.Challenge{GameMode: entity.GameModePro},
			event:      Event{AttemptedAt: day(10)},
			wantXP:     100,
			wantStreak: 0,
			changed:    true,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			progress, changed := Apply(&tt.user, &tt.challenge, tt.event)
			require.Equal(t, tt.changed, changed)
			require.Equal(t, tt.wantXP, progress.XP)
			require.Equal(t, tt.wantStreak, progress.Streak)
			require.Equal(t, CalculateLevel(tt.wantXP), progress.Level)
		})
	}
}

func TestService_NotifyAttempt(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	userRepo := repository.NewUserRepository()
	svc := NewService(userRepo, repository.NewChallengeRepository())

	err := svc.NotifyAttempt(ctx, Event{
		UserID:                    testutil.User1.ID,
		ChallengeID:               testutil.FreeChallenge.ID,
		IsFirstAttemptInGlobalDay: true,
		AttemptedAt:               testutil.Now,
	})
	require.NoError(t, err)

	user, err := userRepo.GetByID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, 1, user.XP)
	require.Equal(t, 1, user.Streak)
	require.True(t, user.LastPlayedDate.Valid)

	err = svc.NotifyAttempt(ctx, Event{UserID: "unknown", ChallengeID: testutil.FreeChallenge.ID})
	require.True(t, errorx.Is(err, errorx.NotFound))
}

func TestPublisherAndHandler(t *testing.T) {
	ctx := testutil.MockContext()

	var published *pubsub.Pack
	p := NewPublisher("attempt", &testutil.MockPublisher{
		PublishFunc: func(ctx context.Context, topic string, pack *pubsub.Pack) error {
			require.Equal(t, "attempt", topic)
			published = pack
			return nil
		},
	})

	event := Event{
		UserID:                    testutil.User2.ID,
		ChallengeID:               testutil.FreeChallenge.ID,
		IsFirstAttemptInGlobalDay: true,
		AttemptedAt:               testutil.Now,
	}
	require.NoError(t, p.NotifyAttempt(ctx, event))
	require.Equal(t, []byte(testutil.User2.ID), published.Key)

	var decoded Event
	require.NoError(t, json.Unmarshal(published.Msg, &decoded))
	require.True(t, testutil.Now.Equal(decoded.AttemptedAt))

	var received []Event
	handler := Handler(NotifierFunc(func(ctx context.Context, event Event) error {
		received = append(received, event)
		return nil
	}))

	handler(ctx, published, testutil.Now)
	handler(ctx, &pubsub.Pack{Msg: []byte("not json")}, testutil.Now)

	require.Len(t, received, 1)
	require.Equal(t, event.UserID, received[0].UserID)
	require.True(t, received[0].IsFirstAttemptInGlobalDay)
}
