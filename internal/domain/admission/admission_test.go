package admission

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
	"github.com/timechallenge/backend/internal/entity"
	"github.com/timechallenge/backend/internal/repository"
	"github.com/timechallenge/backend/pkg/errorx"
	"github.com/timechallenge/backend/pkg/testutil"
	"gorm.io/gorm"
)

func newTestController(entitlement Entitlement) *Controller {
	return NewController(
		repository.NewChallengeRepository(),
		repository.NewParticipantRepository(),
		repository.NewAttemptRepository(),
		entitlement,
	)
}

func allowAll() Entitlement {
	return EntitlementFunc(func(context.Context, string, string) (bool, error) { return true, nil })
}

func TestController_Check(t *testing.T) {
	midnight := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name        string
		userID      string
		enroll      bool
		entitlement Entitlement
		attempts    []time.Time
		now         time.Time
		wantReason  errorx.Code
		wantRetryAt *time.Time
		wantUsed    int
	}{
		{
			name:     "eligible",
			userID:   testutil.User1.ID,
			enroll:   true,
			now:      testutil.Now,
			wantUsed: 0,
		},
		{
			name:        "entitlement is checked first",
			userID:      testutil.User1.ID,
			enroll:      false,
			entitlement: EntitlementFunc(func(context.Context, string, string) (bool, error) { return false, nil }),
			now:         testutil.Now.Add(-30 * 24 * time.Hour),
			wantReason:  errorx.EntitlementDenied,
		},
		{
			name:       "not enrolled",
			userID:     testutil.User1.ID,
			now:        testutil.Now,
			wantReason: errorx.NotEnrolled,
		},
		{
			name:        "not started",
			userID:      testutil.User1.ID,
			enroll:      true,
			now:         testutil.StartDate.Add(-time.Second),
			wantReason:  errorx.ChallengeNotStarted,
			wantRetryAt: &testutil.StartDate,
		},
		{
			name:       "ended",
			userID:     testutil.User1.ID,
			enroll:     true,
			now:        testutil.EndDate.Add(time.Second),
			wantReason: errorx.ChallengeEnded,
		},
		{
			name:     "attempt of previous window does not count",
			userID:   testutil.User1.ID,
			enroll:   true,
			attempts: []time.Time{midnight.Add(-time.Second)},
			now:      testutil.Now,
		},
		{
			name:        "quota exceeded",
			userID:      testutil.User1.ID,
			enroll:      true,
			attempts:    []time.Time{midnight},
			now:         testutil.Now,
			wantReason:  errorx.QuotaExceeded,
			wantRetryAt: func() *time.Time { t := midnight.Add(24 * time.Hour); return &t }(),
			wantUsed:    1,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContext()
			testutil.CreateFixtureDb(ctx)
			if tt.enroll {
				testutil.Enroll(ctx, tt.userID, testutil.FreeChallenge.ID)
			}

			for i, at := range tt.attempts {
				testutil.InsertAttempt(ctx, string(rune('a'+i)), tt.userID, testutil.FreeChallenge.ID, 100, at)
			}

			entitlement := tt.entitlement
			if entitlement == nil {
				entitlement = allowAll()
			}

			d, err := newTestController(entitlement).Check(ctx, tt.userID, testutil.FreeChallenge.ID, tt.now)
			require.NoError(t, err)

			if tt.wantReason == 0 {
				require.True(t, d.Eligible)
				require.NoError(t, d.Err())
				require.Equal(t, tt.wantUsed, d.AttemptsUsed)
				require.Equal(t, 1, d.Max)
				require.Equal(t, 24*time.Hour, d.Window.End.Sub(d.Window.Start))
				require.False(t, tt.now.Before(d.Window.Start))
				require.True(t, tt.now.Before(d.Window.End))
				return
			}

			require.False(t, d.Eligible)
			require.Equal(t, tt.wantReason, d.Reason)
			require.True(t, errorx.Is(d.Err(), tt.wantReason))
			require.Equal(t, tt.wantUsed, d.AttemptsUsed)

			if tt.wantRetryAt == nil {
				require.Nil(t, d.RetryAt)
			} else {
				require.NotNil(t, d.RetryAt)
				require.True(t, tt.wantRetryAt.Equal(*d.RetryAt), "retry at %s", d.RetryAt)
			}
		})
	}
}

func TestController_Check_ResetTime(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	game := testutil.TimerGame
	game.ID = "reset-0430"
	game.ResetTime = "04:30"
	game.MaxAttemptsPerDay = 2
	testutil.CreateGame(ctx, game)

	c := testutil.FreeChallenge
	c.ID = "reset-challenge"
	c.GameID = game.ID
	testutil.CreateChallenge(ctx, c)
	testutil.Enroll(ctx, testutil.User1.ID, c.ID)

	// 04:00 belongs to the window opened at 04:30 the day before.
	now := time.Date(2024, 3, 10, 4, 0, 0, 0, time.UTC)
	testutil.InsertAttempt(ctx, "a1", testutil.User1.ID, c.ID, 100, time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC))
	testutil.InsertAttempt(ctx, "a2", testutil.User1.ID, c.ID, 100, time.Date(2024, 3, 10, 3, 0, 0, 0, time.UTC))

	d, err := newTestController(nil).Check(ctx, testutil.User1.ID, c.ID, now)
	require.NoError(t, err)
	require.False(t, d.Eligible)
	require.Equal(t, errorx.QuotaExceeded, d.Reason)
	require.Equal(t, 2, d.AttemptsUsed)
	require.Equal(t, 2, d.Max)
	require.True(t, time.Date(2024, 3, 10, 4, 30, 0, 0, time.UTC).Equal(*d.RetryAt))

	// After the reset the quota is available again.
	d, err = newTestController(nil).Check(ctx, testutil.User1.ID, c.ID, now.Add(time.Hour))
	require.NoError(t, err)
	require.True(t, d.Eligible)
	require.Equal(t, 0, d.AttemptsUsed)
	require.Equal(t, 2, d.Remaining())
}

func TestController_Check_Errors(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	_, err := newTestController(nil).Check(ctx, testutil.User1.ID, "unknown", testutil.Now)
	require.True(t, errorx.Is(err, errorx.NotFound))

	failing := EntitlementFunc(func(context.Context, string, string) (bool, error) {
		return false, errors.New("shop is down")
	})
	_, err = newTestController(failing).Check(ctx, testutil.User1.ID, testutil.FreeChallenge.ID, testutil.Now)
	require.ErrorIs(t, err, errorx.Unknown)
}

type lockedParticipantRepository struct {
	repository.ParticipantRepository
	err error
}

func (r *lockedParticipantRepository) Get(context.Context, string, string) (*entity.Participant, error) {
	return nil, r.err
}

func (r *lockedParticipantRepository) GetForUpdate(context.Context, string, string) (*entity.Participant, error) {
	return nil, r.err
}

func TestController_Admit_Conflict(t *testing.T) {
	testCases := []struct {
		name string
		err  error
	}{
		{name: "deadlock", err: &mysql.MySQLError{Number: 1213}},
		{name: "lock wait timeout", err: &mysql.MySQLError{Number: 1205}},
		{name: "duplicated key", err: gorm.ErrDuplicatedKey},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := testutil.MockContext()
			testutil.CreateFixtureDb(ctx)
			testutil.Enroll(ctx, testutil.User1.ID, testutil.FreeChallenge.ID)

			c := NewController(
				repository.NewChallengeRepository(),
				&lockedParticipantRepository{
					ParticipantRepository: repository.NewParticipantRepository(),
					err:                   tc.err,
				},
				repository.NewAttemptRepository(),
				nil,
			)

			// Admitting keeps the conflict so the submission can be retried.
			_, err := c.Admit(ctx, testutil.User1.ID, testutil.FreeChallenge.ID, testutil.Now)
			require.ErrorIs(t, err, tc.err)
			require.True(t, repository.IsConflict(err))

			// A read-only check has nothing to retry.
			_, err = c.Check(ctx, testutil.User1.ID, testutil.FreeChallenge.ID, testutil.Now)
			require.ErrorIs(t, err, errorx.Unknown)
		})
	}
}
