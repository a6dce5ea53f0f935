package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/reptrack/internal/model"
)

func TestInsertSession_AssignsIncreasingIDs(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	var last int64
	for i := 0; i < 5; i++ {
		id, err := s.InsertSession(ctx, createTestSession("pushups", 10))
		require.NoError(t, err)
		assert.Greater(t, id, last)
		last = id
	}
	assert.GreaterOrEqual(t, last, int64(5))
}

func TestInsertSession_ExplicitID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	sess := createTestSession("squats", 12)
	sess.ID = 42
	id, err := s.InsertSession(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestInsertSession_DuplicateIDFails(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	original := createTestSession("squats", 12)
	original.ID = 7
	_, err := s.InsertSession(ctx, original)
	require.NoError(t, err)

	dup := createTestSession("pushups", 99)
	dup.ID = 7
	_, err = s.InsertSession(ctx, dup)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConstraint)

	got, found, err := s.GetSession(ctx, 7)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "squats", got.Exercise, "existing row must not be overwritten")
	assert.Equal(t, int64(12), got.Reps)

	n, err := s.CountSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.False(t, s.InTransaction(), "failed insert must not leave a transaction open")
}

func TestInsertSession_RejectsInvalid(t *testing.T) {
	s := createTestStore(t)

	sess := createTestSession("pushups", -1)
	_, err := s.InsertSession(context.Background(), sess)
	assert.ErrorIs(t, err, model.ErrInvalid)
}

func TestInsertSession_NormalizesExercise(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.InsertSession(ctx, createTestSession("  squats ", 5))
	require.NoError(t, err)

	total, err := s.SumRepsForExercise(ctx, "squats")
	require.NoError(t, err)
	assert.Equal(t, model.Total{Value: 5, Valid: true}, total)
}

func TestInsertSession_CancelledContext(t *testing.T) {
	s := createTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.InsertSession(ctx, createTestSession("pushups", 1))
	require.Error(t, err)
	assert.False(t, s.InTransaction())

	n, err := s.CountSessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestUpsertDaily_ReplacesNotMerges(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first := createTestDaily("2024-05-01", 10)
	first.Squats = 30
	first.GoalsMet = true
	require.NoError(t, s.UpsertDaily(ctx, first))

	second := createTestDaily("2024-05-01", 4)
	require.NoError(t, s.UpsertDaily(ctx, second))

	got, found, err := s.GetDaily(ctx, "2024-05-01")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, second, got)

	var rows int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM daily_progress").Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestUpsertDaily_RoundTripsAllFields(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	dp := model.DailyProgress{
		Date:           "2024-05-02",
		Pushups:        11,
		Squats:         22,
		PlankSeconds:   33,
		BicepLeft:      44,
		BicepRight:     55,
		GoalsMet:       true,
		LastUpdatedISO: "2024-05-02T18:45:00Z",
	}
	require.NoError(t, s.UpsertDaily(ctx, dp))

	got, found, err := s.GetDaily(ctx, dp.Date)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, dp, got)
}

func TestUpsertDaily_RejectsBadDate(t *testing.T) {
	s := createTestStore(t)
	err := s.UpsertDaily(context.Background(), createTestDaily("May 1st", 1))
	assert.ErrorIs(t, err, model.ErrInvalid)
}

func TestUpsertProfile_Overwrites(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, found, err := s.GetProfile(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.UpsertProfile(ctx, model.Profile{TotalXP: 100, Name: "Alex"}))
	p, found, err := s.GetProfile(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, model.Profile{TotalXP: 100, Name: "Alex"}, p)

	require.NoError(t, s.UpsertProfile(ctx, model.Profile{TotalXP: 150}))
	p, _, err = s.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Profile{TotalXP: 150, Name: ""}, p, "replace, not merge")

	var rows int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM user_profile").Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestUpdateProfileName_KeepsXP(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpdateProfileName(ctx, "Sam"))
	p, found, err := s.GetProfile(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, model.Profile{TotalXP: 0, Name: "Sam"}, p)

	require.NoError(t, s.SetProfileXP(ctx, 320))
	require.NoError(t, s.UpdateProfileName(ctx, "Samira"))
	p, _, err = s.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Profile{TotalXP: 320, Name: "Samira"}, p)
}

func TestSetProfileXP_KeepsName(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertProfile(ctx, model.Profile{TotalXP: 10, Name: "Alex"}))
	require.NoError(t, s.SetProfileXP(ctx, 25))

	p, _, err := s.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Profile{TotalXP: 25, Name: "Alex"}, p)

	assert.ErrorIs(t, s.SetProfileXP(ctx, -1), model.ErrInvalid)
}

func TestDeleteSession(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	id, err := s.InsertSession(ctx, createTestSession("pushups", 20))
	require.NoError(t, err)

	n, err := s.DeleteSession(ctx, id+100)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	count, err := s.CountSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	n, err = s.DeleteSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, found, err := s.GetSession(ctx, id)
	require.NoError(t, err)
	assert.False(t, found)
}
