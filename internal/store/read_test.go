package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/reptrack/internal/model"
)

func TestListSessions_EmptyNotNil(t *testing.T) {
	s := createTestStore(t)

	sessions, err := s.ListSessions(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, sessions)
	assert.Empty(t, sessions)
}

func TestPushupScenario(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first, err := s.InsertSession(ctx, createTestSession("pushups", 20))
	require.NoError(t, err)
	second, err := s.InsertSession(ctx, createTestSession("pushups", 15))
	require.NoError(t, err)

	sessions, err := s.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, second, sessions[0].ID, "most recent first")
	assert.Equal(t, first, sessions[1].ID)
	assert.Equal(t, int64(15), sessions[0].Reps)

	total, err := s.SumRepsForExercise(ctx, "pushups")
	require.NoError(t, err)
	assert.Equal(t, model.Total{Value: 35, Valid: true}, total)

	count, err := s.CountSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGetSession(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, found, err := s.GetSession(ctx, 1)
	require.NoError(t, err)
	assert.False(t, found)

	want := createTestSession("squats", 8)
	id, err := s.InsertSession(ctx, want)
	require.NoError(t, err)
	want.ID = id

	got, found, err := s.GetSession(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, want, got)
}

func TestSumRepsForExercise_NoValueVersusZero(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	total, err := s.SumRepsForExercise(ctx, "squats")
	require.NoError(t, err)
	assert.False(t, total.Valid, "never logged must be distinct from zero")

	_, err = s.InsertSession(ctx, createTestSession("squats", 0))
	require.NoError(t, err)
	total, err = s.SumRepsForExercise(ctx, "squats")
	require.NoError(t, err)
	assert.Equal(t, model.Total{Value: 0, Valid: true}, total)

	for _, reps := range []int64{3, 7, 11} {
		_, err = s.InsertSession(ctx, createTestSession("squats", reps))
		require.NoError(t, err)
	}
	total, err = s.SumRepsForExercise(ctx, "squats")
	require.NoError(t, err)
	assert.Equal(t, model.Total{Value: 21, Valid: true}, total)

	other, err := s.SumRepsForExercise(ctx, "pushups")
	require.NoError(t, err)
	assert.False(t, other.Valid)
}

func TestSumTotalXP(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	total, err := s.SumTotalXP(ctx)
	require.NoError(t, err)
	assert.False(t, total.Valid)

	a := createTestSession("pushups", 10)
	a.TotalXP = 40
	b := createTestSession("squats", 10)
	b.TotalXP = 2
	_, err = s.InsertSession(ctx, a)
	require.NoError(t, err)
	_, err = s.InsertSession(ctx, b)
	require.NoError(t, err)

	total, err = s.SumTotalXP(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Total{Value: 42, Valid: true}, total)
}

func TestGetDaily_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, found, err := s.GetDaily(context.Background(), "2024-01-01")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRecentDaily(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	dates := []string{"2024-05-03", "2024-05-01", "2024-05-05", "2024-05-02", "2024-05-04"}
	for i, d := range dates {
		require.NoError(t, s.UpsertDaily(ctx, createTestDaily(d, int64(i))))
	}

	recent, err := s.RecentDaily(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "2024-05-05", recent[0].Date)
	assert.Equal(t, "2024-05-04", recent[1].Date)
	assert.Equal(t, "2024-05-03", recent[2].Date)

	all, err := s.RecentDaily(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	for _, limit := range []int{0, -1} {
		none, err := s.RecentDaily(ctx, limit)
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	}
}
