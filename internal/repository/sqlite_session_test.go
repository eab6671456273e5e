package repository

import (
	"context"
	"testing"
	"time"

	"github.com/media2net-app/byeauto/internal/domain"
	"github.com/media2net-app/byeauto/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepo_CreateAndGetByID(t *testing.T) {
	repo := NewSQLiteSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	sess := testutil.NewTestSession("wi-1", 90*time.Second, testutil.WithPaused(10*time.Second))
	require.NoError(t, repo.Create(ctx, sess))

	got, err := repo.GetByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, "wi-1", got.WorkItemID)
	assert.Equal(t, 90*time.Second, got.Elapsed)
	assert.Equal(t, 10*time.Second, got.Paused)
	assert.True(t, sess.StartedAt.Equal(got.StartedAt))
	assert.True(t, sess.EndedAt.Equal(got.EndedAt))
	assert.InDelta(t, 0.025, got.Hours(), 1e-9)
}

func TestSessionRepo_GetByID_NotFound(t *testing.T) {
	repo := NewSQLiteSessionRepo(testutil.NewTestDB(t))

	_, err := repo.GetByID(context.Background(), "nonexistent-id")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionRepo_ListByWorkItem(t *testing.T) {
	repo := NewSQLiteSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	base := time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC)
	s1 := testutil.NewTestSession("wi-1", 30*time.Minute, testutil.WithStartedAt(base.Add(2*time.Hour)))
	s2 := testutil.NewTestSession("wi-1", 45*time.Minute, testutil.WithStartedAt(base))
	other := testutil.NewTestSession("wi-2", time.Hour, testutil.WithStartedAt(base))
	require.NoError(t, repo.Create(ctx, s1))
	require.NoError(t, repo.Create(ctx, s2))
	require.NoError(t, repo.Create(ctx, other))

	sessions, err := repo.ListByWorkItem(ctx, "wi-1")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, s2.ID, sessions[0].ID, "oldest session first")
	assert.Equal(t, s1.ID, sessions[1].ID)
}

func TestSessionRepo_ListSince(t *testing.T) {
	repo := NewSQLiteSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	now := time.Now().UTC()
	old := testutil.NewTestSession("wi-1", time.Hour, testutil.WithStartedAt(now.AddDate(0, 0, -10)))
	recent := testutil.NewTestSession("wi-1", time.Hour, testutil.WithStartedAt(now.Add(-3*time.Hour)))
	latest := testutil.NewTestSession("wi-2", time.Minute, testutil.WithStartedAt(now.Add(-time.Hour)))
	for _, s := range []*domain.WorkSession{old, recent, latest} {
		require.NoError(t, repo.Create(ctx, s))
	}

	sessions, err := repo.ListSince(ctx, now.AddDate(0, 0, -1))
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, latest.ID, sessions[0].ID, "newest first")
	assert.Equal(t, recent.ID, sessions[1].ID)
}

func TestSessionRepo_NegativeElapsedRejected(t *testing.T) {
	repo := NewSQLiteSessionRepo(testutil.NewTestDB(t))
	sess := testutil.NewTestSession("wi-1", time.Minute)
	sess.Elapsed = -time.Second

	assert.Error(t, repo.Create(context.Background(), sess))
}

func TestSessionRepo_ReadsSecondPrecisionRows(t *testing.T) {
	database := testutil.NewTestDB(t)
	_, err := database.Exec(`INSERT INTO work_sessions (id, work_item_id, started_at, ended_at, elapsed_ms, created_at)
		VALUES ('old', 'w1', '2025-01-01T08:00:00Z', '2025-01-01T08:30:00Z', 1800000, '2025-01-01T08:30:00Z')`)
	require.NoError(t, err)

	got, err := NewSQLiteSessionRepo(database).GetByID(context.Background(), "old")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, got.Elapsed)
	assert.Equal(t, time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC), got.StartedAt)
}
