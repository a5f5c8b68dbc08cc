package adapters

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"referearn_backend/internal/feature/account/domain/entity"
	"referearn_backend/internal/feature/account/usecase"
)

var repoNow = time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)

func newTestSessionRepository(t *testing.T) (*sessionRepository, *gorm.DB) {
	t.Helper()
	gdb := setupTestDB(t)
	repo := NewSessionRepository(gdb)
	repo.now = func() time.Time { return repoNow }
	return repo, gdb
}

// seedSession creates a session directly in the table.
func seedSession(t *testing.T, gdb *gorm.DB, id string, userID uint, createdAt, expiresAt time.Time, revokedAt *time.Time) {
	t.Helper()

	err := gdb.Create(&SessionModel{
		ID:        id,
		UserID:    userID,
		UserAgent: "test-agent",
		IPAddress: "127.0.0.1",
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
		RevokedAt: revokedAt,
	}).Error
	require.NoError(t, err, "failed to seed session")
}

func TestSessionRepository_CreateAndFind(t *testing.T) {
	t.Parallel()

	repo, _ := newTestSessionRepository(t)
	ctx := context.Background()
	s := &entity.Session{
		ID:        "sess-1",
		UserID:    1,
		UserAgent: "Mozilla/5.0",
		IPAddress: "192.168.1.1",
		CreatedAt: repoNow,
		ExpiresAt: repoNow.Add(7 * 24 * time.Hour),
	}

	require.NoError(t, repo.Create(ctx, s))
	assert.Error(t, repo.Create(ctx, s), "duplicate id must fail")

	got, err := repo.FindByID(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, s.UserID, got.UserID)
	assert.Equal(t, s.UserAgent, got.UserAgent)
	assert.True(t, got.ExpiresAt.Equal(s.ExpiresAt))
	assert.Nil(t, got.RevokedAt)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
}

func TestSessionRepository_Revoke(t *testing.T) {
	t.Parallel()

	repo, gdb := newTestSessionRepository(t)
	ctx := context.Background()
	seedSession(t, gdb, "sess-1", 1, repoNow, repoNow.Add(time.Hour), nil)

	require.NoError(t, repo.Revoke(ctx, "sess-1"))

	got, err := repo.FindByID(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, got.RevokedAt)
	assert.True(t, got.RevokedAt.Equal(repoNow))

	assert.ErrorIs(t, repo.Revoke(ctx, "sess-1"), usecase.ErrSessionRevoked)
	assert.ErrorIs(t, repo.Revoke(ctx, "missing"), usecase.ErrSessionNotFound)
}

func TestSessionRepository_Revoke_SingleWinner(t *testing.T) {
	t.Parallel()

	repo, gdb := newTestSessionRepository(t)
	ctx := context.Background()
	seedSession(t, gdb, "sess-1", 1, repoNow, repoNow.Add(time.Hour), nil)

	const callers = 8
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.Revoke(ctx, "sess-1")
		}()
	}
	wg.Wait()
	close(errs)

	won := 0
	for err := range errs {
		if err == nil {
			won++
			continue
		}
		assert.ErrorIs(t, err, usecase.ErrSessionRevoked)
	}
	assert.Equal(t, 1, won)
}

func TestSessionRepository_RevokeAllByUserID(t *testing.T) {
	t.Parallel()

	repo, gdb := newTestSessionRepository(t)
	ctx := context.Background()
	seedSession(t, gdb, "a", 1, repoNow, repoNow.Add(time.Hour), nil)
	seedSession(t, gdb, "b", 1, repoNow, repoNow.Add(time.Hour), nil)
	seedSession(t, gdb, "c", 2, repoNow, repoNow.Add(time.Hour), nil)

	require.NoError(t, repo.RevokeAllByUserID(ctx, 1))

	count, err := repo.CountByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, count)
	count, err = repo.CountByUserID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSessionRepository_CountByUserID(t *testing.T) {
	t.Parallel()

	repo, gdb := newTestSessionRepository(t)
	revoked := repoNow.Add(-time.Minute)
	seedSession(t, gdb, "active", 1, repoNow, repoNow.Add(time.Hour), nil)
	seedSession(t, gdb, "expired", 1, repoNow.Add(-2*time.Hour), repoNow.Add(-time.Hour), nil)
	seedSession(t, gdb, "revoked", 1, repoNow, repoNow.Add(time.Hour), &revoked)

	count, err := repo.CountByUserID(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSessionRepository_DeleteOldestByUserID(t *testing.T) {
	t.Parallel()

	repo, gdb := newTestSessionRepository(t)
	ctx := context.Background()
	seedSession(t, gdb, "newer", 1, repoNow.Add(-time.Minute), repoNow.Add(time.Hour), nil)
	seedSession(t, gdb, "oldest", 1, repoNow.Add(-time.Hour), repoNow.Add(time.Hour), nil)

	require.NoError(t, repo.DeleteOldestByUserID(ctx, 1))

	_, err := repo.FindByID(ctx, "oldest")
	assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
	_, err = repo.FindByID(ctx, "newer")
	assert.NoError(t, err)

	assert.NoError(t, repo.DeleteOldestByUserID(ctx, 42), "no sessions is not an error")
}

func TestSessionModelFromEntity_Truncates(t *testing.T) {
	t.Parallel()

	long := make([]byte, 600)
	for i := range long {
		long[i] = 'a'
	}
	m := SessionModelFromEntity(&entity.Session{ID: "x", UserAgent: string(long)})

	assert.Len(t, m.UserAgent, 512)
}
