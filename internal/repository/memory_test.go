package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

func TestMemorySessionRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Stored session is returned as an independent copy", func(t *testing.T) {
		// Given: a stored session
		repo := NewMemorySessionRepository(time.Hour)
		session := entity.NewSession("abc", entity.ModeTwoPlayer)
		require.NoError(t, repo.CreateOrUpdate(ctx, session))

		// When: the caller mutates its own copy after saving
		session.History.Append(entity.Board{entity.PlayerX})

		// Then: the stored session still holds only the empty board
		stored, err := repo.GetByID(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, 1, stored.History.Len())
		assert.Equal(t, entity.ModeTwoPlayer, stored.Mode)
	})

	t.Run("Unknown session is not found", func(t *testing.T) {
		repo := NewMemorySessionRepository(time.Hour)

		_, err := repo.GetByID(ctx, "missing")

		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("Delete removes the session", func(t *testing.T) {
		// Given: a stored session
		repo := NewMemorySessionRepository(time.Hour)
		require.NoError(t, repo.CreateOrUpdate(ctx, entity.NewSession("abc", entity.ModeVsRemote)))

		// When: deleting it twice
		errFirst := repo.DeleteByID(ctx, "abc")
		errSecond := repo.DeleteByID(ctx, "abc")

		// Then: the second delete reports it missing
		require.NoError(t, errFirst)
		require.ErrorIs(t, errSecond, apperror.ErrSessionNotFound)
	})

	t.Run("Expired session is not found", func(t *testing.T) {
		// Given: a repository with a controllable clock
		repo := NewMemorySessionRepository(time.Minute).(*memSession)
		now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		repo.now = func() time.Time { return now }
		require.NoError(t, repo.CreateOrUpdate(ctx, entity.NewSession("abc", entity.ModeTwoPlayer)))

		// When: the ttl elapses
		now = now.Add(time.Minute)

		// Then: the session is gone
		_, err := repo.GetByID(ctx, "abc")
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})
}
