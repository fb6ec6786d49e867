package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dangerclosesec/transpiler/internal/domain"
	"github.com/dangerclosesec/transpiler/internal/model"
	"github.com/dangerclosesec/transpiler/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTranslationRepository(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryTranslationRepository(3)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	var ids []uuid.UUID
	for i, status := range []string{model.StatusSuccess, model.StatusFailed, model.StatusSuccess, model.StatusFailed} {
		tr := &model.Translation{
			SourceName: "Main.java",
			Status:     status,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(ctx, tr))
		assert.NotEqual(t, uuid.Nil, tr.ID)
		ids = append(ids, tr.ID)
	}

	t.Run("oldest records are evicted", func(t *testing.T) {
		_, err := repo.FindByID(ctx, ids[0])
		assert.True(t, errors.Is(err, domain.ErrNotFound))

		found, err := repo.FindByID(ctx, ids[3])
		require.NoError(t, err)
		assert.Equal(t, model.StatusFailed, found.Status)
	})

	t.Run("query filters and orders newest first", func(t *testing.T) {
		items, total, err := repo.Query(ctx, repository.QueryParams{Status: model.StatusFailed})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, items, 2)
		assert.Equal(t, ids[3], items[0].ID)
		assert.Equal(t, ids[1], items[1].ID)
	})

	t.Run("pagination", func(t *testing.T) {
		items, total, err := repo.Query(ctx, repository.QueryParams{Limit: 1, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, items, 1)
		assert.Equal(t, ids[2], items[0].ID)

		items, _, err = repo.Query(ctx, repository.QueryParams{Offset: 10})
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("time window", func(t *testing.T) {
		items, _, err := repo.Query(ctx, repository.QueryParams{EndTime: base.Add(90 * time.Second)})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, ids[1], items[0].ID)
	})
}
