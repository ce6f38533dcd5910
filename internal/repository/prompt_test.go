package repository

import (
	"context"
	"fmt"
	"testing"

	"genie/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPromptRepository(db)
	ctx := context.Background()

	t.Run("Count on empty table", func(t *testing.T) {
		count, err := repo.Count(ctx)
		assert.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("CreateBatch with no rows is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.CreateBatch(ctx, nil))
	})

	var batch []models.Prompt
	for i := 0; i < 6; i++ {
		batch = append(batch, models.Prompt{
			Title:       fmt.Sprintf("Prompt %d", i),
			Description: "Template",
			Content:     "Make a video about {{topic}}",
			Category:    "video",
			Featured:    i < 5,
		})
	}

	t.Run("CreateBatch", func(t *testing.T) {
		require.NoError(t, repo.CreateBatch(ctx, batch))

		count, err := repo.Count(ctx)
		assert.NoError(t, err)
		assert.Equal(t, int64(6), count)
	})

	t.Run("List returns the whole library", func(t *testing.T) {
		prompts, err := repo.List(ctx)
		assert.NoError(t, err)
		assert.Len(t, prompts, 6)
	})

	t.Run("ListFeatured caps at four", func(t *testing.T) {
		prompts, err := repo.ListFeatured(ctx)
		assert.NoError(t, err)
		assert.Len(t, prompts, featuredPromptLimit)
		for _, p := range prompts {
			assert.True(t, p.Featured)
		}
	})
}
