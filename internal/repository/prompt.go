package repository

import (
	"context"

	"genie/internal/cache"
	"genie/internal/models"

	"gorm.io/gorm"
)

// featuredPromptLimit caps the featured list shown on the landing grid.
const featuredPromptLimit = 4

// PromptRepository serves the prompt library. Rows are seeded at bootstrap
// and read-only afterwards, so both listings are cache-aside candidates.
type PromptRepository interface {
	List(ctx context.Context) ([]models.Prompt, error)
	ListFeatured(ctx context.Context) ([]models.Prompt, error)
	Count(ctx context.Context) (int64, error)
	CreateBatch(ctx context.Context, prompts []models.Prompt) error
}

type promptRepository struct {
	db *gorm.DB
}

// NewPromptRepository returns a new PromptRepository implementation.
func NewPromptRepository(db *gorm.DB) PromptRepository {
	return &promptRepository{db: db}
}

func (r *promptRepository) List(ctx context.Context) ([]models.Prompt, error) {
	var prompts []models.Prompt
	err := cache.Aside(ctx, cache.PromptListKey, &prompts, cache.PromptTTL, func() error {
		if err := r.db.WithContext(ctx).Find(&prompts).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return prompts, nil
}

func (r *promptRepository) ListFeatured(ctx context.Context) ([]models.Prompt, error) {
	var prompts []models.Prompt
	err := cache.Aside(ctx, cache.FeaturedPromptsKey, &prompts, cache.PromptTTL, func() error {
		if err := r.db.WithContext(ctx).
			Where("featured = ?", true).
			Limit(featuredPromptLimit).
			Find(&prompts).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return prompts, nil
}

func (r *promptRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Prompt{}).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *promptRepository) CreateBatch(ctx context.Context, prompts []models.Prompt) error {
	if len(prompts) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&prompts).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePrompts(ctx)
	return nil
}
