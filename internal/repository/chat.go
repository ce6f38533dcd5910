package repository

import (
	"context"
	"errors"

	"genie/internal/models"

	"gorm.io/gorm"
)

// ChatRepository defines persistence operations for chats. Ownership checks
// belong to the service layer; this layer only moves rows.
type ChatRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Chat, error)
	ListByUser(ctx context.Context, userID uint, limit int) ([]models.Chat, error)
	Create(ctx context.Context, chat *models.Chat) error
	Update(ctx context.Context, chat *models.Chat) error
	Delete(ctx context.Context, id uint) error
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository returns a new ChatRepository implementation.
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) GetByID(ctx context.Context, id uint) (*models.Chat, error) {
	var chat models.Chat
	if err := r.db.WithContext(ctx).First(&chat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Chat not found")
		}
		return nil, models.NewInternalError(err)
	}
	return &chat, nil
}

func (r *chatRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]models.Chat, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	var chats []models.Chat
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Limit(limit).
		Find(&chats).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return chats, nil
}

func (r *chatRepository) Create(ctx context.Context, chat *models.Chat) error {
	if err := r.db.WithContext(ctx).Create(chat).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *chatRepository) Update(ctx context.Context, chat *models.Chat) error {
	if err := r.db.WithContext(ctx).Save(chat).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *chatRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Chat{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
