// Package service provides application business logic over the repositories.
package service

import (
	"context"

	"genie/internal/models"
	"genie/internal/repository"
)

// titleMaxLen is how much of the first message survives into a derived title.
const titleMaxLen = 50

// ChatService owns chat aggregate rules: title derivation and the
// ownership checks for read/update/delete. A chat that exists but belongs to
// someone else is reported as not found, deliberately indistinguishable from
// a chat that does not exist.
type ChatService struct {
	chatRepo repository.ChatRepository
}

// NewChatService returns a new ChatService.
func NewChatService(chatRepo repository.ChatRepository) *ChatService {
	return &ChatService{chatRepo: chatRepo}
}

// CreateChatInput is the input for creating a chat.
type CreateChatInput struct {
	UserID      uint
	Title       string
	Icon        string
	Model       string
	Messages    []models.Message
	LastMessage string
}

// UpdateChatInput carries a partial chat update. Nil fields are left as is.
type UpdateChatInput struct {
	Title       *string
	Icon        *string
	Model       *string
	Messages    []models.Message
	LastMessage *string
}

// DeriveTitle builds a chat title from the first message: the first 50
// characters, with "..." appended when the content is longer. Truncation
// counts runes so a multibyte message is never cut mid-character.
func DeriveTitle(msgs []models.Message) string {
	if len(msgs) == 0 {
		return "New Chat"
	}
	content := msgs[0].Content
	if runes := []rune(content); len(runes) > titleMaxLen {
		return string(runes[:titleMaxLen]) + "..."
	}
	if content == "" {
		return "New Chat"
	}
	return content
}

// Create persists a new chat for the user, deriving the title when absent.
func (s *ChatService) Create(ctx context.Context, in CreateChatInput) (*models.Chat, error) {
	title := in.Title
	if title == "" {
		title = DeriveTitle(in.Messages)
	}

	raw, err := models.EncodeMessages(in.Messages)
	if err != nil {
		return nil, models.NewValidationError("Invalid messages payload")
	}

	chat := &models.Chat{
		UserID:      in.UserID,
		Title:       title,
		Icon:        in.Icon,
		Model:       in.Model,
		Messages:    raw,
		LastMessage: in.LastMessage,
	}
	if chat.Icon == "" {
		chat.Icon = "robot"
	}
	if chat.Model == "" {
		chat.Model = models.DefaultChatModel
	}

	if err := s.chatRepo.Create(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

// GetForUser returns the chat if it exists and belongs to the user.
func (s *ChatService) GetForUser(ctx context.Context, chatID, userID uint) (*models.Chat, error) {
	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat.UserID != userID {
		return nil, models.NewNotFoundError("Chat not found")
	}
	return chat, nil
}

// UpdateForUser applies a partial update after the ownership check.
func (s *ChatService) UpdateForUser(ctx context.Context, chatID, userID uint, in UpdateChatInput) (*models.Chat, error) {
	chat, err := s.GetForUser(ctx, chatID, userID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		chat.Title = *in.Title
	}
	if in.Icon != nil {
		chat.Icon = *in.Icon
	}
	if in.Model != nil {
		chat.Model = *in.Model
	}
	if in.LastMessage != nil {
		chat.LastMessage = *in.LastMessage
	}
	if in.Messages != nil {
		raw, encErr := models.EncodeMessages(in.Messages)
		if encErr != nil {
			return nil, models.NewValidationError("Invalid messages payload")
		}
		chat.Messages = raw
	}

	if err := s.chatRepo.Update(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

// DeleteForUser removes the chat after the ownership check.
func (s *ChatService) DeleteForUser(ctx context.Context, chatID, userID uint) error {
	if _, err := s.GetForUser(ctx, chatID, userID); err != nil {
		return err
	}
	return s.chatRepo.Delete(ctx, chatID)
}

// List returns the user's chats, most recently updated first.
func (s *ChatService) List(ctx context.Context, userID uint, limit int) ([]models.Chat, error) {
	return s.chatRepo.ListByUser(ctx, userID, limit)
}
