package service

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"genie/internal/models"
	"genie/internal/repository"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(&models.User{}, &models.Chat{})
	if err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func TestDeriveTitle(t *testing.T) {
	t.Run("Short message is used verbatim", func(t *testing.T) {
		title := DeriveTitle([]models.Message{{Role: "user", Content: "Hello there"}})
		assert.Equal(t, "Hello there", title)
	})

	t.Run("Long message is truncated with ellipsis", func(t *testing.T) {
		content := strings.Repeat("a", 60)
		title := DeriveTitle([]models.Message{{Role: "user", Content: content}})
		assert.Equal(t, content[:50]+"...", title)
		assert.Len(t, title, 53)
	})

	t.Run("Multibyte message is truncated on rune boundaries", func(t *testing.T) {
		content := strings.Repeat("🎬", 60)
		title := DeriveTitle([]models.Message{{Role: "user", Content: content}})
		assert.Equal(t, strings.Repeat("🎬", 50)+"...", title)
		assert.True(t, utf8.ValidString(title))
		assert.Equal(t, 53, utf8.RuneCountInString(title))
	})

	t.Run("Exactly fifty chars keeps no ellipsis", func(t *testing.T) {
		content := strings.Repeat("b", 50)
		title := DeriveTitle([]models.Message{{Role: "user", Content: content}})
		assert.Equal(t, content, title)
	})

	t.Run("No messages falls back to default", func(t *testing.T) {
		assert.Equal(t, "New Chat", DeriveTitle(nil))
	})
}

func TestChatService_Create(t *testing.T) {
	db := setupTestDB(t)
	svc := NewChatService(repository.NewChatRepository(db))
	ctx := context.Background()

	user := &models.User{Username: "alice", Email: "alice@example.com", Password: "x"}
	db.Create(user)

	t.Run("Derives title from first message", func(t *testing.T) {
		chat, err := svc.Create(ctx, CreateChatInput{
			UserID:   user.ID,
			Messages: []models.Message{{Role: "user", Content: "Tell me about black holes"}},
		})
		assert.NoError(t, err)
		assert.Equal(t, "Tell me about black holes", chat.Title)
		assert.Equal(t, "robot", chat.Icon)
		assert.Equal(t, models.DefaultChatModel, chat.Model)
	})

	t.Run("Explicit title wins", func(t *testing.T) {
		chat, err := svc.Create(ctx, CreateChatInput{
			UserID:   user.ID,
			Title:    "My chat",
			Messages: []models.Message{{Role: "user", Content: "something else"}},
		})
		assert.NoError(t, err)
		assert.Equal(t, "My chat", chat.Title)
	})

	t.Run("Messages round trip through storage", func(t *testing.T) {
		msgs := []models.Message{
			{Role: "user", Content: "hi"},
			{Role: "assistant", Content: "hello"},
		}
		chat, err := svc.Create(ctx, CreateChatInput{UserID: user.ID, Messages: msgs})
		assert.NoError(t, err)

		got, err := svc.GetForUser(ctx, chat.ID, user.ID)
		assert.NoError(t, err)
		decoded, err := got.DecodeMessages()
		assert.NoError(t, err)
		assert.Equal(t, msgs, decoded)
	})
}

func TestChatService_Ownership(t *testing.T) {
	db := setupTestDB(t)
	svc := NewChatService(repository.NewChatRepository(db))
	ctx := context.Background()

	owner := &models.User{Username: "owner", Email: "owner@example.com", Password: "x"}
	other := &models.User{Username: "other", Email: "other@example.com", Password: "x"}
	db.Create(owner)
	db.Create(other)

	chat, err := svc.Create(ctx, CreateChatInput{
		UserID:   owner.ID,
		Messages: []models.Message{{Role: "user", Content: "private"}},
	})
	if err != nil {
		t.Fatalf("Failed to create chat: %v", err)
	}

	assertNotFound := func(t *testing.T, err error) {
		t.Helper()
		var appErr *models.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.ErrCodeNotFound, appErr.Code)
	}

	t.Run("Get by non-owner reports not found", func(t *testing.T) {
		_, err := svc.GetForUser(ctx, chat.ID, other.ID)
		assertNotFound(t, err)
	})

	t.Run("Update by non-owner reports not found", func(t *testing.T) {
		title := "hijacked"
		_, err := svc.UpdateForUser(ctx, chat.ID, other.ID, UpdateChatInput{Title: &title})
		assertNotFound(t, err)

		got, err := svc.GetForUser(ctx, chat.ID, owner.ID)
		assert.NoError(t, err)
		assert.Equal(t, "private", got.Title)
	})

	t.Run("Delete by non-owner reports not found", func(t *testing.T) {
		err := svc.DeleteForUser(ctx, chat.ID, other.ID)
		assertNotFound(t, err)

		_, err = svc.GetForUser(ctx, chat.ID, owner.ID)
		assert.NoError(t, err)
	})

	t.Run("Missing chat reports not found", func(t *testing.T) {
		_, err := svc.GetForUser(ctx, 9999, owner.ID)
		assertNotFound(t, err)
	})
}

func TestChatService_UpdateAndList(t *testing.T) {
	db := setupTestDB(t)
	svc := NewChatService(repository.NewChatRepository(db))
	ctx := context.Background()

	user := &models.User{Username: "bob", Email: "bob@example.com", Password: "x"}
	db.Create(user)

	chat, err := svc.Create(ctx, CreateChatInput{
		UserID:   user.ID,
		Messages: []models.Message{{Role: "user", Content: "first"}},
	})
	if err != nil {
		t.Fatalf("Failed to create chat: %v", err)
	}

	t.Run("Partial update leaves other fields alone", func(t *testing.T) {
		last := "latest reply"
		updated, err := svc.UpdateForUser(ctx, chat.ID, user.ID, UpdateChatInput{LastMessage: &last})
		assert.NoError(t, err)
		assert.Equal(t, "latest reply", updated.LastMessage)
		assert.Equal(t, "first", updated.Title)
	})

	t.Run("List returns the user's chats", func(t *testing.T) {
		chats, err := svc.List(ctx, user.ID, 0)
		assert.NoError(t, err)
		assert.Len(t, chats, 1)
	})

	t.Run("Delete removes the chat", func(t *testing.T) {
		err := svc.DeleteForUser(ctx, chat.ID, user.ID)
		assert.NoError(t, err)

		chats, err := svc.List(ctx, user.ID, 0)
		assert.NoError(t, err)
		assert.Empty(t, chats)
	})
}
