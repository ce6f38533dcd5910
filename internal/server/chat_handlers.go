// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"genie/internal/models"
	"genie/internal/service"

	"github.com/gofiber/fiber/v2"
)

// respondChatError maps service errors to HTTP statuses. Chats that exist
// but belong to another user surface as 404, same as missing ones.
func respondChatError(c *fiber.Ctx, err error) error {
	if appErr, ok := err.(*models.AppError); ok {
		switch appErr.Code {
		case models.ErrCodeNotFound:
			return models.RespondWithError(c, fiber.StatusNotFound, appErr)
		case models.ErrCodeValidation:
			return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
		}
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError, err)
}

// GetChats handles GET /api/chats
func (s *Server) GetChats(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	chats, err := s.chatService.List(c.Context(), s.currentUserID(c), limit)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.Status(fiber.StatusOK).JSON(chats)
}

// GetChat handles GET /api/chats/:id
func (s *Server) GetChat(c *fiber.Ctx) error {
	chatID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	chat, err := s.chatService.GetForUser(c.Context(), chatID, s.currentUserID(c))
	if err != nil {
		return respondChatError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(chat)
}

// CreateChat handles POST /api/chats
func (s *Server) CreateChat(c *fiber.Ctx) error {
	var req struct {
		Title       string           `json:"title"`
		Icon        string           `json:"icon"`
		Model       string           `json:"model"`
		Messages    []models.Message `json:"messages"`
		LastMessage string           `json:"lastMessage"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	chat, err := s.chatService.Create(c.Context(), service.CreateChatInput{
		UserID:      s.currentUserID(c),
		Title:       req.Title,
		Icon:        req.Icon,
		Model:       req.Model,
		Messages:    req.Messages,
		LastMessage: req.LastMessage,
	})
	if err != nil {
		return respondChatError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(chat)
}

// UpdateChat handles PATCH /api/chats/:id
func (s *Server) UpdateChat(c *fiber.Ctx) error {
	chatID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title       *string          `json:"title"`
		Icon        *string          `json:"icon"`
		Model       *string          `json:"model"`
		Messages    []models.Message `json:"messages"`
		LastMessage *string          `json:"lastMessage"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	chat, err := s.chatService.UpdateForUser(c.Context(), chatID, s.currentUserID(c), service.UpdateChatInput{
		Title:       req.Title,
		Icon:        req.Icon,
		Model:       req.Model,
		Messages:    req.Messages,
		LastMessage: req.LastMessage,
	})
	if err != nil {
		return respondChatError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(chat)
}

// DeleteChat handles DELETE /api/chats/:id
func (s *Server) DeleteChat(c *fiber.Ctx) error {
	chatID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.chatService.DeleteForUser(c.Context(), chatID, s.currentUserID(c)); err != nil {
		return respondChatError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Chat deleted successfully",
	})
}
