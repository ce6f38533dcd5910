// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"genie/internal/groq"
	"genie/internal/middleware"
	"genie/internal/models"
	"genie/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	chatTemperature = 0.7
	chatMaxTokens   = 1024

	optimizerTemperature = 0.7
	optimizerMaxTokens   = 512

	// Each completion costs one credit.
	chatCreditCost = 1
)

// GroqChat handles POST /api/groq/chat. One credit is debited before the
// upstream call and refunded if the call fails.
func (s *Server) GroqChat(c *fiber.Ctx) error {
	var req struct {
		Messages []groq.ChatMessage `json:"messages"`
		Model    string             `json:"model"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if !s.groqClient.Configured() {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewUnconfiguredError("Groq API key not configured"))
	}

	if len(req.Messages) == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Messages array is required"))
	}

	model := req.Model
	if model == "" {
		model = models.DefaultChatModel
	}

	userID := s.currentUserID(c)
	if _, err := s.creditRepo.Debit(c.Context(), userID, chatCreditCost, "Chat completion"); err != nil {
		if appErr, ok := err.(*models.AppError); ok && appErr.Code == models.ErrCodeInsufficientCredits {
			return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	completion, err := s.groqClient.ChatCompletion(c.Context(), model, req.Messages, chatTemperature, chatMaxTokens)
	if err != nil {
		// The user paid for nothing; put the credit back.
		if _, refundErr := s.creditRepo.Credit(c.Context(), userID, chatCreditCost,
			models.CreditTxRefund, "Chat completion refund"); refundErr != nil {
			middleware.Logger.ErrorContext(c.UserContext(), "credit refund failed",
				"user_id", userID, "error", refundErr)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"content":     completion.Content,
		"model":       completion.Model,
		"usageTokens": completion.TotalTokens,
	})
}

// OptimizePrompt handles POST /api/prompt/optimize
func (s *Server) OptimizePrompt(c *fiber.Ctx) error {
	var req service.OptimizeRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if !s.groqClient.Configured() {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewUnconfiguredError("Groq API key not configured"))
	}

	if req.Prompt == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Prompt is required"))
	}

	messages := []groq.ChatMessage{
		{Role: "system", Content: service.OptimizerSystemPrompt()},
		{Role: "user", Content: service.RenderOptimizerMessage(req)},
	}

	completion, err := s.groqClient.ChatCompletion(c.Context(), models.DefaultChatModel,
		messages, optimizerTemperature, optimizerMaxTokens)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"optimizedPrompt": completion.Content,
	})
}
