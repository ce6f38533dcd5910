// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"genie/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GenerateVideo handles POST /api/video/generate
func (s *Server) GenerateVideo(c *fiber.Ctx) error {
	var req struct {
		Prompt string `json:"prompt"`
		Model  string `json:"model"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if !s.minimaxClient.Configured() {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewUnconfiguredError("MiniMax API key not configured"))
	}

	if req.Prompt == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Prompt is required"))
	}

	taskID, err := s.minimaxClient.GenerateVideo(c.Context(), req.Prompt, req.Model)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"taskId": taskID})
}

// VideoStatus handles GET /api/video/status/:taskId
func (s *Server) VideoStatus(c *fiber.Ctx) error {
	taskID := c.Params("taskId")
	if taskID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Task ID is required"))
	}

	if !s.minimaxClient.Configured() {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewUnconfiguredError("MiniMax API key not configured"))
	}

	status, err := s.minimaxClient.QueryTask(c.Context(), taskID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.Status(fiber.StatusOK).JSON(status)
}

// VideoDownload handles GET /api/video/download/:fileId
func (s *Server) VideoDownload(c *fiber.Ctx) error {
	fileID := c.Params("fileId")
	if fileID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("File ID is required"))
	}

	if !s.minimaxClient.Configured() {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewUnconfiguredError("MiniMax API key not configured"))
	}

	downloadURL, err := s.minimaxClient.RetrieveFile(c.Context(), fileID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"downloadUrl": downloadURL})
}
