// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"genie/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetPrompts handles GET /api/prompts. With ?featured=true only the curated
// featured set is returned.
func (s *Server) GetPrompts(c *fiber.Ctx) error {
	var (
		prompts []models.Prompt
		err     error
	)
	if c.Query("featured") == "true" {
		prompts, err = s.promptRepo.ListFeatured(c.Context())
	} else {
		prompts, err = s.promptRepo.List(c.Context())
	}
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.Status(fiber.StatusOK).JSON(prompts)
}
