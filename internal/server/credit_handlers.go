// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"genie/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetCredits handles GET /api/credits
func (s *Server) GetCredits(c *fiber.Ctx) error {
	credits, err := s.creditRepo.Balance(c.Context(), s.currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"credits": credits})
}

// GetCreditTransactions handles GET /api/credits/transactions
func (s *Server) GetCreditTransactions(c *fiber.Ctx) error {
	txs, err := s.creditRepo.Transactions(c.Context(), s.currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.Status(fiber.StatusOK).JSON(txs)
}

// DeductCredits handles POST /api/credits/deduct
func (s *Server) DeductCredits(c *fiber.Ctx) error {
	var req struct {
		Amount int `json:"amount"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Amount <= 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Amount must be positive"))
	}

	credits, err := s.creditRepo.Debit(c.Context(), s.currentUserID(c), req.Amount, "API usage")
	if err != nil {
		if appErr, ok := err.(*models.AppError); ok && appErr.Code == models.ErrCodeInsufficientCredits {
			return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"credits": credits})
}

// AddCredits handles POST /api/credits/add
func (s *Server) AddCredits(c *fiber.Ctx) error {
	var req struct {
		Amount int `json:"amount"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Amount <= 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Amount must be positive"))
	}

	credits, err := s.creditRepo.Credit(c.Context(), s.currentUserID(c), req.Amount,
		models.CreditTxPurchase, "Credit purchase")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"credits": credits})
}
