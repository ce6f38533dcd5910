// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"genie/internal/middleware"
	"genie/internal/models"
	"genie/internal/payments"
	"genie/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"
)

// StripeStatus handles GET /api/stripe/status
func (s *Server) StripeStatus(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"configured":       s.stripeService.Configured(),
		"hasSecretKey":     s.stripeService.HasSecretKey(),
		"hasWebhookSecret": s.stripeService.HasWebhookSecret(),
	})
}

// CreateCheckout handles POST /api/create-checkout
func (s *Server) CreateCheckout(c *fiber.Ctx) error {
	if !s.stripeService.HasSecretKey() {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewUnconfiguredError("Stripe not configured"))
	}

	var req struct {
		PlanID      string  `json:"planId"`
		PriceAmount float64 `json:"priceAmount"`
		Credits     int     `json:"credits"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.PlanID == "" || req.PriceAmount <= 0 || req.Credits <= 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Plan ID, price amount, and credits are required"))
	}

	checkoutURL, err := s.stripeService.CreateCheckout(payments.CheckoutInput{
		UserID:      s.currentUserID(c),
		PlanID:      req.PlanID,
		PriceAmount: req.PriceAmount,
		Credits:     req.Credits,
	})
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "stripe checkout failed", "error", err)
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(errors.New("failed to create checkout session")))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"checkoutUrl": checkoutURL})
}

// StripeWebhook handles POST /api/webhook/stripe. Events are verified against
// the signing secret and recorded by event ID, so a redelivered event cannot
// apply a purchase twice.
func (s *Server) StripeWebhook(c *fiber.Ctx) error {
	if !s.stripeService.HasSecretKey() {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewUnconfiguredError("Stripe not configured"))
	}
	if !s.stripeService.HasWebhookSecret() {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewUnconfiguredError("Stripe webhook secret not configured"))
	}

	event, err := s.stripeService.ConstructEvent(c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Webhook signature verification failed"))
	}

	if event.Type == "checkout.session.completed" {
		if err := s.handleCheckoutCompleted(c, event); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true})
}

// errEventAlreadyProcessed signals that an earlier delivery of the same
// event won the claim and the purchase was applied then.
var errEventAlreadyProcessed = errors.New("event already processed")

// handleCheckoutCompleted applies a paid checkout session: claim the event
// ID, upgrade the plan, and credit the purchased amount. All three run in
// one DB transaction, so a failed apply rolls the claim back and a Stripe
// redelivery gets a clean retry.
func (s *Server) handleCheckoutCompleted(c *fiber.Ctx, event stripe.Event) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return models.NewInternalError(err)
	}

	if session.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return nil
	}

	userID, _ := strconv.ParseUint(session.Metadata["userId"], 10, 32)
	planID := session.Metadata["planId"]
	credits, _ := strconv.Atoi(session.Metadata["credits"])
	if userID == 0 || planID == "" || credits <= 0 {
		middleware.Logger.WarnContext(c.UserContext(), "checkout session missing metadata",
			"event_id", event.ID)
		return nil
	}

	err := s.db.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		// Claim the event ID first. A duplicate delivery loses the insert
		// and the purchase is not applied again.
		record := models.PaymentEvent{EventID: event.ID, Type: string(event.Type)}
		if err := tx.Create(&record).Error; err != nil {
			if isDuplicateEventError(err) {
				return errEventAlreadyProcessed
			}
			return models.NewInternalError(err)
		}

		if _, err := repository.NewUserRepository(tx).UpdatePlan(c.Context(), uint(userID), planID); err != nil {
			return err
		}
		if _, err := repository.NewCreditRepository(tx).Credit(c.Context(), uint(userID), credits,
			models.CreditTxPurchase, planID+" plan purchase"); err != nil {
			return err
		}
		return nil
	})
	if errors.Is(err, errEventAlreadyProcessed) {
		middleware.Logger.InfoContext(c.UserContext(), "duplicate stripe event skipped",
			"event_id", event.ID)
		return nil
	}
	if err != nil {
		return err
	}

	middleware.Logger.InfoContext(c.UserContext(), "plan purchase applied",
		"user_id", userID, "plan", planID, "credits", credits)
	return nil
}

func isDuplicateEventError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
