// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"strings"

	"genie/internal/cache"
	"genie/internal/middleware"
	"genie/internal/models"
	"genie/internal/oauth"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GoogleAuth handles GET /api/auth/google
func (s *Server) GoogleAuth(c *fiber.Ctx) error {
	if !s.googleOAuth.Enabled() {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewUnconfiguredError("Google sign-in not configured"))
	}

	state, err := s.issueOAuthState(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.Redirect(s.googleOAuth.AuthURL(state), fiber.StatusTemporaryRedirect)
}

// GoogleCallback handles GET /api/auth/google/callback
func (s *Server) GoogleCallback(c *fiber.Ctx) error {
	if !s.googleOAuth.Enabled() {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewUnconfiguredError("Google sign-in not configured"))
	}
	if !s.consumeOAuthState(c, c.Query("state")) {
		return c.Redirect("/login", fiber.StatusTemporaryRedirect)
	}

	code := c.Query("code")
	if code == "" {
		return c.Redirect("/login", fiber.StatusTemporaryRedirect)
	}

	profile, err := s.googleOAuth.Exchange(c.Context(), code)
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "google oauth exchange failed", "error", err)
		return c.Redirect("/login", fiber.StatusTemporaryRedirect)
	}

	return s.finishOAuthLogin(c, profile)
}

// AppleAuth handles GET /api/auth/apple
func (s *Server) AppleAuth(c *fiber.Ctx) error {
	if !s.appleOAuth.Enabled() {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewUnconfiguredError("Apple sign-in not configured"))
	}

	state, err := s.issueOAuthState(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.Redirect(s.appleOAuth.AuthURL(state), fiber.StatusTemporaryRedirect)
}

// AppleCallback handles POST /api/auth/apple/callback. Apple delivers the
// code via form_post, hence the method.
func (s *Server) AppleCallback(c *fiber.Ctx) error {
	if !s.appleOAuth.Enabled() {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewUnconfiguredError("Apple sign-in not configured"))
	}
	if !s.consumeOAuthState(c, c.FormValue("state")) {
		return c.Redirect("/login", fiber.StatusTemporaryRedirect)
	}

	code := c.FormValue("code")
	if code == "" {
		return c.Redirect("/login", fiber.StatusTemporaryRedirect)
	}

	profile, err := s.appleOAuth.Exchange(c.Context(), code)
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "apple oauth exchange failed", "error", err)
		return c.Redirect("/login", fiber.StatusTemporaryRedirect)
	}

	return s.finishOAuthLogin(c, profile)
}

// issueOAuthState mints a CSRF state token and parks it in Redis for the
// duration of the provider round trip.
func (s *Server) issueOAuthState(c *fiber.Ctx) (string, error) {
	state := uuid.New().String()
	if s.redis != nil {
		if err := s.redis.Set(c.Context(), cache.OAuthStateKey(state), "1", cache.OAuthStateTTL).Err(); err != nil {
			return "", err
		}
	}
	return state, nil
}

// consumeOAuthState validates and burns a state token. Without Redis the
// check is skipped; the flow still works, just without replay protection.
func (s *Server) consumeOAuthState(c *fiber.Ctx, state string) bool {
	if s.redis == nil {
		return state != ""
	}
	if state == "" {
		return false
	}
	deleted, err := s.redis.Del(c.Context(), cache.OAuthStateKey(state)).Result()
	return err == nil && deleted > 0
}

// finishOAuthLogin finds or creates the account for an exchanged profile and
// installs the session cookie.
func (s *Server) finishOAuthLogin(c *fiber.Ctx, profile *oauth.Profile) error {
	user, err := s.userRepo.GetByEmail(c.Context(), profile.Email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if user == nil {
		username := profile.Name
		if username == "" {
			username, _, _ = strings.Cut(profile.Email, "@")
		}

		// OAuth accounts carry an empty password and the same free grant
		// as password signups.
		user = &models.User{
			Username:        username,
			Email:           profile.Email,
			Password:        "",
			Credits:         models.SignupCreditGrant,
			Plan:            models.PlanBasic,
			ProfileImageURL: profile.PictureURL,
		}
		if createErr := s.userRepo.Create(c.Context(), user); createErr != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, createErr)
		}
		if grantErr := s.creditRepo.RecordGrant(c.Context(), user.ID, models.SignupCreditGrant, "Signup bonus"); grantErr != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, grantErr)
		}
	}

	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	s.setAuthCookie(c, token)

	return c.Redirect("/", fiber.StatusTemporaryRedirect)
}
