// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"genie/internal/config"
	"genie/internal/groq"
	"genie/internal/middleware"
	"genie/internal/minimax"
	"genie/internal/models"
	"genie/internal/oauth"
	"genie/internal/payments"
	"genie/internal/repository"
	"genie/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	creditRepo     repository.CreditRepository
	chatRepo       repository.ChatRepository
	promptRepo     repository.PromptRepository
	chatService    *service.ChatService
	groqClient     *groq.Client
	minimaxClient  *minimax.Client
	stripeService  *payments.Service
	googleOAuth    *oauth.GoogleProvider
	appleOAuth     *oauth.AppleProvider
}

// NewServerWithDeps creates a Server from already-initialized dependencies.
// The bootstrap layer (or a test) establishes DB/Redis and performs any
// explicit seeding before calling this.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	creditRepo := repository.NewCreditRepository(db)
	chatRepo := repository.NewChatRepository(db)
	promptRepo := repository.NewPromptRepository(db)

	prom := middleware.InitMetrics("genie-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       userRepo,
		creditRepo:     creditRepo,
		chatRepo:       chatRepo,
		promptRepo:     promptRepo,
		groqClient:     groq.NewClient(cfg.GroqAPIKey),
		minimaxClient:  minimax.NewClient(cfg.MiniMaxAPIKey),
		stripeService:  payments.NewService(cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.CallbackURL),
		googleOAuth:    oauth.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.CallbackURL),
		appleOAuth:     oauth.NewApple(cfg.AppleClientID, cfg.AppleTeamID, cfg.AppleKeyID, cfg.ApplePrivateKey, cfg.CallbackURL),
	}
	server.chatService = service.NewChatService(chatRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on error
	// responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Genie Backend Metrics Dashboard",
	}))

	// Auth routes
	api.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	api.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	api.Post("/logout", s.Logout)
	api.Get("/auth/user", s.AuthRequired(), s.GetAuthUser)

	// OAuth routes
	api.Get("/auth/google", s.GoogleAuth)
	api.Get("/auth/google/callback", s.GoogleCallback)
	api.Get("/auth/apple", s.AppleAuth)
	api.Post("/auth/apple/callback", s.AppleCallback)

	// Prompt library (public)
	api.Get("/prompts", s.GetPrompts)

	// Stripe configuration status (public) and webhook (signature-verified)
	api.Get("/stripe/status", s.StripeStatus)
	api.Post("/webhook/stripe", s.StripeWebhook)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	// Credit routes
	credits := protected.Group("/credits")
	credits.Get("/", s.GetCredits)
	credits.Get("/transactions", s.GetCreditTransactions)
	credits.Post("/deduct", s.DeductCredits)
	credits.Post("/add", s.AddCredits)

	// Chat store routes
	chats := protected.Group("/chats")
	chats.Get("/", s.GetChats)
	chats.Post("/", s.CreateChat)
	chats.Get("/:id", s.GetChat)
	chats.Patch("/:id", s.UpdateChat)
	chats.Delete("/:id", s.DeleteChat)

	// Completion proxy
	protected.Post("/groq/chat", middleware.RateLimit(
		s.redis, 30, time.Minute, "groq_chat"), s.GroqChat)

	// Prompt optimizer
	protected.Post("/prompt/optimize", middleware.RateLimit(
		s.redis, 15, time.Minute, "optimize"), s.OptimizePrompt)

	// Video generation routes
	video := protected.Group("/video")
	video.Post("/generate", middleware.RateLimit(
		s.redis, 10, time.Minute, "video_generate"), s.GenerateVideo)
	video.Get("/status/:taskId", s.VideoStatus)
	video.Get("/download/:fileId", s.VideoDownload)

	// Payments
	protected.Post("/create-checkout", s.CreateCheckout)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The app runs without Redis, just with cold caches.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware. The token is read from
// the auth cookie first, then from the Authorization header for API clients.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(authCookieName)
		if tokenString == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" {
				parts := strings.Split(authHeader, " ")
				if len(parts) == 2 && parts[0] == "Bearer" {
					tokenString = parts[1]
				}
			}
		}

		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.JWTSecret), nil
		})

		if err != nil || !token.Valid {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token claims"))
		}

		if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != jwtIssuer {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token issuer"))
		}
		if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != jwtAudience {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token audience"))
		}

		sub, ok := claims["sub"].(string)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid subject claim"))
		}
		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid user ID in token"))
		}

		// Load the user row so handlers get the live account state, and so
		// tokens for deleted accounts stop working immediately.
		user, err := s.userRepo.GetByID(c.Context(), uint(userID))
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("User not found"))
		}

		c.Locals("userID", uint(userID))
		c.Locals("user", user)
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, uint(userID))
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// Shutdown releases the server's DB and Redis handles.
func (s *Server) Shutdown(ctx context.Context) error {
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
