package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"genie/internal/config"
	"genie/internal/database"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"genie/internal/models"
)

func setupHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(database.PersistentModels()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Port:      "5000",
		Env:       "test",
		JWTSecret: "test-secret-for-handler-tests",
	}
}

// newTestServer builds a server on an in-memory database without Redis.
func newTestServer(t *testing.T, db *gorm.DB) (*Server, *fiber.App) {
	t.Helper()
	s, err := NewServerWithDeps(testConfig(), db, nil)
	if err != nil {
		t.Fatalf("NewServerWithDeps: %v", err)
	}

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

// createTestUser inserts a user with a bcrypt password and the signup grant
// already on the ledger.
func createTestUser(t *testing.T, db *gorm.DB, username, email string) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
		Credits:  models.SignupCreditGrant,
		Plan:     models.PlanBasic,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	grant := models.CreditTransaction{
		UserID:      user.ID,
		Amount:      models.SignupCreditGrant,
		Type:        models.CreditTxBonus,
		Description: "Signup bonus",
	}
	if err := db.Create(&grant).Error; err != nil {
		t.Fatalf("create grant: %v", err)
	}
	return user
}

// authedRequest builds a request carrying the user's session cookie.
func authedRequest(t *testing.T, s *Server, user *models.User, method, target string, body any) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	req.AddCookie(&http.Cookie{Name: authCookieName, Value: token})
	return req
}

// doRequest runs the request and decodes the JSON response into out (when
// out is non-nil).
func doRequest(t *testing.T, app *fiber.App, req *http.Request, out any) *http.Response {
	t.Helper()
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if out != nil {
		defer func() { _ = resp.Body.Close() }()
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp
}

func userBalance(t *testing.T, db *gorm.DB, userID uint) int {
	t.Helper()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	return user.Credits
}

func ledgerRows(t *testing.T, db *gorm.DB, userID uint) []models.CreditTransaction {
	t.Helper()
	var txs []models.CreditTransaction
	if err := db.Where("user_id = ?", userID).Order("id").Find(&txs).Error; err != nil {
		t.Fatalf("load transactions: %v", err)
	}
	return txs
}
