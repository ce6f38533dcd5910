package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"genie/internal/models"
	"genie/internal/seed"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestGetPrompts(t *testing.T) {
	db := setupHandlerTestDB(t)
	_, app := newTestServer(t, db)

	if err := seed.Prompts(db); err != nil {
		t.Fatalf("seed prompts: %v", err)
	}

	t.Run("Full library", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/prompts", nil)
		var prompts []models.Prompt
		resp := doRequest(t, app, req, &prompts)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, prompts)
	})

	t.Run("Featured subset", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/prompts?featured=true", nil)
		var prompts []models.Prompt
		resp := doRequest(t, app, req, &prompts)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, prompts)
		assert.LessOrEqual(t, len(prompts), 4)
		for _, p := range prompts {
			assert.True(t, p.Featured)
		}
	})

	t.Run("Seeding is idempotent", func(t *testing.T) {
		before := promptCount(t, db)
		if err := seed.Prompts(db); err != nil {
			t.Fatalf("reseed prompts: %v", err)
		}
		assert.Equal(t, before, promptCount(t, db))
	})
}

func promptCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.Prompt{}).Count(&count).Error; err != nil {
		t.Fatalf("count prompts: %v", err)
	}
	return count
}
