package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Port:       "5000",
			Env:        "test",
			JWTSecret:  "secure-secret-at-least-32-chars-long",
			DBPassword: "secure-password",
		}
	}

	t.Run("Valid test config", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("Missing port", func(t *testing.T) {
		c := base()
		c.Port = ""
		assert.Error(t, c.Validate())
	})

	t.Run("Missing JWT secret", func(t *testing.T) {
		c := base()
		c.JWTSecret = ""
		assert.Error(t, c.Validate())
	})

	t.Run("Production rejects the default secret", func(t *testing.T) {
		c := base()
		c.Env = "production"
		c.JWTSecret = "genie-dev-secret-change-in-production"
		assert.Error(t, c.Validate())
	})

	t.Run("Production rejects short secrets", func(t *testing.T) {
		c := base()
		c.Env = "production"
		c.JWTSecret = "short"
		assert.Error(t, c.Validate())
	})

	t.Run("Production rejects the default DB password", func(t *testing.T) {
		c := base()
		c.Env = "prod"
		c.DBPassword = "genie"
		assert.Error(t, c.Validate())
	})

	t.Run("Provider keys are optional", func(t *testing.T) {
		c := base()
		c.GroqAPIKey = ""
		c.MiniMaxAPIKey = ""
		c.StripeSecretKey = ""
		assert.NoError(t, c.Validate())
	})
}

func TestConfig_IsProduction(t *testing.T) {
	tests := []struct {
		env  string
		want bool
	}{
		{"production", true},
		{"prod", true},
		{"development", false},
		{"test", false},
		{"", false},
	}
	for _, tt := range tests {
		c := &Config{Env: tt.env}
		assert.Equal(t, tt.want, c.IsProduction(), "env %q", tt.env)
	}
}
