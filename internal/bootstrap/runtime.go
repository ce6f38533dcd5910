// Package bootstrap wires up runtime dependencies for the server process.
package bootstrap

import (
	"fmt"

	"genie/internal/cache"
	"genie/internal/config"
	"genie/internal/database"
	"genie/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedPrompts  bool
	SeedDevUsers int
}

// InitRuntime connects to the database and Redis and runs seeding. The Redis
// client may come back nil when the server is unreachable; callers treat that
// as cache-disabled, not fatal.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedPrompts {
		if err := seed.Prompts(db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed built-in prompts: %w", err)
		}
	}

	if opts.SeedDevUsers > 0 && !cfg.IsProduction() {
		if err := seed.DevUsers(db, opts.SeedDevUsers); err != nil {
			return nil, nil, fmt.Errorf("failed to seed development users: %w", err)
		}
	}

	return db, r, nil
}
