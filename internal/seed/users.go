package seed

import (
	"fmt"
	"log"
	"time"

	"genie/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DevUsers creates n fake accounts for local development. Every account gets
// the password "password123" and the standard signup credit grant.
func DevUsers(db *gorm.DB, n int) error {
	gofakeit.Seed(time.Now().UnixNano())

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	created := 0
	for i := 0; i < n; i++ {
		user := models.User{
			Username: gofakeit.Username(),
			Email:    gofakeit.Email(),
			Password: string(hashed),
			Credits:  models.SignupCreditGrant,
			Plan:     models.PlanBasic,
		}
		if err := db.Create(&user).Error; err != nil {
			// Duplicate emails from the generator are skipped, not fatal.
			continue
		}
		created++
	}

	log.Printf("Seeded %d development users", created)
	return nil
}
