// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Plan identifiers. Premium is derived: anything other than PlanBasic.
const (
	PlanBasic   = "basic"
	PlanPro     = "pro"
	PlanPremium = "premium"
)

// SignupCreditGrant is the free credit balance given to every new account,
// whether created by registration or first OAuth sign-in.
const SignupCreditGrant = 100

// User represents an account in the Genie application. Password is empty for
// accounts created through OAuth sign-in.
type User struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	Username             string         `gorm:"not null" json:"username"`
	Email                string         `gorm:"unique;not null" json:"email"`
	Password             string         `gorm:"not null" json:"-"`
	Credits              int            `gorm:"not null;default:100" json:"credits"`
	Premium              bool           `gorm:"not null;default:false" json:"premium"`
	Plan                 string         `gorm:"not null;default:'basic'" json:"plan"`
	ProfileImageURL      string         `json:"profileImageUrl,omitempty"`
	StripeCustomerID     string         `json:"stripeCustomerId,omitempty"`
	StripeSubscriptionID string         `json:"stripeSubscriptionId,omitempty"`
	CreatedAt            time.Time      `json:"createdAt"`
	UpdatedAt            time.Time      `json:"updatedAt"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
	Chats                []Chat         `gorm:"foreignKey:UserID" json:"chats,omitempty"`
}

// IsPremiumPlan reports whether the given plan tag grants premium features.
func IsPremiumPlan(plan string) bool {
	return plan != PlanBasic
}
