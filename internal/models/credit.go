package models

import "time"

// Credit transaction type tags.
const (
	CreditTxPurchase = "purchase"
	CreditTxUsage    = "usage"
	CreditTxRefund   = "refund"
	CreditTxBonus    = "bonus"
)

// CreditTransaction is an append-only record of a signed balance change.
// Rows are never mutated or deleted.
type CreditTransaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"userId"`
	Amount      int       `gorm:"not null" json:"amount"`
	Type        string    `gorm:"not null" json:"type"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
