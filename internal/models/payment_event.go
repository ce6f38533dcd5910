package models

import "time"

// PaymentEvent records a processed payment-provider webhook event. The unique
// index on EventID is what guarantees at-most-once credit application when
// the provider redelivers the same event.
type PaymentEvent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	EventID     string    `gorm:"uniqueIndex;not null" json:"eventId"`
	Type        string    `gorm:"not null" json:"type"`
	ProcessedAt time.Time `gorm:"autoCreateTime" json:"processedAt"`
}
