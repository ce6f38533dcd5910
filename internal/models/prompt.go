package models

import "time"

// Prompt is a canned template from the prompt library. Read-only reference
// data from the caller's perspective; rows are seeded at bootstrap.
type Prompt struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"not null" json:"description"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Category    string    `gorm:"not null;index" json:"category"`
	Icon        string    `gorm:"default:'lightbulb'" json:"icon"`
	IconColor   string    `gorm:"default:'text-blue-600'" json:"iconColor"`
	BgColor     string    `gorm:"default:'bg-blue-100'" json:"bgColor"`
	Premium     bool      `gorm:"default:false" json:"premium"`
	Featured    bool      `gorm:"default:false;index" json:"featured"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
