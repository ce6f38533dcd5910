package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultChatModel is used when the caller does not pick a model.
const DefaultChatModel = "llama-3.3-70b-versatile"

// Message is one entry in a chat's ordered history. Messages are immutable
// once stored; ordering is insertion order within the chat.
type Message struct {
	Role      string `json:"role"` // user, assistant or system
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Chat is a conversation owned by exactly one user. The message history is
// embedded as a JSON column rather than a separate table: histories are
// always read and written whole.
type Chat struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"userId"`
	Title       string         `gorm:"not null" json:"title"`
	Icon        string         `gorm:"default:'robot'" json:"icon"`
	Model       string         `gorm:"default:'llama-3.3-70b-versatile'" json:"model"`
	Messages    datatypes.JSON `gorm:"not null" json:"messages"`
	LastMessage string         `json:"lastMessage,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// DecodeMessages unpacks the JSON message column.
func (c *Chat) DecodeMessages() ([]Message, error) {
	if len(c.Messages) == 0 {
		return nil, nil
	}
	var msgs []Message
	if err := json.Unmarshal(c.Messages, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// EncodeMessages packs a message list into the JSON column representation.
func EncodeMessages(msgs []Message) (datatypes.JSON, error) {
	if msgs == nil {
		msgs = []Message{}
	}
	raw, err := json.Marshal(msgs)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
