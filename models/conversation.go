package models

import (
	"time"

	"github.com/google/uuid"
)

// MessageRole represents the author of a conversation entry
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ValidRole reports whether the role is one of the supported chat roles
func ValidRole(role string) bool {
	switch MessageRole(role) {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// ConversationEntry represents one logged message tied to an account.
// Entries are append-only: the gateway never updates or deletes them.
type ConversationEntry struct {
	ID            uuid.UUID   `json:"id" db:"id"`
	AccountAPIKey string      `json:"account_api_key" db:"account_api_key"`
	Role          MessageRole `json:"role" db:"role"`
	Content       string      `json:"content" db:"content"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the ConversationEntry model
func (ConversationEntry) TableName() string {
	return "conversation_entries"
}

// NewConversationEntry creates a new ConversationEntry instance
func NewConversationEntry(accountAPIKey string, role MessageRole, content string) *ConversationEntry {
	return &ConversationEntry{
		ID:            uuid.New(),
		AccountAPIKey: accountAPIKey,
		Role:          role,
		Content:       content,
		CreatedAt:     time.Now(),
	}
}
