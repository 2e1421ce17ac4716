package models

import (
	"time"
)

// Plan represents the billing plan assigned to an account
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// Account represents a billable identity. The API key is the primary key and
// never changes; the message counter is mutated only through the quota guard.
type Account struct {
	APIKey       string    `json:"api_key" db:"api_key"`
	Username     string    `json:"username" db:"username"`
	MessageCount int       `json:"message_count" db:"message_count"`
	MessageLimit int       `json:"message_limit" db:"message_limit"`
	Plan         Plan      `json:"plan" db:"plan"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Account model
func (Account) TableName() string {
	return "accounts"
}

// NewAccount creates a new Account instance with a zero usage counter
func NewAccount(apiKey, username string, messageLimit int) *Account {
	now := time.Now()
	return &Account{
		APIKey:       apiKey,
		Username:     username,
		MessageCount: 0,
		MessageLimit: messageLimit,
		Plan:         PlanFree,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// HasQuotaRemaining returns true if the account can send at least one more message.
// This is advisory only; the authoritative check is the atomic repository update.
func (a *Account) HasQuotaRemaining() bool {
	return a.MessageCount < a.MessageLimit
}

// Remaining returns the number of messages left before the limit is reached
func (a *Account) Remaining() int {
	if a.MessageCount >= a.MessageLimit {
		return 0
	}
	return a.MessageLimit - a.MessageCount
}
