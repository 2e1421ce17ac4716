package middleware

import (
	"context"

	"github.com/bratiwka/llm-gateway/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	// AccountKey is the context key for the resolved caller account
	AccountKey contextKey = "account"
)

// GetAccountFromContext retrieves the resolved account from context
func GetAccountFromContext(ctx context.Context) *models.Account {
	if val := ctx.Value(AccountKey); val != nil {
		if account, ok := val.(*models.Account); ok {
			return account
		}
	}
	return nil
}

// WithAccount adds the resolved account to the context
func WithAccount(ctx context.Context, account *models.Account) context.Context {
	return context.WithValue(ctx, AccountKey, account)
}
