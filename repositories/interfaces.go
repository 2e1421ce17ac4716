package repositories

import (
	"context"
	"errors"

	"github.com/bratiwka/llm-gateway/models"
)

// ErrAccountNotFound is returned when no account matches the given credential
var ErrAccountNotFound = errors.New("account not found")

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction.
	// Automatically commits if the function succeeds, rolls back on error.
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns the transaction context
	Context() context.Context
}

// AccountRepository handles account data operations. The message counter is
// mutated only through TryConsume; everything else is read or create.
type AccountRepository interface {
	// GetByAPIKey retrieves an account by its credential
	GetByAPIKey(ctx context.Context, apiKey string) (*models.Account, error)

	// GetOrCreate retrieves the account for a key, inserting a fresh one with
	// the given username and limit if none exists. Under concurrent first
	// sight of the same key the first writer wins and every caller reads back
	// the winner's row.
	GetOrCreate(ctx context.Context, apiKey, username string, messageLimit int) (*models.Account, error)

	// TryConsume atomically increments the account's message counter if and
	// only if it is below the limit. Returns true when the increment was
	// applied, false when the account is at its limit. The check and the
	// increment are a single statement against the store; two concurrent
	// calls can never both succeed on one remaining unit of headroom.
	TryConsume(ctx context.Context, apiKey string) (bool, error)

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) AccountRepository
}

// ConversationRepository handles the append-only conversation log
type ConversationRepository interface {
	// Append inserts one conversation entry. Entries are never updated or deleted.
	Append(ctx context.Context, entry *models.ConversationEntry) error

	// ListByAccount retrieves entries for an account, oldest first, with pagination
	ListByAccount(ctx context.Context, apiKey string, limit, offset int) ([]*models.ConversationEntry, error)

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) ConversationRepository
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Accounts      AccountRepository
	Conversations ConversationRepository
}
