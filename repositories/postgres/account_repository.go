package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/bratiwka/llm-gateway/models"
	"github.com/bratiwka/llm-gateway/repositories"
)

// AccountRepository implements the repositories.AccountRepository interface
type AccountRepository struct {
	db     *DB
	logger *zap.Logger
	tx     repositories.Transaction
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *DB, logger *zap.Logger) repositories.AccountRepository {
	return &AccountRepository{
		db:     db,
		logger: logger,
	}
}

// WithTx returns a new repository instance bound to the transaction
func (r *AccountRepository) WithTx(tx repositories.Transaction) repositories.AccountRepository {
	return &AccountRepository{
		db:     r.db,
		logger: r.logger,
		tx:     tx,
	}
}

func (r *AccountRepository) executor(ctx context.Context) Executor {
	if r.tx != nil {
		if pgTx, ok := r.tx.(*Transaction); ok {
			return pgTx.tx
		}
	}
	return GetExecutor(ctx, r.db)
}

// GetByAPIKey retrieves an account by its credential
func (r *AccountRepository) GetByAPIKey(ctx context.Context, apiKey string) (*models.Account, error) {
	query := `
		SELECT api_key, username, message_count, message_limit, plan, created_at, updated_at
		FROM accounts
		WHERE api_key = $1
	`

	account := &models.Account{}
	err := r.executor(ctx).QueryRowContext(ctx, query, apiKey).Scan(
		&account.APIKey,
		&account.Username,
		&account.MessageCount,
		&account.MessageLimit,
		&account.Plan,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return account, nil
}

// GetOrCreate retrieves the account for a key, inserting a fresh one if none
// exists. ON CONFLICT DO NOTHING makes the insert race-safe: when two
// requests from the same new identity arrive concurrently the first writer
// wins and the loser reads back the winner's row.
func (r *AccountRepository) GetOrCreate(ctx context.Context, apiKey, username string, messageLimit int) (*models.Account, error) {
	insert := `
		INSERT INTO accounts (api_key, username, message_count, message_limit, plan, created_at, updated_at)
		VALUES ($1, $2, 0, $3, $4, NOW(), NOW())
		ON CONFLICT (api_key) DO NOTHING
	`

	_, err := r.executor(ctx).ExecContext(ctx, insert, apiKey, username, messageLimit, models.PlanFree)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, fmt.Errorf("username %q already taken: %w", username, err)
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	account, err := r.GetByAPIKey(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("account resolved",
		zap.String("username", account.Username),
		zap.Int("message_count", account.MessageCount),
		zap.Int("message_limit", account.MessageLimit))

	return account, nil
}

// TryConsume atomically increments the message counter if it is below the
// limit. The condition and the increment are one UPDATE statement, so the
// database serializes concurrent calls on the account row; two requests can
// never both succeed on a single remaining unit of headroom.
func (r *AccountRepository) TryConsume(ctx context.Context, apiKey string) (bool, error) {
	query := `
		UPDATE accounts
		SET message_count = message_count + 1, updated_at = NOW()
		WHERE api_key = $1 AND message_count < message_limit
	`

	result, err := r.executor(ctx).ExecContext(ctx, query, apiKey)
	if err != nil {
		return false, fmt.Errorf("failed to consume quota: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return rows == 1, nil
}
