package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bratiwka/llm-gateway/models"
	"github.com/bratiwka/llm-gateway/repositories"
)

// ConversationRepository implements the repositories.ConversationRepository interface
type ConversationRepository struct {
	db     *DB
	logger *zap.Logger
	tx     repositories.Transaction
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(db *DB, logger *zap.Logger) repositories.ConversationRepository {
	return &ConversationRepository{
		db:     db,
		logger: logger,
	}
}

// WithTx returns a new repository instance bound to the transaction
func (r *ConversationRepository) WithTx(tx repositories.Transaction) repositories.ConversationRepository {
	return &ConversationRepository{
		db:     r.db,
		logger: r.logger,
		tx:     tx,
	}
}

func (r *ConversationRepository) executor(ctx context.Context) Executor {
	if r.tx != nil {
		if pgTx, ok := r.tx.(*Transaction); ok {
			return pgTx.tx
		}
	}
	return GetExecutor(ctx, r.db)
}

// Append inserts one conversation entry. The log is append-only; there are
// no update or delete operations on this table.
func (r *ConversationRepository) Append(ctx context.Context, entry *models.ConversationEntry) error {
	query := `
		INSERT INTO conversation_entries (id, account_api_key, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.executor(ctx).ExecContext(ctx, query,
		entry.ID,
		entry.AccountAPIKey,
		entry.Role,
		entry.Content,
		entry.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to append conversation entry: %w", err)
	}

	r.logger.Debug("conversation entry appended",
		zap.String("id", entry.ID.String()),
		zap.String("role", string(entry.Role)))

	return nil
}

// ListByAccount retrieves entries for an account, oldest first
func (r *ConversationRepository) ListByAccount(ctx context.Context, apiKey string, limit, offset int) ([]*models.ConversationEntry, error) {
	query := `
		SELECT id, account_api_key, role, content, created_at
		FROM conversation_entries
		WHERE account_api_key = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.executor(ctx).QueryContext(ctx, query, apiKey, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.ConversationEntry
	for rows.Next() {
		entry := &models.ConversationEntry{}
		if err := rows.Scan(
			&entry.ID,
			&entry.AccountAPIKey,
			&entry.Role,
			&entry.Content,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan conversation entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conversation entries: %w", err)
	}

	return entries, nil
}
