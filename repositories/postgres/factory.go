package postgres

import (
	"go.uber.org/zap"

	"github.com/bratiwka/llm-gateway/repositories"
)

// NewRepositories creates all PostgreSQL repository implementations
func NewRepositories(db *DB, logger *zap.Logger) repositories.Repositories {
	return repositories.Repositories{
		Accounts:      NewAccountRepository(db, logger),
		Conversations: NewConversationRepository(db, logger),
	}
}
