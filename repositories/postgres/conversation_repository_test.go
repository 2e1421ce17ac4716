package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bratiwka/llm-gateway/models"
)

func TestConversationRepository_Append(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewConversationRepository(db, zap.NewNop())

	entry := models.NewConversationEntry("user-abc", models.RoleUser, "privet")

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO conversation_entries")).
		WithArgs(entry.ID, entry.AccountAPIKey, string(entry.Role), entry.Content, entry.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Append(context.Background(), entry)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConversationRepository_ListByAccount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewConversationRepository(db, zap.NewNop())

	t.Run("returns entries oldest first", func(t *testing.T) {
		now := time.Now()
		rows := sqlmock.NewRows([]string{"id", "account_api_key", "role", "content", "created_at"}).
			AddRow(uuid.New(), "user-abc", "user", "privet", now.Add(-time.Minute)).
			AddRow(uuid.New(), "user-abc", "assistant", "zdravstvuy", now)

		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at ASC")).
			WithArgs("user-abc", 20, 0).
			WillReturnRows(rows)

		entries, err := repo.ListByAccount(context.Background(), "user-abc", 20, 0)
		require.NoError(t, err)
		require.Len(t, entries, 2)

		assert.Equal(t, models.RoleUser, entries[0].Role)
		assert.Equal(t, models.RoleAssistant, entries[1].Role)
		assert.True(t, entries[0].CreatedAt.Before(entries[1].CreatedAt))
	})

	t.Run("empty history", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at ASC")).
			WithArgs("user-quiet", 20, 0).
			WillReturnRows(sqlmock.NewRows([]string{"id", "account_api_key", "role", "content", "created_at"}))

		entries, err := repo.ListByAccount(context.Background(), "user-quiet", 20, 0)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
