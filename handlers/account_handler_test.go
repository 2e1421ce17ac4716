package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bratiwka/llm-gateway/middleware"
	"github.com/bratiwka/llm-gateway/models"
)

func TestHandleCurrentAccount(t *testing.T) {
	t.Run("returns account state without the credential", func(t *testing.T) {
		account := models.NewAccount("user-abc", "petya", 50)
		account.MessageCount = 12

		handler := NewAccountHandler(zap.NewNop())
		req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
		req = req.WithContext(middleware.WithAccount(req.Context(), account))
		rec := httptest.NewRecorder()

		handler.HandleCurrentAccount(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp AccountResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "petya", resp.Username)
		assert.Equal(t, models.PlanFree, resp.Plan)
		assert.Equal(t, 12, resp.MessageCount)
		assert.Equal(t, 50, resp.MessageLimit)

		assert.NotContains(t, rec.Body.String(), "user-abc")
	})

	t.Run("no account in context", func(t *testing.T) {
		handler := NewAccountHandler(zap.NewNop())
		rec := httptest.NewRecorder()

		handler.HandleCurrentAccount(rec, httptest.NewRequest(http.MethodGet, "/v1/me", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
