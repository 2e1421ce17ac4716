package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/bratiwka/llm-gateway/middleware"
	"github.com/bratiwka/llm-gateway/models"
	"github.com/bratiwka/llm-gateway/utils"
)

// AccountResponse is the response body for GET /v1/me
type AccountResponse struct {
	Username     string      `json:"username"`
	Plan         models.Plan `json:"plan"`
	MessageCount int         `json:"message_count"`
	MessageLimit int         `json:"message_limit"`
}

// AccountHandler serves account self-inspection requests
type AccountHandler struct {
	logger *zap.Logger
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(logger *zap.Logger) *AccountHandler {
	return &AccountHandler{logger: logger}
}

// HandleCurrentAccount handles GET /v1/me. The credential itself is never
// echoed back.
func (h *AccountHandler) HandleCurrentAccount(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccountFromContext(r.Context())
	if account == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	response := AccountResponse{
		Username:     account.Username,
		Plan:         account.Plan,
		MessageCount: account.MessageCount,
		MessageLimit: account.MessageLimit,
	}

	if err := utils.WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("failed to write account response", zap.Error(err))
	}
}
