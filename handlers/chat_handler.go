package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/bratiwka/llm-gateway/middleware"
	"github.com/bratiwka/llm-gateway/models"
	"github.com/bratiwka/llm-gateway/services/providers"
	"github.com/bratiwka/llm-gateway/utils"
)

// ChatCompletionRequest represents an OpenAI-compatible chat completion request
type ChatCompletionRequest struct {
	Model    string        `json:"model" validate:"required"`
	Messages []ChatMessage `json:"messages" validate:"required,min=1,dive"`
}

// ChatMessage represents a single chat message
type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=system user assistant"`
	Content string `json:"content" validate:"required"`
}

// ChatService defines the interface for running the completion pipeline
type ChatService interface {
	ProcessChatCompletion(ctx context.Context, account *models.Account, req *providers.ChatRequest) (*providers.ChatResponse, error)
}

// ChatHandler handles chat completion HTTP requests
type ChatHandler struct {
	service ChatService
	logger  *zap.Logger
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(service ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		logger:  logger,
	}
}

// HandleChatCompletion handles POST /v1/chat/completions
func (h *ChatHandler) HandleChatCompletion(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccountFromContext(r.Context())
	if account == nil {
		_ = utils.WriteUnauthorized(w, "Authentication required")
		return
	}

	var body ChatCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	if err := utils.ValidateStruct(body); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	chatReq := &providers.ChatRequest{
		Model:    body.Model,
		Messages: make([]providers.Message, 0, len(body.Messages)),
	}
	for _, message := range body.Messages {
		chatReq.Messages = append(chatReq.Messages, providers.Message{
			Role:    message.Role,
			Content: message.Content,
		})
	}

	response, err := h.service.ProcessChatCompletion(r.Context(), account, chatReq)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := utils.WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("failed to write chat completion response", zap.Error(err))
	}
}
