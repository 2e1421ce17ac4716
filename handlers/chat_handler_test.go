package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bratiwka/llm-gateway/middleware"
	"github.com/bratiwka/llm-gateway/models"
	"github.com/bratiwka/llm-gateway/services"
	"github.com/bratiwka/llm-gateway/services/providers"
	"github.com/bratiwka/llm-gateway/utils"
)

type stubChatService struct {
	gotReq   *providers.ChatRequest
	response *providers.ChatResponse
	err      error
}

func (s *stubChatService) ProcessChatCompletion(_ context.Context, _ *models.Account, req *providers.ChatRequest) (*providers.ChatResponse, error) {
	s.gotReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func authedRequest(t *testing.T, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", strings.NewReader(body))
	account := models.NewAccount("user-abc", "petya", 50)
	return req.WithContext(middleware.WithAccount(req.Context(), account))
}

func TestHandleChatCompletion(t *testing.T) {
	validBody := `{"model":"klassicheskiy-gpt4","messages":[{"role":"user","content":"privet"}]}`

	t.Run("success", func(t *testing.T) {
		service := &stubChatService{
			response: providers.NewChatResponse("klassicheskiy-gpt4", "zdravstvuy", providers.Usage{TotalTokens: 8}),
		}
		handler := NewChatHandler(service, zap.NewNop())

		rec := httptest.NewRecorder()
		handler.HandleChatCompletion(rec, authedRequest(t, validBody))

		require.Equal(t, http.StatusOK, rec.Code)

		var resp providers.ChatResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "chat.completion", resp.Object)
		assert.Equal(t, "zdravstvuy", resp.AssistantText())
		assert.Equal(t, 8, resp.Usage.TotalTokens)

		require.NotNil(t, service.gotReq)
		assert.Equal(t, "klassicheskiy-gpt4", service.gotReq.Model)
		require.Len(t, service.gotReq.Messages, 1)
		assert.Equal(t, "privet", service.gotReq.Messages[0].Content)
	})

	t.Run("no account in context", func(t *testing.T) {
		handler := NewChatHandler(&stubChatService{}, zap.NewNop())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", strings.NewReader(validBody))
		handler.HandleChatCompletion(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		handler := NewChatHandler(&stubChatService{}, zap.NewNop())

		rec := httptest.NewRecorder()
		handler.HandleChatCompletion(rec, authedRequest(t, `{not json`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validation failures", func(t *testing.T) {
		cases := map[string]string{
			"missing model":    `{"messages":[{"role":"user","content":"privet"}]}`,
			"empty messages":   `{"model":"klassicheskiy-gpt4","messages":[]}`,
			"missing messages": `{"model":"klassicheskiy-gpt4"}`,
			"bad role":         `{"model":"klassicheskiy-gpt4","messages":[{"role":"robot","content":"hi"}]}`,
			"empty content":    `{"model":"klassicheskiy-gpt4","messages":[{"role":"user","content":""}]}`,
		}

		for name, body := range cases {
			t.Run(name, func(t *testing.T) {
				service := &stubChatService{}
				handler := NewChatHandler(service, zap.NewNop())

				rec := httptest.NewRecorder()
				handler.HandleChatCompletion(rec, authedRequest(t, body))

				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Nil(t, service.gotReq, "invalid requests never reach the pipeline")
			})
		}
	})

	t.Run("service error mapping", func(t *testing.T) {
		cases := []struct {
			name       string
			err        error
			wantStatus int
			wantCode   string
		}{
			{"unknown model", services.ErrModelNotFound, http.StatusNotFound, "not_found"},
			{"quota exceeded", services.ErrQuotaExceeded, http.StatusTooManyRequests, "quota_exceeded"},
			{"upstream failure", services.ErrUpstream, http.StatusBadGateway, "upstream_error"},
			{"upstream timeout", services.ErrUpstreamTimeout, http.StatusBadGateway, "upstream_error"},
			{"internal", services.WrapInternal("db down", assert.AnError), http.StatusInternalServerError, "internal_error"},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				handler := NewChatHandler(&stubChatService{err: tc.err}, zap.NewNop())

				rec := httptest.NewRecorder()
				handler.HandleChatCompletion(rec, authedRequest(t, validBody))

				assert.Equal(t, tc.wantStatus, rec.Code)

				var errResp utils.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
				assert.Equal(t, tc.wantCode, errResp.Error)
			})
		}
	})
}
