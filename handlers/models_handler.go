package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/bratiwka/llm-gateway/services/providers"
	"github.com/bratiwka/llm-gateway/utils"
)

// ModelEntry is one catalog entry in the OpenAI-compatible model list
type ModelEntry struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// ModelListResponse is the response body for GET /v1/models
type ModelListResponse struct {
	Object string       `json:"object"`
	Data   []ModelEntry `json:"data"`
}

// ModelsHandler serves the model catalog
type ModelsHandler struct {
	registry *providers.Registry
	created  int64
	logger   *zap.Logger
}

// NewModelsHandler creates a new ModelsHandler
func NewModelsHandler(registry *providers.Registry, logger *zap.Logger) *ModelsHandler {
	return &ModelsHandler{
		registry: registry,
		created:  time.Now().Unix(),
		logger:   logger,
	}
}

// HandleListModels handles GET /v1/models. Only models with configured
// provider credentials appear; upstream model names and endpoints stay
// private.
func (h *ModelsHandler) HandleListModels(w http.ResponseWriter, r *http.Request) {
	descriptors := h.registry.List()

	response := ModelListResponse{
		Object: "list",
		Data:   make([]ModelEntry, 0, len(descriptors)),
	}
	for _, descriptor := range descriptors {
		response.Data = append(response.Data, ModelEntry{
			ID:      descriptor.PublicID,
			Object:  "model",
			Created: h.created,
			OwnedBy: descriptor.OwnedBy,
		})
	}

	if err := utils.WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("failed to write model list response", zap.Error(err))
	}
}
