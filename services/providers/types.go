package providers

import (
	"time"

	"github.com/google/uuid"
)

// Dialect identifies a provider's wire format for chat requests and responses.
// The set is closed; every registered descriptor carries one of these tags.
type Dialect string

const (
	// DialectOpenAI covers OpenAI and OpenAI-compatible endpoints (Groq)
	DialectOpenAI Dialect = "openai"

	// DialectGoogle covers the Google Generative Language API
	DialectGoogle Dialect = "google"
)

// Descriptor describes how to reach one upstream provider for one public
// model id. Descriptors are immutable after registry construction.
type Descriptor struct {
	// PublicID is the model identifier callers use
	PublicID string

	// Dialect selects the translator for this provider
	Dialect Dialect

	// Endpoint is the full upstream URL for chat completions
	Endpoint string

	// UpstreamModel is the provider's own model name
	UpstreamModel string

	// APIKey is the provider credential; descriptors without one are never registered
	APIKey string

	// OwnedBy is reported in model listings
	OwnedBy string
}

// Message represents a single message in a conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents a unified chat completion request
type ChatRequest struct {
	// Model is the public model identifier
	Model string `json:"model"`

	// Messages in the conversation, oldest first
	Messages []Message `json:"messages"`
}

// LastUserMessage returns the most recent message in the request, which by
// convention is the caller's new input. Returns nil for an empty sequence.
func (r *ChatRequest) LastUserMessage() *Message {
	if len(r.Messages) == 0 {
		return nil
	}
	return &r.Messages[len(r.Messages)-1]
}

// Usage represents token usage statistics. Providers that do not report
// token counts leave all fields zero; the contract permits that.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Choice represents a completion choice
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// ChatResponse represents a unified chat completion response
type ChatResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// AssistantText returns the text of the first choice, or "" when absent
func (r *ChatResponse) AssistantText() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// NewChatResponse wraps assistant text into a unified completion envelope
// with a fresh completion id and the current timestamp.
func NewChatResponse(model, text string, usage Usage) *ChatResponse {
	return &ChatResponse{
		ID:      "chatcmpl-" + uuid.New().String(),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   model,
		Choices: []Choice{
			{
				Index:        0,
				Message:      Message{Role: "assistant", Content: text},
				FinishReason: "stop",
			},
		},
		Usage: usage,
	}
}
