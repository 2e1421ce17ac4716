package providers

import (
	"encoding/json"
	"fmt"
	"strings"
)

// openAITranslator handles OpenAI-compatible endpoints (OpenAI itself, Groq).
// Outbound translation passes the message sequence through unchanged except
// for substituting the upstream model name.
type openAITranslator struct{}

type openAIChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type openAIChatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func (openAITranslator) TranslateRequest(req *ChatRequest, d Descriptor) ([]byte, error) {
	payload := openAIChatRequest{
		Model:    d.UpstreamModel,
		Messages: req.Messages,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal openai request: %w", err)
	}
	return body, nil
}

func (openAITranslator) ParseResponse(body []byte) (string, Usage) {
	var resp openAIChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return placeholderText, Usage{}
	}

	usage := Usage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return placeholderText, usage
	}
	return resp.Choices[0].Message.Content, usage
}

func (openAITranslator) Headers(d Descriptor) map[string]string {
	return map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer " + d.APIKey,
	}
}
