package providers

import (
	"encoding/json"
	"fmt"
	"strings"
)

// googleTranslator handles the Google Generative Language API.
//
// The mapping drops system-role messages entirely: this dialect has no
// separate system-instruction channel in the gateway's translation, a known
// and deliberate simplification. user maps to user, every other role maps to
// model, and message content is wrapped as a single text part.
type googleTranslator struct{}

type googlePart struct {
	Text string `json:"text"`
}

type googleContent struct {
	Role  string       `json:"role"`
	Parts []googlePart `json:"parts"`
}

type googleChatRequest struct {
	Contents []googleContent `json:"contents"`
}

type googleChatResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (googleTranslator) TranslateRequest(req *ChatRequest, d Descriptor) ([]byte, error) {
	contents := make([]googleContent, 0, len(req.Messages))
	for _, msg := range req.Messages {
		if msg.Role == "system" {
			continue
		}
		role := "model"
		if msg.Role == "user" {
			role = "user"
		}
		contents = append(contents, googleContent{
			Role:  role,
			Parts: []googlePart{{Text: msg.Content}},
		})
	}

	body, err := json.Marshal(googleChatRequest{Contents: contents})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal google request: %w", err)
	}
	return body, nil
}

func (googleTranslator) ParseResponse(body []byte) (string, Usage) {
	var resp googleChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return placeholderText, Usage{}
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return placeholderText, Usage{}
	}

	text := resp.Candidates[0].Content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return placeholderText, Usage{}
	}
	return text, Usage{}
}

func (googleTranslator) Headers(d Descriptor) map[string]string {
	// Credential travels in the endpoint query string for this dialect
	return map[string]string{
		"Content-Type": "application/json",
	}
}
