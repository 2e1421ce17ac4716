package providers

import (
	"fmt"

	"github.com/bratiwka/llm-gateway/services"
)

// placeholderText is substituted when an upstream response is missing the
// expected fields. Inbound translation degrades instead of failing: one
// malformed payload must not crash the pipeline.
const placeholderText = "no response text available"

// Translator converts between the unified message format and one provider
// dialect. Both directions are pure: no I/O, no side effects.
type Translator interface {
	// TranslateRequest produces the provider-native request body
	TranslateRequest(req *ChatRequest, d Descriptor) ([]byte, error)

	// ParseResponse extracts the assistant text and usage from a
	// provider-native response body. It never fails: malformed or missing
	// fields yield a fixed placeholder string and zero usage.
	ParseResponse(body []byte) (string, Usage)

	// Headers returns the HTTP headers the dialect requires
	Headers(d Descriptor) map[string]string
}

// translators is the closed dialect set, fixed at package init
var translators = map[Dialect]Translator{
	DialectOpenAI: openAITranslator{},
	DialectGoogle: googleTranslator{},
}

// TranslatorFor selects the translator for a dialect. An unknown dialect is
// unreachable given a well-formed registry but is rejected defensively.
func TranslatorFor(dialect Dialect) (Translator, error) {
	t, ok := translators[dialect]
	if !ok {
		return nil, services.NewDomainError(
			services.ErrorTypeInternal,
			fmt.Sprintf("unsupported dialect %q", dialect),
			nil,
		)
	}
	return t, nil
}
