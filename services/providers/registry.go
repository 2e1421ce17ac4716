package providers

import (
	"fmt"

	"github.com/bratiwka/llm-gateway/config"
	"github.com/bratiwka/llm-gateway/services"
)

// Registry maps public model ids to provider descriptors. It is built once at
// startup and read-only thereafter, so concurrent reads need no locking.
type Registry struct {
	byID  map[string]Descriptor
	order []string
}

// NewRegistry builds a registry from a catalog of descriptors. Descriptors
// without a credential are skipped entirely rather than registered disabled.
// Listing order follows catalog order.
func NewRegistry(catalog []Descriptor) *Registry {
	r := &Registry{
		byID: make(map[string]Descriptor, len(catalog)),
	}
	for _, d := range catalog {
		if d.APIKey == "" {
			continue
		}
		if _, exists := r.byID[d.PublicID]; exists {
			continue
		}
		r.byID[d.PublicID] = d
		r.order = append(r.order, d.PublicID)
	}
	return r
}

// Resolve returns the descriptor for a public model id
func (r *Registry) Resolve(publicID string) (Descriptor, error) {
	d, ok := r.byID[publicID]
	if !ok {
		return Descriptor{}, services.NewDomainError(
			services.ErrorTypeModelNotFound,
			fmt.Sprintf("model %q not found", publicID),
			nil,
		)
	}
	return d, nil
}

// List returns all registered descriptors in catalog order
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Len returns the number of registered models
func (r *Registry) Len() int {
	return len(r.byID)
}

// DefaultCatalog returns the built-in model catalog wired to the configured
// provider credentials. Entries whose credential is absent are dropped by
// NewRegistry.
func DefaultCatalog(cfg config.ProvidersConfig) []Descriptor {
	return []Descriptor{
		{
			PublicID:      "klassicheskiy-gpt4",
			Dialect:       DialectOpenAI,
			Endpoint:      "https://api.openai.com/v1/chat/completions",
			UpstreamModel: "gpt-3.5-turbo",
			APIKey:        cfg.OpenAIAPIKey,
			OwnedBy:       "bratiwka-inc",
		},
		{
			PublicID:      "tvoy-bystriy-gemini",
			Dialect:       DialectGoogle,
			Endpoint:      fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent?key=%s", cfg.GoogleAPIKey),
			UpstreamModel: "gemini-2.0-flash",
			APIKey:        cfg.GoogleAPIKey,
			OwnedBy:       "bratiwka-inc",
		},
		{
			PublicID:      "besplatniy-compound",
			Dialect:       DialectOpenAI,
			Endpoint:      "https://api.groq.com/openai/v1/chat/completions",
			UpstreamModel: "groq/compound-mini",
			APIKey:        cfg.GroqAPIKey,
			OwnedBy:       "bratiwka-inc",
		},
	}
}
