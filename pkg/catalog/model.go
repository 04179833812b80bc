// Package catalog holds the read-only model catalog: descriptor types, pure
// lookup helpers, an HTTP client for the public listing endpoint and a TTL
// cache hosts inject where they need one.
package catalog

import "strings"

// Model is one catalog entry as served by the OpenRouter models endpoint.
type Model struct {
	ID                  string        `json:"id"`
	Name                string        `json:"name"`
	ContextLength       int           `json:"context_length"`
	Architecture        *Architecture `json:"architecture,omitempty"`
	Pricing             *Pricing      `json:"pricing,omitempty"`
	TopProvider         *TopProvider  `json:"top_provider,omitempty"`
	SupportedParameters []string      `json:"supported_parameters,omitempty"`
}

// Architecture describes a model's modalities.
type Architecture struct {
	Modality string `json:"modality,omitempty"`
}

// Pricing holds per-token USD prices as decimal strings, e.g. "0.000005".
type Pricing struct {
	Prompt     string `json:"prompt,omitempty"`
	Completion string `json:"completion,omitempty"`
}

// TopProvider holds limits of the model's primary provider.
type TopProvider struct {
	MaxCompletionTokens int `json:"max_completion_tokens,omitempty"`
}

// Prefix returns the provider prefix of the model id: the text before the
// first "/", or the whole id when it has none.
func (m Model) Prefix() string {
	prefix, _, _ := strings.Cut(m.ID, "/")
	return prefix
}

// PromptPrice returns the prompt price string, or "" when unknown.
func (m Model) PromptPrice() string {
	if m.Pricing == nil {
		return ""
	}
	return m.Pricing.Prompt
}

// CompletionPrice returns the completion price string, or "" when unknown.
func (m Model) CompletionPrice() string {
	if m.Pricing == nil {
		return ""
	}
	return m.Pricing.Completion
}
