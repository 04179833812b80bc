package catalog

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"
)

// Fallback returns a small offline catalog of well-known models, used when
// the listing endpoint is unreachable. Prices are left unknown.
func Fallback() []Model {
	type entry struct {
		provider string
		id       string
		name     string
		context  int
	}

	entries := []entry{
		{"openai", string(openai.ChatModelGPT4o), "OpenAI: GPT-4o", 128000},
		{"openai", string(openai.ChatModelGPT4oMini), "OpenAI: GPT-4o mini", 128000},
		{"openai", string(openai.ChatModelGPT4Turbo), "OpenAI: GPT-4 Turbo", 128000},
		{"anthropic", string(anthropic.ModelClaude3_7SonnetLatest), "Anthropic: Claude 3.7 Sonnet", 200000},
		{"anthropic", string(anthropic.ModelClaude3_5SonnetLatest), "Anthropic: Claude 3.5 Sonnet", 200000},
		{"anthropic", string(anthropic.ModelClaude3_5HaikuLatest), "Anthropic: Claude 3.5 Haiku", 200000},
		{"anthropic", string(anthropic.ModelClaude3OpusLatest), "Anthropic: Claude 3 Opus", 200000},
	}

	out := make([]Model, 0, len(entries))
	for _, e := range entries {
		out = append(out, Model{
			ID:            e.provider + "/" + e.id,
			Name:          e.name,
			ContextLength: e.context,
			Architecture:  &Architecture{Modality: "text->text"},
		})
	}

	return out
}
