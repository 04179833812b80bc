// Package openai builds OpenAI-compatible chat completion request bodies.
// The same body is accepted by OpenRouter, Azure OpenAI, Ollama, LM Studio and
// other OpenAI-compatible servers.
package openai

import (
	"slices"

	"github.com/germanamz/promptcfg/pkg/payloads"
	"github.com/germanamz/promptcfg/pkg/prompts/config"
	"github.com/germanamz/promptcfg/pkg/prompts/role"
)

// Payload is a chat completions request body. A field is present on the wire
// only when Build decided to include it.
type Payload struct {
	Model             string                  `json:"model"`
	Messages          []payloads.Message      `json:"messages"`
	Temperature       *float64                `json:"temperature,omitempty"`
	MaxTokens         int                     `json:"max_tokens,omitempty"`
	TopP              *float64                `json:"top_p,omitempty"`
	TopK              int                     `json:"top_k,omitempty"`
	FrequencyPenalty  float64                 `json:"frequency_penalty,omitempty"`
	PresencePenalty   float64                 `json:"presence_penalty,omitempty"`
	RepetitionPenalty float64                 `json:"repetition_penalty,omitempty"`
	MinP              float64                 `json:"min_p,omitempty"`
	Stop              []string                `json:"stop,omitempty"`
	ResponseFormat    *ResponseFormat         `json:"response_format,omitempty"`
	Tools             []config.ToolDefinition `json:"tools,omitempty"`
	ToolChoice        config.ToolChoice       `json:"tool_choice,omitempty"`
	Reasoning         *Reasoning              `json:"reasoning,omitempty"`
}

// ResponseFormat is the response_format object.
type ResponseFormat struct {
	Type       config.ResponseFormat `json:"type"`
	JSONSchema *config.JSONSchema    `json:"json_schema,omitempty"`
}

// Reasoning is the OpenRouter reasoning extension.
type Reasoning struct {
	Effort config.ReasoningEffort `json:"effort"`
}

// Build converts c into a chat completions body. vars are merged over
// c.SampleInputs before the user template is resolved. The resolved messages
// are returned separately for previews; they do not alias the payload's slice.
func Build(c config.Config, vars map[string]string) (Payload, []payloads.Message) {
	msgs := make([]payloads.Message, 0, 2)

	if c.SystemPrompt != "" {
		msgs = append(msgs, payloads.Message{Role: role.System, Content: c.SystemPrompt})
	}

	if user := payloads.ResolveUserPrompt(c, vars); user != "" {
		msgs = append(msgs, payloads.Message{Role: role.User, Content: user})
	}

	p := Payload{
		Model:    c.Model,
		Messages: msgs,
	}

	if c.Temperature != nil && payloads.Finite(*c.Temperature) {
		t := *c.Temperature
		p.Temperature = &t
	}

	if c.MaxTokens > 0 {
		p.MaxTokens = c.MaxTokens
	}

	if c.TopP != nil && payloads.Finite(*c.TopP) && *c.TopP != config.DefaultTopP {
		v := *c.TopP
		p.TopP = &v
	}

	if c.TopK > 0 {
		p.TopK = c.TopK
	}

	if c.FrequencyPenalty != 0 && payloads.Finite(c.FrequencyPenalty) {
		p.FrequencyPenalty = c.FrequencyPenalty
	}

	if c.PresencePenalty != 0 && payloads.Finite(c.PresencePenalty) {
		p.PresencePenalty = c.PresencePenalty
	}

	if c.RepetitionPenalty != 0 && payloads.Finite(c.RepetitionPenalty) && c.RepetitionPenalty != config.DefaultRepetitionPenalty {
		p.RepetitionPenalty = c.RepetitionPenalty
	}

	if c.MinP != 0 && payloads.Finite(c.MinP) {
		p.MinP = c.MinP
	}

	if len(c.StopSequences) > 0 {
		p.Stop = slices.Clone(c.StopSequences)
	}

	switch c.ResponseFormat {
	case config.ResponseJSONObject:
		p.ResponseFormat = &ResponseFormat{Type: config.ResponseJSONObject}
	case config.ResponseJSONSchema:
		if c.JSONSchema != nil {
			p.ResponseFormat = &ResponseFormat{
				Type:       config.ResponseJSONSchema,
				JSONSchema: c.Clone().JSONSchema,
			}
		}
	}

	if len(c.Tools) > 0 {
		p.Tools = c.Clone().Tools
		if c.ToolChoice != "" && c.ToolChoice != config.ToolChoiceAuto {
			p.ToolChoice = c.ToolChoice
		}
	}

	if c.Reasoning {
		effort := c.ReasoningEffort
		if effort == "" {
			effort = config.EffortMedium
		}
		p.Reasoning = &Reasoning{Effort: effort}
	}

	return p, slices.Clone(msgs)
}

// BuildOpenRouter is Build; OpenRouter accepts the OpenAI body unchanged and
// reads the reasoning and sampling extensions.
func BuildOpenRouter(c config.Config, vars map[string]string) (Payload, []payloads.Message) {
	return Build(c, vars)
}
