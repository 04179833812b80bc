// Package anthropic builds Anthropic Messages API request bodies.
package anthropic

import (
	"slices"

	"github.com/germanamz/promptcfg/pkg/payloads"
	"github.com/germanamz/promptcfg/pkg/prompts/config"
	"github.com/germanamz/promptcfg/pkg/prompts/role"
)

// DefaultMaxTokens is sent when the configuration leaves max tokens unset;
// the Messages API rejects requests without it.
const DefaultMaxTokens = 4096

// Payload is a Messages API request body.
type Payload struct {
	Model         string             `json:"model"`
	Messages      []payloads.Message `json:"messages"`
	MaxTokens     int                `json:"max_tokens"`
	System        string             `json:"system,omitempty"`
	Temperature   *float64           `json:"temperature,omitempty"`
	TopP          *float64           `json:"top_p,omitempty"`
	TopK          int                `json:"top_k,omitempty"`
	StopSequences []string           `json:"stop_sequences,omitempty"`
	Tools         []Tool             `json:"tools,omitempty"`
	ToolChoice    *ToolChoice        `json:"tool_choice,omitempty"`
}

// Tool is the Anthropic tool shape.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// ToolChoice is the Anthropic tool_choice object.
type ToolChoice struct {
	Type string `json:"type"`
}

// Build converts c into a Messages API body. The system prompt travels in
// the top-level system field, so the returned messages hold the user turn
// only. Sampling knobs without an Anthropic equivalent (penalties, min_p,
// reasoning, response format) are ignored.
func Build(c config.Config, vars map[string]string) (Payload, []payloads.Message) {
	msgs := make([]payloads.Message, 0, 1)
	if user := payloads.ResolveUserPrompt(c, vars); user != "" {
		msgs = append(msgs, payloads.Message{Role: role.User, Content: user})
	}

	p := Payload{
		Model:     payloads.StripProvider(c.Model),
		Messages:  msgs,
		MaxTokens: DefaultMaxTokens,
		System:    c.SystemPrompt,
	}

	if c.MaxTokens > 0 {
		p.MaxTokens = c.MaxTokens
	}

	if c.Temperature != nil && payloads.Finite(*c.Temperature) {
		t := *c.Temperature
		p.Temperature = &t
	}

	if c.TopP != nil && payloads.Finite(*c.TopP) && *c.TopP != config.DefaultTopP {
		v := *c.TopP
		p.TopP = &v
	}

	if c.TopK > 0 {
		p.TopK = c.TopK
	}

	if len(c.StopSequences) > 0 {
		p.StopSequences = slices.Clone(c.StopSequences)
	}

	p.Tools = convertTools(c)
	if len(p.Tools) > 0 {
		p.ToolChoice = toolChoice(c.ToolChoice)
	}

	return p, slices.Clone(msgs)
}

func convertTools(c config.Config) []Tool {
	if len(c.Tools) == 0 {
		return nil
	}

	var out []Tool
	for _, t := range c.Clone().Tools {
		if t.Type != "function" || t.Function == nil {
			continue
		}

		schema := t.Function.Parameters
		if schema == nil {
			schema = map[string]any{}
		}

		out = append(out, Tool{
			Name:        t.Function.Name,
			Description: t.Function.Description,
			InputSchema: schema,
		})
	}

	return out
}

func toolChoice(tc config.ToolChoice) *ToolChoice {
	switch tc {
	case config.ToolChoiceRequired:
		return &ToolChoice{Type: "any"}
	case config.ToolChoiceNone:
		return &ToolChoice{Type: "none"}
	default:
		return nil
	}
}
