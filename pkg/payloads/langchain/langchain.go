// Package langchain converts configurations into the framework-neutral
// template and model-kwargs shapes consumed by orchestration libraries.
package langchain

import (
	"slices"
	"strings"

	"github.com/germanamz/promptcfg/pkg/payloads"
	"github.com/germanamz/promptcfg/pkg/prompts/config"
	"github.com/germanamz/promptcfg/pkg/prompts/role"
	"github.com/germanamz/promptcfg/pkg/prompts/template"
)

// UnknownProvider is returned by Provider for an empty model id.
const UnknownProvider = "unknown"

// OpenRouterBaseURL is the OpenAI-compatible endpoint used for models whose
// provider has no dedicated client.
const OpenRouterBaseURL = "https://openrouter.ai/api/v1"

// PromptTemplate is a chat prompt in single-brace template syntax.
type PromptTemplate struct {
	SystemTemplate string   `json:"systemTemplate"`
	UserTemplate   string   `json:"userTemplate"`
	InputVariables []string `json:"inputVariables"`
}

// Messages returns the (role, template) pairs of the prompt, skipping empty
// templates.
func (p PromptTemplate) Messages() []payloads.Message {
	var out []payloads.Message
	if p.SystemTemplate != "" {
		out = append(out, payloads.Message{Role: role.System, Content: p.SystemTemplate})
	}
	if p.UserTemplate != "" {
		out = append(out, payloads.Message{Role: role.User, Content: p.UserTemplate})
	}
	return out
}

// ToPromptTemplate converts c. Only the user template is rewritten to
// single-brace syntax; the system prompt is carried verbatim.
func ToPromptTemplate(c config.Config) PromptTemplate {
	vars := template.ExtractVariables(c.UserPromptTemplate)
	if vars == nil {
		vars = []string{}
	}

	return PromptTemplate{
		SystemTemplate: c.SystemPrompt,
		UserTemplate:   template.ConvertDelimiter(c.UserPromptTemplate),
		InputVariables: vars,
	}
}

// ModelConfig holds the constructor kwargs of a chat model.
type ModelConfig struct {
	ModelName        string   `json:"modelName"`
	Temperature      float64  `json:"temperature"`
	MaxTokens        int      `json:"maxTokens"`
	TopP             *float64 `json:"topP,omitempty"`
	TopK             int      `json:"topK,omitempty"`
	FrequencyPenalty float64  `json:"frequencyPenalty,omitempty"`
	PresencePenalty  float64  `json:"presencePenalty,omitempty"`
	Stop             []string `json:"stop,omitempty"`
}

// NewModelConfig extracts the model kwargs of c. ModelName, Temperature and
// MaxTokens are always set; an unset temperature becomes the 1.0 default.
func NewModelConfig(c config.Config) ModelConfig {
	mc := ModelConfig{
		ModelName:   c.Model,
		Temperature: config.DefaultTemperature,
		MaxTokens:   c.MaxTokens,
	}

	if c.Temperature != nil && payloads.Finite(*c.Temperature) {
		mc.Temperature = *c.Temperature
	}

	if c.TopP != nil && payloads.Finite(*c.TopP) && *c.TopP != config.DefaultTopP {
		v := *c.TopP
		mc.TopP = &v
	}

	if c.TopK > 0 {
		mc.TopK = c.TopK
	}

	if c.FrequencyPenalty != 0 && payloads.Finite(c.FrequencyPenalty) {
		mc.FrequencyPenalty = c.FrequencyPenalty
	}

	if c.PresencePenalty != 0 && payloads.Finite(c.PresencePenalty) {
		mc.PresencePenalty = c.PresencePenalty
	}

	if len(c.StopSequences) > 0 {
		mc.Stop = slices.Clone(c.StopSequences)
	}

	return mc
}

// Provider returns the provider segment of a model id: the text before the
// first "/", the whole id when it has no "/", or UnknownProvider when empty.
func Provider(modelID string) string {
	if modelID == "" {
		return UnknownProvider
	}

	provider, _, _ := strings.Cut(modelID, "/")

	return provider
}

// ClientKind names the chat client family a host should construct.
type ClientKind string

const (
	ClientAnthropic  ClientKind = "anthropic"
	ClientOpenAI     ClientKind = "openai"
	ClientOpenRouter ClientKind = "openrouter"
)

// ClientTarget describes the chat client for a configuration. Nothing is
// dialed; hosts use it to pick and configure their own client.
type ClientTarget struct {
	Kind    ClientKind  `json:"kind"`
	Model   string      `json:"model"`
	BaseURL string      `json:"baseUrl,omitempty"`
	Config  ModelConfig `json:"config"`
}

// ClientTargetFor picks the client for c. Anthropic and OpenAI models get
// their native client with the provider prefix stripped; every other model
// goes through OpenRouter with its full id.
func ClientTargetFor(c config.Config) ClientTarget {
	mc := NewModelConfig(c)

	switch Provider(c.Model) {
	case string(ClientAnthropic):
		return ClientTarget{Kind: ClientAnthropic, Model: payloads.StripProvider(c.Model), Config: mc}
	case string(ClientOpenAI):
		return ClientTarget{Kind: ClientOpenAI, Model: payloads.StripProvider(c.Model), Config: mc}
	default:
		return ClientTarget{Kind: ClientOpenRouter, Model: c.Model, BaseURL: OpenRouterBaseURL, Config: mc}
	}
}
