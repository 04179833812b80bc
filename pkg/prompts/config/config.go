// Package config defines the provider-neutral prompt configuration record.
//
// A Config has value semantics: the With* methods return modified copies and
// never touch the receiver, and Clone deep-copies every slice and map. Payload
// builders read a Config and never write to it.
package config

import (
	"maps"
	"slices"

	"github.com/google/uuid"
)

// ResponseFormat selects the output constraint requested from the model.
type ResponseFormat string

const (
	ResponseText       ResponseFormat = "text"
	ResponseJSONObject ResponseFormat = "json_object"
	ResponseJSONSchema ResponseFormat = "json_schema"
)

// ToolChoice controls whether and how the model must call tools.
type ToolChoice string

const (
	ToolChoiceAuto     ToolChoice = "auto"
	ToolChoiceNone     ToolChoice = "none"
	ToolChoiceRequired ToolChoice = "required"
)

// ReasoningEffort is the requested reasoning budget when reasoning is on.
type ReasoningEffort string

const (
	EffortLow    ReasoningEffort = "low"
	EffortMedium ReasoningEffort = "medium"
	EffortHigh   ReasoningEffort = "high"
)

// Provider-neutral defaults. Callers treat a field equal to its default as
// unset.
const (
	DefaultTemperature       = 1.0
	DefaultTopP              = 1.0
	DefaultRepetitionPenalty = 1.0
)

// JSONSchema is the structured-output schema used with ResponseJSONSchema.
type JSONSchema struct {
	Name   string         `json:"name" yaml:"name"`
	Strict *bool          `json:"strict,omitempty" yaml:"strict,omitempty"`
	Schema map[string]any `json:"schema" yaml:"schema"`
}

// Function describes a callable function exposed to the model.
type Function struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// ToolDefinition is one entry of the tools list, in the OpenAI wire shape.
// Only Type "function" entries carry a Function.
type ToolDefinition struct {
	Type     string    `json:"type" yaml:"type"`
	Function *Function `json:"function,omitempty" yaml:"function,omitempty"`
}

// FunctionTool returns a function-type ToolDefinition.
func FunctionTool(name, description string, parameters map[string]any) ToolDefinition {
	return ToolDefinition{
		Type: "function",
		Function: &Function{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
	}
}

// Config is one prompt configuration.
//
// Temperature and TopP are pointers because their "set" state matters to the
// builders independently of their value. For every other numeric field the
// zero value means unset.
type Config struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Provider is advisory only. Builders derive the target from Model.
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty"`
	Model    string `json:"model" yaml:"model"`

	SystemPrompt       string `json:"systemPrompt" yaml:"systemPrompt"`
	UserPromptTemplate string `json:"userPromptTemplate" yaml:"userPromptTemplate"`

	Temperature       *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	MaxTokens         int      `json:"maxTokens,omitempty" yaml:"maxTokens,omitempty"`
	TopP              *float64 `json:"topP,omitempty" yaml:"topP,omitempty"`
	TopK              int      `json:"topK,omitempty" yaml:"topK,omitempty"`
	FrequencyPenalty  float64  `json:"frequencyPenalty,omitempty" yaml:"frequencyPenalty,omitempty"`
	PresencePenalty   float64  `json:"presencePenalty,omitempty" yaml:"presencePenalty,omitempty"`
	RepetitionPenalty float64  `json:"repetitionPenalty,omitempty" yaml:"repetitionPenalty,omitempty"`
	MinP              float64  `json:"minP,omitempty" yaml:"minP,omitempty"`
	StopSequences     []string `json:"stopSequences,omitempty" yaml:"stopSequences,omitempty"`

	ResponseFormat ResponseFormat `json:"responseFormat,omitempty" yaml:"responseFormat,omitempty"`
	JSONSchema     *JSONSchema    `json:"jsonSchema,omitempty" yaml:"jsonSchema,omitempty"`

	Tools      []ToolDefinition `json:"tools,omitempty" yaml:"tools,omitempty"`
	ToolChoice ToolChoice       `json:"toolChoice,omitempty" yaml:"toolChoice,omitempty"`

	Reasoning       bool            `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`
	ReasoningEffort ReasoningEffort `json:"reasoningEffort,omitempty" yaml:"reasoningEffort,omitempty"`

	// SampleInputs are preview values for template variables. They are never
	// sent to a provider on their own.
	SampleInputs map[string]string `json:"sampleInputs,omitempty" yaml:"sampleInputs,omitempty"`

	// Metadata is opaque to this module.
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Default returns a configuration with every field at its documented
// default. The id is left empty.
func Default() Config {
	return Config{
		Temperature:       Float(DefaultTemperature),
		TopP:              Float(DefaultTopP),
		RepetitionPenalty: DefaultRepetitionPenalty,
		ResponseFormat:    ResponseText,
		ToolChoice:        ToolChoiceAuto,
		ReasoningEffort:   EffortMedium,
	}
}

// New returns Default with a fresh random id, name and model.
func New(name, model string) Config {
	c := Default()
	c.ID = uuid.NewString()
	c.Name = name
	c.Model = model

	return c
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	out := c

	if c.Temperature != nil {
		out.Temperature = Float(*c.Temperature)
	}
	if c.TopP != nil {
		out.TopP = Float(*c.TopP)
	}

	out.StopSequences = slices.Clone(c.StopSequences)
	out.JSONSchema = c.JSONSchema.clone()
	out.Tools = cloneTools(c.Tools)
	out.SampleInputs = maps.Clone(c.SampleInputs)
	out.Metadata = cloneMap(c.Metadata)

	return out
}

// WithModel returns a copy of c using model.
func (c Config) WithModel(model string) Config {
	out := c.Clone()
	out.Model = model

	return out
}

// WithPrompts returns a copy of c with the system prompt and user template
// replaced.
func (c Config) WithPrompts(system, user string) Config {
	out := c.Clone()
	out.SystemPrompt = system
	out.UserPromptTemplate = user

	return out
}

// WithTemperature returns a copy of c with temperature set to v.
func (c Config) WithTemperature(v float64) Config {
	out := c.Clone()
	out.Temperature = Float(v)

	return out
}

// WithTopP returns a copy of c with top_p set to v.
func (c Config) WithTopP(v float64) Config {
	out := c.Clone()
	out.TopP = Float(v)

	return out
}

// WithMaxTokens returns a copy of c with the output token limit set to n.
func (c Config) WithMaxTokens(n int) Config {
	out := c.Clone()
	out.MaxTokens = n

	return out
}

// WithStopSequences returns a copy of c with the given stop sequences.
func (c Config) WithStopSequences(stops ...string) Config {
	out := c.Clone()
	out.StopSequences = slices.Clone(stops)

	return out
}

// WithTools returns a copy of c whose tools are replaced by tools.
func (c Config) WithTools(tools ...ToolDefinition) Config {
	out := c.Clone()
	out.Tools = cloneTools(tools)

	return out
}

// AppendTools returns a copy of c with tools added after the existing ones.
func (c Config) AppendTools(tools ...ToolDefinition) Config {
	out := c.Clone()
	out.Tools = append(out.Tools, cloneTools(tools)...)

	return out
}

// WithToolChoice returns a copy of c with the given tool choice.
func (c Config) WithToolChoice(tc ToolChoice) Config {
	out := c.Clone()
	out.ToolChoice = tc

	return out
}

// WithResponseFormat returns a copy of c with the given format and schema.
// The schema is only meaningful for ResponseJSONSchema.
func (c Config) WithResponseFormat(f ResponseFormat, schema *JSONSchema) Config {
	out := c.Clone()
	out.ResponseFormat = f
	out.JSONSchema = schema.clone()

	return out
}

// WithReasoning returns a copy of c with reasoning toggled and the effort set.
func (c Config) WithReasoning(on bool, effort ReasoningEffort) Config {
	out := c.Clone()
	out.Reasoning = on
	out.ReasoningEffort = effort

	return out
}

// WithSampleInput returns a copy of c with one sample input set.
func (c Config) WithSampleInput(name, value string) Config {
	out := c.Clone()
	if out.SampleInputs == nil {
		out.SampleInputs = make(map[string]string, 1)
	}
	out.SampleInputs[name] = value

	return out
}

func (s *JSONSchema) clone() *JSONSchema {
	if s == nil {
		return nil
	}

	out := *s
	if s.Strict != nil {
		out.Strict = Bool(*s.Strict)
	}
	out.Schema = cloneMap(s.Schema)

	return &out
}

func cloneTools(tools []ToolDefinition) []ToolDefinition {
	if tools == nil {
		return nil
	}

	out := make([]ToolDefinition, len(tools))
	for i, t := range tools {
		out[i] = t
		if t.Function != nil {
			fn := *t.Function
			fn.Parameters = cloneMap(t.Function.Parameters)
			out[i].Function = &fn
		}
	}

	return out
}

// cloneMap deep-copies JSON-like values: nested maps and slices are copied,
// scalars are shared.
func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}

	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}

	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
