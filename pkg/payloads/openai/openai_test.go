package openai

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/germanamz/promptcfg/pkg/payloads"
	"github.com/germanamz/promptcfg/pkg/prompts/config"
	"github.com/germanamz/promptcfg/pkg/prompts/role"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// baseConfig mirrors a freshly created configuration as the editor emits it.
func baseConfig() config.Config {
	c := config.Default()
	c.ID = "test"
	c.Name = "Test"
	c.Model = "openai/gpt-4o"
	c.MaxTokens = 4096

	return c
}

func wire(t *testing.T, p Payload) map[string]any {
	t.Helper()

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))

	return m
}

func weatherTool() config.ToolDefinition {
	return config.FunctionTool("get_weather", "Get weather", map[string]any{"type": "object", "properties": map[string]any{}})
}

func TestBuild_MinimalPayload(t *testing.T) {
	c := config.Config{
		Model:              "openai/gpt-4o",
		SystemPrompt:       "You are helpful.",
		UserPromptTemplate: "Hello!",
	}

	p, msgs := Build(c, nil)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"model": "openai/gpt-4o",
		"messages": [
			{"role": "system", "content": "You are helpful."},
			{"role": "user", "content": "Hello!"}
		]
	}`, string(data))
	assert.Equal(t, p.Messages, msgs)
}

func TestBuild_EmptyConfig(t *testing.T) {
	p, msgs := Build(config.Config{}, nil)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"model": "", "messages": []}`, string(data))
	assert.Empty(t, msgs)
}

func TestBuild_Messages(t *testing.T) {
	t.Run("system omitted when empty", func(t *testing.T) {
		c := baseConfig().WithPrompts("", "Hello!")
		_, msgs := Build(c, nil)
		assert.Equal(t, []payloads.Message{{Role: role.User, Content: "Hello!"}}, msgs)
	})

	t.Run("user omitted when resolved empty", func(t *testing.T) {
		c := baseConfig().WithPrompts("sys", "")
		_, msgs := Build(c, nil)
		assert.Equal(t, []payloads.Message{{Role: role.System, Content: "sys"}}, msgs)
	})

	t.Run("system prompt is not templated", func(t *testing.T) {
		c := baseConfig().WithPrompts("Be {{tone}}", "x")
		_, msgs := Build(c, map[string]string{"tone": "brief"})
		assert.Equal(t, "Be {{tone}}", msgs[0].Content)
	})
}

func TestBuild_Variables(t *testing.T) {
	c := baseConfig().WithPrompts("", "Summarize: {{text}}")

	_, msgs := Build(c, map[string]string{"text": "test content"})
	assert.Equal(t, "Summarize: test content", msgs[0].Content)

	withSample := c.WithSampleInput("text", "sample text")
	_, msgs = Build(withSample, nil)
	assert.Equal(t, "Summarize: sample text", msgs[0].Content)

	_, msgs = Build(withSample, map[string]string{"text": "override"})
	assert.Equal(t, "Summarize: override", msgs[0].Content)

	_, msgs = Build(c, nil)
	assert.Equal(t, "Summarize: {{text}}", msgs[0].Content)
}

func TestBuild_ElisionRules(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		key     string
		present bool
		want    any
	}{
		{"temperature default included", baseConfig(), "temperature", true, 1.0},
		{"temperature zero included", baseConfig().WithTemperature(0), "temperature", true, 0.0},
		{"temperature unset omitted", config.Config{}, "temperature", false, nil},
		{"temperature NaN omitted", baseConfig().WithTemperature(math.NaN()), "temperature", false, nil},
		{"max tokens included", baseConfig().WithMaxTokens(2048), "max_tokens", true, 2048.0},
		{"max tokens zero omitted", baseConfig().WithMaxTokens(0), "max_tokens", false, nil},
		{"max tokens negative omitted", baseConfig().WithMaxTokens(-5), "max_tokens", false, nil},
		{"top_p 1 omitted", baseConfig().WithTopP(1), "top_p", false, nil},
		{"top_p 0.9 included", baseConfig().WithTopP(0.9), "top_p", true, 0.9},
		{"top_p 0 included", baseConfig().WithTopP(0), "top_p", true, 0.0},
		{"top_k zero omitted", baseConfig(), "top_k", false, nil},
		{"top_k included", func() config.Config { c := baseConfig(); c.TopK = 40; return c }(), "top_k", true, 40.0},
		{"frequency penalty zero omitted", baseConfig(), "frequency_penalty", false, nil},
		{"frequency penalty included", func() config.Config { c := baseConfig(); c.FrequencyPenalty = -0.5; return c }(), "frequency_penalty", true, -0.5},
		{"presence penalty included", func() config.Config { c := baseConfig(); c.PresencePenalty = 0.3; return c }(), "presence_penalty", true, 0.3},
		{"repetition penalty 1 omitted", baseConfig(), "repetition_penalty", false, nil},
		{"repetition penalty zero omitted", func() config.Config { c := baseConfig(); c.RepetitionPenalty = 0; return c }(), "repetition_penalty", false, nil},
		{"repetition penalty included", func() config.Config { c := baseConfig(); c.RepetitionPenalty = 1.2; return c }(), "repetition_penalty", true, 1.2},
		{"min_p zero omitted", baseConfig(), "min_p", false, nil},
		{"min_p included", func() config.Config { c := baseConfig(); c.MinP = 0.05; return c }(), "min_p", true, 0.05},
		{"stop empty omitted", baseConfig(), "stop", false, nil},
		{"stop included in order", baseConfig().WithStopSequences("END", "STOP"), "stop", true, []any{"END", "STOP"}},
		{"reasoning off omitted", baseConfig(), "reasoning", false, nil},
		{"reasoning on", baseConfig().WithReasoning(true, config.EffortHigh), "reasoning", true, map[string]any{"effort": "high"}},
		{"reasoning default effort", baseConfig().WithReasoning(true, ""), "reasoning", true, map[string]any{"effort": "medium"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := Build(tt.cfg, nil)
			m := wire(t, p)

			got, ok := m[tt.key]
			require.Equal(t, tt.present, ok, "presence of %q", tt.key)
			if tt.present {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestBuild_ResponseFormat(t *testing.T) {
	p, _ := Build(baseConfig(), nil)
	assert.NotContains(t, wire(t, p), "response_format")

	p, _ = Build(baseConfig().WithResponseFormat(config.ResponseJSONObject, nil), nil)
	assert.Equal(t, map[string]any{"type": "json_object"}, wire(t, p)["response_format"])

	schema := &config.JSONSchema{Name: "test", Schema: map[string]any{"type": "object"}}
	p, _ = Build(baseConfig().WithResponseFormat(config.ResponseJSONSchema, schema), nil)
	assert.Equal(t, map[string]any{
		"type":        "json_schema",
		"json_schema": map[string]any{"name": "test", "schema": map[string]any{"type": "object"}},
	}, wire(t, p)["response_format"])

	p, _ = Build(baseConfig().WithResponseFormat(config.ResponseJSONSchema, nil), nil)
	assert.NotContains(t, wire(t, p), "response_format")
}

func TestBuild_Tools(t *testing.T) {
	c := baseConfig().WithTools(weatherTool())

	p, _ := Build(c, nil)
	m := wire(t, p)
	assert.Equal(t, []any{map[string]any{
		"type": "function",
		"function": map[string]any{
			"name":        "get_weather",
			"description": "Get weather",
			"parameters":  map[string]any{"type": "object", "properties": map[string]any{}},
		},
	}}, m["tools"])
	assert.NotContains(t, m, "tool_choice")

	p, _ = Build(c.WithToolChoice(config.ToolChoiceRequired), nil)
	assert.Equal(t, "required", wire(t, p)["tool_choice"])

	p, _ = Build(c.WithToolChoice(config.ToolChoiceNone), nil)
	assert.Equal(t, "none", wire(t, p)["tool_choice"])

	p, _ = Build(c.WithToolChoice(""), nil)
	assert.NotContains(t, wire(t, p), "tool_choice")

	noTools := baseConfig().WithToolChoice(config.ToolChoiceRequired)
	p, _ = Build(noTools, nil)
	m = wire(t, p)
	assert.NotContains(t, m, "tools")
	assert.NotContains(t, m, "tool_choice")
}

func TestBuild_DoesNotAliasConfig(t *testing.T) {
	c := baseConfig().
		WithStopSequences("END").
		WithTools(weatherTool()).
		WithResponseFormat(config.ResponseJSONSchema, &config.JSONSchema{Name: "s", Schema: map[string]any{"type": "object"}})

	p, msgs := Build(c, nil)
	p.Stop[0] = "CHANGED"
	p.Tools[0].Function.Name = "changed"
	p.ResponseFormat.JSONSchema.Schema["type"] = "array"
	msgs = append(msgs[:0], payloads.Message{Role: role.User, Content: "x"})

	assert.Equal(t, "END", c.StopSequences[0])
	assert.Equal(t, "get_weather", c.Tools[0].Function.Name)
	assert.Equal(t, "object", c.JSONSchema.Schema["type"])
	assert.Len(t, msgs, 1)
}

func TestBuildOpenRouter_SameAsBuild(t *testing.T) {
	c := baseConfig().WithPrompts("sys", "hi").WithReasoning(true, config.EffortLow)

	a, _ := Build(c, nil)
	b, _ := BuildOpenRouter(c, nil)

	assert.Equal(t, a, b)
}
