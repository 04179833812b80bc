package openai

import (
	"encoding/json"
	"testing"

	"github.com/germanamz/promptcfg/pkg/prompts/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sdkWire(t *testing.T, p Payload) map[string]any {
	t.Helper()

	params := ToSDKParams(p)
	data, err := json.Marshal(params)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))

	return m
}

func TestToSDKParams_Basic(t *testing.T) {
	c := config.Config{
		Model:              "openai/gpt-4o",
		SystemPrompt:       "You are helpful.",
		UserPromptTemplate: "Hello!",
	}.WithTemperature(0.2).WithMaxTokens(512).WithTopP(0.9).WithStopSequences("END")

	p, _ := Build(c, nil)
	m := sdkWire(t, p)

	assert.Equal(t, "openai/gpt-4o", m["model"])
	assert.InDelta(t, 0.2, m["temperature"], 1e-9)
	assert.InDelta(t, 512, m["max_tokens"], 1e-9)
	assert.InDelta(t, 0.9, m["top_p"], 1e-9)
	assert.Equal(t, []any{"END"}, m["stop"])

	msgs, ok := m["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "user", msgs[1].(map[string]any)["role"])
	assert.Equal(t, "Hello!", msgs[1].(map[string]any)["content"])
}

func TestToSDKParams_ToolsAndExtras(t *testing.T) {
	c := baseConfig().
		WithTools(weatherTool()).
		WithToolChoice(config.ToolChoiceRequired).
		WithReasoning(true, config.EffortHigh).
		WithResponseFormat(config.ResponseJSONObject, nil)
	c.TopK = 20
	c.MinP = 0.1

	p, _ := Build(c, nil)
	m := sdkWire(t, p)

	tools, ok := m["tools"].([]any)
	require.True(t, ok)
	require.Len(t, tools, 1)
	fn := tools[0].(map[string]any)["function"].(map[string]any)
	assert.Equal(t, "get_weather", fn["name"])
	assert.Equal(t, "Get weather", fn["description"])

	assert.Equal(t, "required", m["tool_choice"])
	assert.Equal(t, map[string]any{"type": "json_object"}, m["response_format"])
	assert.InDelta(t, 20, m["top_k"], 1e-9)
	assert.InDelta(t, 0.1, m["min_p"], 1e-9)
	assert.Equal(t, map[string]any{"effort": "high"}, m["reasoning"])
}
