package langchain

import (
	"encoding/json"
	"testing"

	"github.com/germanamz/promptcfg/pkg/payloads"
	"github.com/germanamz/promptcfg/pkg/prompts/config"
	"github.com/germanamz/promptcfg/pkg/prompts/role"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToPromptTemplate(t *testing.T) {
	c := config.Default().WithPrompts("Keep {{tone}} tone.", "Summarize {{text}} for {{audience}}, then {{text}} again")

	pt := ToPromptTemplate(c)

	assert.Equal(t, "Keep {{tone}} tone.", pt.SystemTemplate)
	assert.Equal(t, "Summarize {text} for {audience}, then {text} again", pt.UserTemplate)
	assert.Equal(t, []string{"text", "audience"}, pt.InputVariables)
	assert.Equal(t, []payloads.Message{
		{Role: role.System, Content: "Keep {{tone}} tone."},
		{Role: role.User, Content: "Summarize {text} for {audience}, then {text} again"},
	}, pt.Messages())
}

func TestToPromptTemplate_Empty(t *testing.T) {
	pt := ToPromptTemplate(config.Config{})

	data, err := json.Marshal(pt)
	require.NoError(t, err)
	assert.JSONEq(t, `{"systemTemplate":"","userTemplate":"","inputVariables":[]}`, string(data))
	assert.Empty(t, pt.Messages())
}

func TestNewModelConfig(t *testing.T) {
	t.Run("required fields always present", func(t *testing.T) {
		mc := NewModelConfig(config.Config{})

		data, err := json.Marshal(mc)
		require.NoError(t, err)
		assert.JSONEq(t, `{"modelName":"","temperature":1,"maxTokens":0}`, string(data))
	})

	t.Run("defaults elided", func(t *testing.T) {
		c := config.Default().WithModel("openai/gpt-4o").WithTemperature(0.3).WithMaxTokens(256)

		mc := NewModelConfig(c)
		assert.Equal(t, ModelConfig{ModelName: "openai/gpt-4o", Temperature: 0.3, MaxTokens: 256}, mc)
	})

	t.Run("optional fields included", func(t *testing.T) {
		c := config.Default().WithTopP(0.8).WithStopSequences("###")
		c.TopK = 10
		c.FrequencyPenalty = 0.4
		c.PresencePenalty = -0.2
		c.MinP = 0.1

		data, err := json.Marshal(NewModelConfig(c))
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"modelName": "", "temperature": 1, "maxTokens": 0,
			"topP": 0.8, "topK": 10, "frequencyPenalty": 0.4, "presencePenalty": -0.2,
			"stop": ["###"]
		}`, string(data))
	})
}

func TestProvider(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"anthropic/claude-sonnet-4-5", "anthropic"},
		{"gpt-4o", "gpt-4o"},
		{"", "unknown"},
		{"meta-llama/llama-3/70b", "meta-llama"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Provider(tt.in))
		})
	}
}

func TestClientTargetFor(t *testing.T) {
	tests := []struct {
		model string
		want  ClientTarget
	}{
		{"anthropic/claude-3-opus", ClientTarget{Kind: ClientAnthropic, Model: "claude-3-opus"}},
		{"openai/gpt-4o", ClientTarget{Kind: ClientOpenAI, Model: "gpt-4o"}},
		{"meta-llama/llama-3-70b", ClientTarget{Kind: ClientOpenRouter, Model: "meta-llama/llama-3-70b", BaseURL: OpenRouterBaseURL}},
		{"gpt-4o", ClientTarget{Kind: ClientOpenRouter, Model: "gpt-4o", BaseURL: OpenRouterBaseURL}},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			c := config.Default().WithModel(tt.model).WithMaxTokens(100)
			tt.want.Config = NewModelConfig(c)

			assert.Equal(t, tt.want, ClientTargetFor(c))
		})
	}
}
