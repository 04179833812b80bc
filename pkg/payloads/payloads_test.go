package payloads

import (
	"math"
	"testing"

	"github.com/germanamz/promptcfg/pkg/prompts/config"
	"github.com/stretchr/testify/assert"
)

func TestMergeVariables_CallTimeWins(t *testing.T) {
	c := config.Default().WithSampleInput("text", "sample").WithSampleInput("lang", "en")

	merged := MergeVariables(c, map[string]string{"text": "override"})

	assert.Equal(t, map[string]string{"text": "override", "lang": "en"}, merged)
	assert.Equal(t, "sample", c.SampleInputs["text"])
}

func TestResolveUserPrompt(t *testing.T) {
	c := config.Default().WithPrompts("", "Summarize: {{text}} ({{lang}})").WithSampleInput("text", "sample")

	assert.Equal(t, "Summarize: sample ({{lang}})", ResolveUserPrompt(c, nil))
	assert.Equal(t, "Summarize: x (fr)", ResolveUserPrompt(c, map[string]string{"text": "x", "lang": "fr"}))
}

func TestStripProvider(t *testing.T) {
	assert.Equal(t, "claude-x", StripProvider("anthropic/claude-x"))
	assert.Equal(t, "70b", StripProvider("meta-llama/llama-3/70b"))
	assert.Equal(t, "gpt-4o", StripProvider("gpt-4o"))
	assert.Empty(t, StripProvider(""))
}

func TestFinite(t *testing.T) {
	assert.True(t, Finite(0.5))
	assert.False(t, Finite(math.NaN()))
	assert.False(t, Finite(math.Inf(1)))
}

func TestEstimateInputTokens(t *testing.T) {
	msgs := []Message{
		{Role: "system", Content: "12345678"}, // 2 tokens
		{Role: "user", Content: "123"},        // 1 token
	}

	assert.Equal(t, 4+2+4+1, EstimateInputTokens(msgs, 0, 0))
	assert.Equal(t, 11+2*10+3, EstimateInputTokens(msgs, 2, 12))
	assert.Zero(t, EstimateInputTokens(nil, 0, 0))
}
