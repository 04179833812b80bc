package preview

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/germanamz/promptcfg/pkg/payloads"
	"github.com/germanamz/promptcfg/pkg/payloads/anthropic"
	"github.com/germanamz/promptcfg/pkg/payloads/openai"
	"github.com/germanamz/promptcfg/pkg/prompts/config"
	"github.com/germanamz/promptcfg/pkg/prompts/role"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleConfig() config.Config {
	return config.Default().
		WithModel("anthropic/claude-3-opus").
		WithPrompts("Be brief.", "Summarize {{text}} for {{audience}}").
		WithSampleInput("text", "the report")
}

func TestRender_Targets(t *testing.T) {
	for _, target := range Targets {
		t.Run(string(target), func(t *testing.T) {
			resp, err := Render(Request{Config: sampleConfig(), Target: target})
			require.NoError(t, err)

			assert.Equal(t, target, resp.Target)
			assert.Equal(t, []string{"text", "audience"}, resp.InputVariables)
			assert.Equal(t, []string{"audience"}, resp.Missing)
			assert.NotEmpty(t, resp.Messages)
			assert.NotNil(t, resp.Payload)
		})
	}
}

func TestRender_PayloadShapes(t *testing.T) {
	resp, err := Render(Request{Config: sampleConfig(), Target: TargetAnthropic, Variables: map[string]string{"audience": "execs"}})
	require.NoError(t, err)

	p, ok := resp.Payload.(anthropic.Payload)
	require.True(t, ok)
	assert.Equal(t, "claude-3-opus", p.Model)
	assert.Equal(t, []payloads.Message{{Role: role.User, Content: "Summarize the report for execs"}}, resp.Messages)
	assert.Empty(t, resp.Missing)

	resp, err = Render(Request{Config: sampleConfig(), Target: TargetOpenRouter})
	require.NoError(t, err)
	_, ok = resp.Payload.(openai.Payload)
	assert.True(t, ok)
	assert.Len(t, resp.Messages, 2)

	resp, err = Render(Request{Config: sampleConfig(), Target: TargetLangChain})
	require.NoError(t, err)
	lc, ok := resp.Payload.(LangChainPayload)
	require.True(t, ok)
	assert.Equal(t, "Summarize {text} for {audience}", lc.Prompt.UserTemplate)
	assert.Equal(t, "claude-3-opus", lc.Client.Model)
}

func TestRender_UnknownTarget(t *testing.T) {
	_, err := Render(Request{Config: sampleConfig(), Target: "gemini"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownTarget))
}

func TestRender_EmptyConfigEncodesArrays(t *testing.T) {
	resp, err := Render(Request{Target: TargetOpenAI})
	require.NoError(t, err)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"target": "openai",
		"payload": {"model": "", "messages": []},
		"messages": [],
		"inputVariables": [],
		"missing": []
	}`, string(data))
}
