package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func sampleModels() []Model {
	return []Model{
		{ID: "openai/gpt-4o", Name: "OpenAI: GPT-4o", ContextLength: 128000, SupportedParameters: []string{"temperature", "tools"}},
		{ID: "anthropic/claude-3-opus", Name: "Anthropic: Claude 3 Opus", ContextLength: 200000},
		{ID: "openai/gpt-4o-mini", Name: "OpenAI: GPT-4o mini", ContextLength: 128000},
		{ID: "meta-llama/llama-3-70b", Name: "Meta: Llama 3 70B"},
		{ID: "anthropic/claude-3-haiku", Name: "Anthropic: Claude 3 Haiku"},
		{ID: "openai/o1", Name: "OpenAI: o1"},
		{ID: "mistral", Name: "Mistral bare"},
	}
}

func TestFindByID(t *testing.T) {
	m, ok := FindByID(sampleModels(), "anthropic/claude-3-opus")
	assert.True(t, ok)
	assert.Equal(t, 200000, m.ContextLength)

	_, ok = FindByID(sampleModels(), "nope")
	assert.False(t, ok)

	_, ok = FindByID(nil, "openai/gpt-4o")
	assert.False(t, ok)
}

func TestGroupByProvider(t *testing.T) {
	got := GroupByProvider(sampleModels())
	want := []ProviderCount{
		{Prefix: "openai", Count: 3},
		{Prefix: "anthropic", Count: 2},
		{Prefix: "meta-llama", Count: 1},
		{Prefix: "mistral", Count: 1},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GroupByProvider() mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupByProvider_AllowList(t *testing.T) {
	got := GroupByProvider(sampleModels(), "mistral", "anthropic")
	want := []ProviderCount{
		{Prefix: "anthropic", Count: 2},
		{Prefix: "mistral", Count: 1},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GroupByProvider() mismatch (-want +got):\n%s", diff)
	}
}

func TestSearch(t *testing.T) {
	ids := func(ms []Model) []string {
		out := make([]string, 0, len(ms))
		for _, m := range ms {
			out = append(out, m.ID)
		}
		return out
	}

	tests := []struct {
		name     string
		query    string
		prefixes []string
		want     []string
	}{
		{"matches id case-insensitively", "GPT-4O", nil, []string{"openai/gpt-4o", "openai/gpt-4o-mini"}},
		{"matches name", "haiku", nil, []string{"anthropic/claude-3-haiku"}},
		{"prefix filter before query", "claude", []string{"openai"}, []string{}},
		{"prefix filter only", "", []string{"anthropic"}, []string{"anthropic/claude-3-opus", "anthropic/claude-3-haiku"}},
		{"empty query keeps everything", "", nil, ids(sampleModels())},
		{"no match", "zzz", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Search(sampleModels(), tt.query, tt.prefixes...))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Search() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSupportsParameter(t *testing.T) {
	models := sampleModels()

	assert.True(t, SupportsParameter(models[0], "tools"))
	assert.False(t, SupportsParameter(models[0], "reasoning"))
	assert.True(t, SupportsParameter(models[1], "reasoning"), "unknown capabilities fail open")
	assert.True(t, SupportsParameter(Model{SupportedParameters: []string{}}, "top_k"))
}

func TestModel_PrefixAndPrices(t *testing.T) {
	m := Model{ID: "a/b/c", Pricing: &Pricing{Prompt: "0.000001", Completion: "0.000002"}}
	assert.Equal(t, "a", m.Prefix())
	assert.Equal(t, "0.000001", m.PromptPrice())
	assert.Equal(t, "0.000002", m.CompletionPrice())

	var bare Model
	assert.Equal(t, "", bare.Prefix())
	assert.Equal(t, "", bare.PromptPrice())
	assert.Equal(t, "", bare.CompletionPrice())
}
