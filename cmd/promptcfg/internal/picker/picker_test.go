package picker

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/germanamz/promptcfg/pkg/catalog"
)

func models() []catalog.Model {
	return []catalog.Model{
		{ID: "openai/gpt-4o", Name: "GPT-4o", ContextLength: 128000},
		{ID: "anthropic/claude-3-opus", Name: "Claude 3 Opus", ContextLength: 200000},
		{ID: "anthropic/claude-3-haiku", Name: "Claude 3 Haiku", ContextLength: 200000},
		{ID: "meta-llama/llama-3-70b", Name: "Llama 3 70B", ContextLength: 8192},
	}
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPicker_FilterAndSelect(t *testing.T) {
	m := New(models(), "")

	m = send(m, runes("claude"))
	assert.Len(t, m.filtered, 2)

	m = send(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})

	id, ok := m.Chosen()
	assert.True(t, ok)
	assert.Equal(t, "anthropic/claude-3-haiku", id)
}

func TestPicker_StartsOnCurrent(t *testing.T) {
	m := New(models(), "meta-llama/llama-3-70b")
	assert.Equal(t, 3, m.cursor)

	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	id, ok := m.Chosen()
	assert.True(t, ok)
	assert.Equal(t, "meta-llama/llama-3-70b", id)
}

func TestPicker_CursorBounds(t *testing.T) {
	m := New(models(), "")

	m = send(m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor)

	for range 10 {
		m = send(m, tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, 3, m.cursor)
}

func TestPicker_Cancel(t *testing.T) {
	m := send(New(models(), ""), tea.KeyMsg{Type: tea.KeyEsc})

	_, ok := m.Chosen()
	assert.True(t, m.cancelled)
	assert.False(t, ok)
}

func TestPicker_NoMatches(t *testing.T) {
	m := send(New(models(), ""), runes("zzz"), tea.KeyMsg{Type: tea.KeyEnter})

	_, ok := m.Chosen()
	assert.False(t, ok)
	assert.Contains(t, m.View(), "no matching models")
}

func TestPicker_ScrollWindow(t *testing.T) {
	m := New(models(), "")
	m = send(m, tea.WindowSizeMsg{Width: 100, Height: 8})
	assert.Equal(t, 2, m.maxShow)

	m = send(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.cursor)
	assert.Equal(t, 1, m.offset)

	view := m.View()
	assert.Contains(t, view, "claude-3-opus")
	assert.NotContains(t, view, "gpt-4o")
}
