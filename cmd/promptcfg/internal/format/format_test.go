package format

import (
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 10))
	assert.Equal(t, "hello world", Truncate("hello\nworld", 20))
	assert.Equal(t, "hel…", Truncate("hello world", 4))
	assert.Empty(t, Truncate("", 5))
	assert.Empty(t, Truncate("abc", 0))

	wide := Truncate("日本語のモデル名", 7)
	assert.LessOrEqual(t, runewidth.StringWidth(wide), 7)
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab   ", PadRight("ab", 5))
	assert.Equal(t, 6, runewidth.StringWidth(PadRight("日本", 6)))
}

func TestRenderMarkdown(t *testing.T) {
	out := RenderMarkdown("# Title\n\nsome **bold** text", 80, true)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "bold")
}
