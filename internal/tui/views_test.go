package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisibleRange(t *testing.T) {
	// Everything fits.
	start, end := visibleRange(0, 5, 10)
	assert.Equal(t, 0, start)
	assert.Equal(t, 5, end)

	// Window follows the selection.
	start, end = visibleRange(50, 100, 10)
	assert.LessOrEqual(t, start, 50)
	assert.Greater(t, end, 50)
	assert.Equal(t, 10, end-start)

	// Clamped at the tail.
	start, end = visibleRange(99, 100, 10)
	assert.Equal(t, 90, start)
	assert.Equal(t, 100, end)

	// Clamped at the head.
	start, end = visibleRange(0, 100, 10)
	assert.Equal(t, 0, start)
	assert.Equal(t, 10, end)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exact", truncate("exact", 5))
	assert.Equal(t, "long…", truncate("longer text", 5))
	assert.Equal(t, "…", truncate("ab", 1))
	assert.Equal(t, "", truncate("ab", 0))
}

func TestStripHTML(t *testing.T) {
	in := `<p>Hello <b>world</b> &amp; friends</p><p>Second&nbsp;line</p>`
	out := stripHTML(in)
	assert.Equal(t, "Hello world & friends\n\nSecond line", out)
}

func TestStripHTMLListAndEntities(t *testing.T) {
	in := `<ul><li>one</li><li>two &lt;3</li></ul>`
	out := stripHTML(in)
	assert.Contains(t, out, "one")
	assert.Contains(t, out, "two <3")
}

func TestStripHTMLPlainTextUntouched(t *testing.T) {
	assert.Equal(t, "just text", stripHTML("just text"))
	assert.Equal(t, "", stripHTML(""))
}

func TestWrapText(t *testing.T) {
	out := wrapText("alpha beta gamma delta", 11, 0)
	assert.Equal(t, "alpha beta\ngamma delta", out)

	capped := wrapText("a b c d e f", 1, 2)
	assert.Equal(t, "a\nb", capped)
}

func TestListStateClamping(t *testing.T) {
	var s ListState
	s.SetLen(3)

	s.SelectPrev()
	assert.Equal(t, 0, s.Selected)

	s.SelectNext()
	s.SelectNext()
	s.SelectNext() // clamped, no wrap
	assert.Equal(t, 2, s.Selected)

	s.SetLen(1)
	assert.Equal(t, 0, s.Selected)

	s.SetLen(0)
	assert.Equal(t, 0, s.Selected)
	s.SelectNext()
	assert.Equal(t, 0, s.Selected)
}
