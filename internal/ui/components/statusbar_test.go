package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestHintIncludesKeyAndDesc(t *testing.T) {
	out := Hint("tab", "View")
	assert.Contains(t, out, "View")
	assert.Contains(t, out, "tab")
}

func TestBadgeIncludesLabelAndValue(t *testing.T) {
	out := SanitizeText(Badge("view", "dtale"))
	assert.Contains(t, out, "view")
	assert.Contains(t, out, "dtale")
}

func TestStatusBarRendersBadgesBeforeHints(t *testing.T) {
	out := StatusBar([]string{Badge("view", "graph")}, []string{Hint("q", "Quit")}, 0)
	assert.Contains(t, out, "graph")
	assert.Contains(t, out, "Quit")
	assert.Less(t, strings.Index(out, "graph"), strings.Index(out, "Quit"))
}

func TestStatusBarEmpty(t *testing.T) {
	assert.Equal(t, "", StatusBar(nil, nil, 80))
}

func TestWrapSegmentsWrapsWhenNarrow(t *testing.T) {
	segments := []string{"123456", "abcdef", "ghijkl"}
	rows := wrapSegments(segments, 10)
	assert.Len(t, rows, 3)
	for _, row := range rows {
		assert.LessOrEqual(t, lipgloss.Width(row), 10)
	}
}

func TestWrapSegmentsKeepsRowWhenWide(t *testing.T) {
	rows := wrapSegments([]string{"ab", "cd"}, 0)
	assert.Equal(t, []string{"abcd"}, rows)
}

