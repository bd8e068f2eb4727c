package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/gravitrone/autoplot/internal/series"
)

func TestTableGridKeepsWidth(t *testing.T) {
	out := TableGrid([]TableColumn{{Header: "a", Width: 4}, {Header: "b", Width: 4}}, [][]string{{"1", "2"}}, 30, -1)
	for _, line := range strings.Split(out, "\n") {
		assert.Equal(t, 30, lipgloss.Width(line))
	}
}

func TestValueGridRendersFrameColumns(t *testing.T) {
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	df := &series.Frame{
		Index: []any{start, start.Add(24 * time.Hour), start.Add(48 * time.Hour)},
		Columns: []series.Column{
			{Name: "a", Values: []any{1, 2, 3}},
			{Name: "b", Values: []any{0.5, 1.5, 2.5}},
		},
	}
	out := SanitizeText(ValueGrid(df, 60, 2))

	assert.Contains(t, out, "index")
	assert.Contains(t, out, "2021-01-03")
	assert.Contains(t, out, "1.5")
	assert.NotContains(t, out, "2021-01-01")
	assert.Contains(t, out, "1 earlier rows")
}

func TestValueGridIgnoresUnknownValues(t *testing.T) {
	assert.Empty(t, ValueGrid(nil, 60, 0))
}

func TestTableGridHighlightKeepsWidth(t *testing.T) {
	cols := []TableColumn{{Header: "a", Width: 4}}
	out := TableGrid(cols, [][]string{{"1"}, {"2"}}, 20, 1)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 4)
	for _, line := range lines {
		assert.Equal(t, 20, lipgloss.Width(line))
	}
}
