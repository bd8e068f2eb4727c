package components

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/autoplot/internal/series"
)

// Figure inches are mapped onto terminal cells with these factors.
const (
	CellsPerInchX = 6
	CellsPerInchY = 3
)

const chartGlyph = "•"

var (
	chartAxisStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#436b77"))
	chartTickStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ba0bf"))
	chartYLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#7f57b4")).
				Bold(true)
	chartEmptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ba0bf")).
			Italic(true)
)

// ChartLine is a single coloured trace.
type ChartLine struct {
	Label  string
	Colour string
	Points series.Data
}

// ChartOptions controls figure size (in inches) and axis labelling.
type ChartOptions struct {
	Width  float64
	Height float64
	YLabel string
}

// ChartSize converts a figure size in inches to columns and rows.
func ChartSize(width, height float64) (int, int) {
	cols := int(math.Round(width * CellsPerInchX))
	rows := int(math.Round(height * CellsPerInchY))
	return max(cols, 2), max(rows, 2)
}

// Chart renders lines as a terminal line chart with a legend underneath.
func Chart(lines []ChartLine, opts ChartOptions) string {
	cols, rows := ChartSize(opts.Width, opts.Height)

	t0, t1, lo, hi, ok := chartBounds(lines)
	if !ok {
		return chartEmptyStyle.Render(padRight("no series to plot", cols))
	}

	grid := make([][]int, rows)
	for r := range grid {
		grid[r] = make([]int, cols)
		for c := range grid[r] {
			grid[r][c] = -1
		}
	}

	project := func(p series.Point) (int, int) {
		x := 0
		if span := t1.Sub(t0); span > 0 {
			x = int(math.Round(float64(p.Time.Sub(t0)) / float64(span) * float64(cols-1)))
		}
		y := rows - 1 - int(math.Round((p.Value-lo)/(hi-lo)*float64(rows-1)))
		return x, y
	}

	for li, line := range lines {
		for i, p := range line.Points {
			if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
				continue
			}
			x1, y1 := project(p)
			grid[y1][x1] = li
			if i == 0 {
				continue
			}
			prev := line.Points[i-1]
			if math.IsNaN(prev.Value) || math.IsInf(prev.Value, 0) {
				continue
			}
			x0, y0 := project(prev)
			steps := max(abs(x1-x0), abs(y1-y0), 1)
			for s := 1; s < steps; s++ {
				x := x0 + int(math.Round(float64((x1-x0)*s)/float64(steps)))
				y := y0 + int(math.Round(float64((y1-y0)*s)/float64(steps)))
				grid[y][x] = li
			}
		}
	}

	styles := make([]lipgloss.Style, len(lines))
	for i, line := range lines {
		styles[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(line.Colour))
	}

	ticks := map[int]string{
		0:        formatTick(hi),
		rows / 2: formatTick(lo + (hi-lo)/2),
		rows - 1: formatTick(lo),
	}
	tickWidth := 0
	for _, t := range ticks {
		tickWidth = max(tickWidth, lipgloss.Width(t))
	}

	var out []string
	if opts.YLabel != "" {
		out = append(out, chartYLabelStyle.Render(SanitizeOneLine(opts.YLabel)))
	}
	for r, row := range grid {
		var b strings.Builder
		b.WriteString(chartTickStyle.Render(fmt.Sprintf("%*s", tickWidth, ticks[r])))
		b.WriteString(chartAxisStyle.Render(" │"))
		for _, owner := range row {
			if owner < 0 {
				b.WriteString(" ")
				continue
			}
			b.WriteString(styles[owner].Render(chartGlyph))
		}
		out = append(out, b.String())
	}

	indent := strings.Repeat(" ", tickWidth+1)
	out = append(out, chartAxisStyle.Render(indent+"└"+strings.Repeat("─", cols)))
	start, end := formatTime(t0, t1.Sub(t0)), formatTime(t1, t1.Sub(t0))
	gap := cols + 1 - lipgloss.Width(start) - lipgloss.Width(end)
	if gap < 1 || start == end {
		out = append(out, chartTickStyle.Render(indent+start))
	} else {
		out = append(out, chartTickStyle.Render(indent+start+strings.Repeat(" ", gap)+end))
	}

	legend := make([]string, 0, len(lines))
	for i, line := range lines {
		legend = append(legend, styles[i].Render("──")+" "+boxValueStyle.Render(SanitizeOneLine(line.Label)))
	}
	out = append(out, indent+" "+strings.Join(legend, "   "))

	return strings.Join(out, "\n")
}

func chartBounds(lines []ChartLine) (time.Time, time.Time, float64, float64, bool) {
	var t0, t1 time.Time
	lo, hi := math.Inf(1), math.Inf(-1)
	found := false
	for _, line := range lines {
		for _, p := range line.Points {
			if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
				continue
			}
			if !found || p.Time.Before(t0) {
				t0 = p.Time
			}
			if !found || p.Time.After(t1) {
				t1 = p.Time
			}
			lo = math.Min(lo, p.Value)
			hi = math.Max(hi, p.Value)
			found = true
		}
	}
	if !found {
		return t0, t1, 0, 0, false
	}
	if hi == lo {
		lo, hi = lo-1, hi+1
	}
	return t0, t1, lo, hi, true
}

func formatTick(v float64) string {
	a := math.Abs(v)
	switch {
	case a != 0 && (a >= 1e6 || a < 1e-3):
		return fmt.Sprintf("%.2e", v)
	case a >= 100:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func formatTime(t time.Time, span time.Duration) string {
	if span >= 48*time.Hour {
		return t.Format("2006-01-02")
	}
	return t.Format("01-02 15:04")
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
