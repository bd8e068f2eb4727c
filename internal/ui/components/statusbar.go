package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	hintKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#16161d")).
			Background(lipgloss.Color("#9ba0bf")).
			Bold(true).
			Padding(0, 1)
	hintDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ba0bf"))
	badgeLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#16161d")).
			Background(lipgloss.Color("#ff7f0e")).
			Bold(true).
			Padding(0, 1)
	badgeValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d7d9da")).
			Padding(0, 1)
	segmentStyle = lipgloss.NewStyle().
			MarginRight(2)
	statusBarStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(lipgloss.Color("#273540"))
)

// StatusBar renders session badges followed by key hints under a rule.
// Segments wrap onto more rows when they do not fit in width.
func StatusBar(badges, hints []string, width int) string {
	segments := make([]string, 0, len(badges)+len(hints))
	for _, s := range append(append([]string{}, badges...), hints...) {
		segments = append(segments, segmentStyle.Render(s))
	}
	if len(segments) == 0 {
		return ""
	}
	rows := wrapSegments(segments, width)
	block := strings.Join(rows, "\n")
	if width <= 0 {
		return statusBarStyle.Render(block)
	}
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(block)
}

// Hint formats a key hint like "Next Cell enter".
func Hint(key, desc string) string {
	return hintDescStyle.Render(desc+" ") + hintKeyStyle.Render(key)
}

// Badge formats a piece of session state, e.g. the active view.
func Badge(label, value string) string {
	return badgeLabelStyle.Render(label) + badgeValueStyle.Render(value)
}

func wrapSegments(segments []string, width int) []string {
	if width <= 0 {
		return []string{lipgloss.JoinHorizontal(lipgloss.Top, segments...)}
	}
	var rows []string
	var current []string
	used := 0
	for _, seg := range segments {
		w := lipgloss.Width(seg)
		if used > 0 && used+w > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current, used = nil, 0
		}
		current = append(current, seg)
		used += w
	}
	if len(current) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
	}
	return rows
}
