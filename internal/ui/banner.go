package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const bannerArt = `
  ▄▄▄  █  █ ▀█▀ ▄▀▀▄ █▀▀▄ █    ▄▀▀▄ ▀█▀
 █▄▄▄█ █  █  █  █  █ █▄▄▀ █    █  █  █
 █   █ ▀▄▄▀  █  ▀▄▄▀ █    █▄▄▄ ▀▄▄▀  █ `

// RenderBanner returns the styled banner with its subtitle.
func RenderBanner() string {
	lines := splitLines(bannerArt)
	var rendered strings.Builder

	baseStyle := lipgloss.NewStyle().Foreground(ColorPrimary)

	maxWidth := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > maxWidth {
			maxWidth = w
		}
	}

	for _, line := range lines {
		if line == "" {
			continue
		}
		rendered.WriteString(baseStyle.Render(line) + "\n")
	}

	subtitleText := "Live plots of your notebook's time series"
	blockWidth := max(maxWidth, lipgloss.Width(subtitleText))

	subtitle := lipgloss.NewStyle().
		Foreground(ColorMuted).
		Width(blockWidth).
		Align(lipgloss.Center).
		Render(subtitleText)

	return "\n" + rendered.String() + "\n" + subtitle + "\n"
}

func splitLines(s string) []string {
	return strings.Split(strings.Trim(s, "\n"), "\n")
}
