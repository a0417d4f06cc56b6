package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type panelStyles struct {
	canvas lipgloss.Style
	stats  lipgloss.Style
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	warn   lipgloss.Style
	graph  lipgloss.Style
	help   lipgloss.Style
}

func stylesFor(t Theme) panelStyles {
	return panelStyles{
		canvas: lipgloss.NewStyle().Padding(1, 2),
		stats: lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).Padding(1, 2).Width(45),
		header: lipgloss.NewStyle().Foreground(t.Header).Bold(true).MarginBottom(1),
		label:  lipgloss.NewStyle().Foreground(t.Label).Width(12),
		value:  lipgloss.NewStyle().Foreground(t.Value),
		warn:   lipgloss.NewStyle().Foreground(t.Warn).Bold(true),
		graph:  lipgloss.NewStyle().Foreground(t.Chart).Padding(1, 0),
		help:   lipgloss.NewStyle().Foreground(t.Muted).MarginTop(2),
	}
}

// ShareBar renders part/total as a filled bar of the given width.
func ShareBar(part, total, width int) string {
	filled := 0
	if total > 0 {
		filled = part * width / total
	}
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Sparkline renders the last width values as block characters.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	var b strings.Builder
	for _, v := range values {
		idx := 0
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(chars)-1))
		}
		b.WriteRune(chars[idx])
	}
	return b.String()
}
