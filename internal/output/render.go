package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorBorder = lipgloss.Color("#575653")
	colorText   = lipgloss.Color("#FFFCF0")
	colorAccent = lipgloss.Color("#3AA99F")
	colorGreen  = lipgloss.Color("#879A39")
	colorOrange = lipgloss.Color("#DA702C")
	colorRed    = lipgloss.Color("#D14D41")
	colorMuted  = lipgloss.Color("#6F6E69")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
	goodStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	warnStyle  = lipgloss.NewStyle().Foreground(colorOrange)
	badStyle   = lipgloss.NewStyle().Foreground(colorRed)
	dimStyle   = lipgloss.NewStyle().Foreground(colorBorder)
)

type table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

func renderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Width(60).
		Align(lipgloss.Center).
		Padding(0, 1)
	return border.Render(titleStyle.Render(title))
}

// renderTable draws a bordered table; widths are measured in terminal cells.
func renderTable(t table) string {
	numCols := len(t.Headers)
	if numCols == 0 {
		return ""
	}
	widths := make([]int, numCols)
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < numCols && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + headerStyle.Render(t.Title) + "\n")
	}
	rule := func(left, mid, right string) {
		b.WriteString(dimStyle.Render(left))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render(mid))
			}
		}
		b.WriteString(dimStyle.Render(right) + "\n")
	}
	line := func(cells []string, style *lipgloss.Style) {
		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
			text := " " + cell + pad + " "
			if i > 0 {
				text = " " + pad + cell + " "
			}
			if style != nil {
				text = style.Render(text)
			}
			b.WriteString(text)
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
	}

	rule("╭", "┬", "╮")
	line(t.Headers, &headerStyle)
	rule("├", "┼", "┤")
	for _, row := range t.Rows {
		line(row, nil)
	}
	rule("╰", "┴", "╯")
	return b.String()
}

// rateStyle colours a success rate.
func rateStyle(rate float64) lipgloss.Style {
	switch {
	case rate >= 95:
		return goodStyle
	case rate >= 80:
		return warnStyle
	default:
		return badStyle
	}
}

func styledRate(rate float64) string {
	return rateStyle(rate).Render(fmt.Sprintf("%.1f%%", rate))
}
