package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))

	positionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14"))

	playingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))

	reportStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("2"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// render lays out header, frame report, prompt and help.
func (m Model) render() string {
	var b strings.Builder

	c := m.session.Cursor()
	title := "frameforge"
	if m.opts.Title != "" {
		title += " - " + m.opts.Title
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("  ")
	b.WriteString(positionStyle.Render(fmt.Sprintf("[%d/%d] %s", c.Pos(), c.Max(), c.IGT())))
	if m.playing {
		b.WriteString("  ")
		b.WriteString(playingStyle.Render("PLAYING"))
	}
	b.WriteString("\n")

	b.WriteString(reportStyle.Render(m.renderReport()))
	b.WriteString("\n")

	if m.editing {
		b.WriteString(fmt.Sprintf("Enter %s: %s\n", m.edit.Prompt(), m.input.View()))
	} else if m.status != "" {
		style := statusStyle
		if m.isError {
			style = errorStyle
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// renderReport renders the frame report, highlighting section headers and
// trimming object lists to the available height.
func (m Model) renderReport() string {
	lines := m.session.Info().Lines()

	// header + status + help + border
	if avail := m.height - 6; m.height > 0 && avail > 0 && len(lines) > avail {
		lines = append(lines[:avail-1], fmt.Sprintf("   ... %d more", len(lines)-avail+1))
	}

	out := make([]string, len(lines))
	for i, l := range lines {
		if strings.HasSuffix(l, ":") {
			out[i] = sectionStyle.Render(l)
			continue
		}
		out[i] = l
	}
	return strings.Join(out, "\n")
}
