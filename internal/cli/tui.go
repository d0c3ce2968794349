package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/baseline/pkg/feature"
	"github.com/matzehuels/baseline/pkg/integrations/webstatus"
	"github.com/matzehuels/baseline/pkg/report"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// FeatureListModel - Interactive catalog browser
// =============================================================================

// FeatureListModel is the bubbletea model for browsing catalog features.
type FeatureListModel struct {
	Features []webstatus.Feature
	Cursor   int
	Selected *webstatus.Feature
	Height   int
	Offset   int
}

// newFeatureListModel creates a new feature list model.
func newFeatureListModel(features []webstatus.Feature) FeatureListModel {
	return FeatureListModel{
		Features: features,
		Height:   15,
	}
}

func (m FeatureListModel) Init() tea.Cmd {
	return nil
}

func (m FeatureListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Features)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = len(m.Features) - 1
			m.Offset = max(0, m.Cursor-m.Height+1)
		case "enter":
			if len(m.Features) == 0 {
				return m, nil
			}
			f := m.Features[m.Cursor]
			m.Selected = &f
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		// Leaves room for the title, the help line and the detail pane.
		m.Height = max(msg.Height-12, 5)
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
	return m, nil
}

func (m FeatureListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Web Features"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Features))
	for i := m.Offset; i < end; i++ {
		f := &m.Features[i]
		status := webstatus.Classify(f)

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%s %-40s %s", cursor, report.Emoji(status), truncate(f.Name, 40), listDimStyle.Render(f.FeatureID))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if len(m.Features) > 0 {
		f := &m.Features[m.Cursor]
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(strings.Repeat("─", 60)))
		b.WriteString("\n")
		b.WriteString(detailLine(f))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Features))))

	return b.String()
}

// detailLine summarizes the highlighted feature under the list.
func detailLine(f *webstatus.Feature) string {
	status := webstatus.Classify(f)
	parts := []string{renderStatus(status)}
	if date := webstatus.BaselineDate(f); date != "" && status != feature.StatusLimited {
		parts = append(parts, listDimStyle.Render("since "+report.FormatDate(date)))
	}
	if desc := strings.TrimSpace(f.Description); desc != "" {
		parts = append(parts, "\n"+truncate(desc, 120))
	}
	return strings.Join(parts, " ")
}

// truncate shortens s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
