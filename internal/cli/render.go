package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/baseline/pkg/feature"
	"github.com/matzehuels/baseline/pkg/integrations/webstatus"
	"github.com/matzehuels/baseline/pkg/report"
)

// =============================================================================
// Tables
// =============================================================================

// headerRow is the row index lipgloss tables pass to StyleFunc for headers.
const headerRow = -1

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...)
}

// renderFeatures writes the detection table of one document.
func renderFeatures(w io.Writer, path string, features []feature.Detected) {
	fmt.Fprintln(w, StyleTitle.Render(path))
	if len(features) == 0 {
		fmt.Fprintln(w, StyleDim.Render("  no web platform features detected"))
		return
	}

	rows := make([][]string, len(features))
	for i, f := range features {
		rows[i] = []string{
			fmt.Sprintf("%d:%d", f.Line, f.Column),
			f.Name,
			report.Emoji(f.Status) + " " + f.Status.Label(),
			report.FormatDate(f.BaselineDate),
		}
	}
	t := newTable("Pos", "Feature", "Status", "Baseline since").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader
			}
			switch col {
			case 0, 3:
				return StyleDim
			case 2:
				return statusStyle(features[row].Status)
			}
			return lipgloss.NewStyle()
		})
	fmt.Fprintln(w, t.Render())
}

// renderSummary writes the status counts and the score on one line each.
func renderSummary(w io.Writer, s report.Summary, score int) {
	parts := []string{
		StyleSuccess.Render(fmt.Sprintf("%d widely", s.Widely)),
		StyleWarning.Render(fmt.Sprintf("%d newly", s.Newly)),
		StyleError.Render(fmt.Sprintf("%d limited", s.Limited)),
		StyleDim.Render(fmt.Sprintf("%d unknown", s.Unknown)),
	}
	fmt.Fprintln(w, styleKey.Render("Features")+" "+StyleNumber.Render(strconv.Itoa(s.Total))+StyleDim.Render("  ")+strings.Join(parts, StyleDim.Render(" · ")))
	fmt.Fprintln(w, styleKey.Render("Score")+" "+scoreStyle(score).Render(fmt.Sprintf("%d/100 %s", score, report.Grade(score))))
}

// renderRecommendations writes one block per recommendation.
func renderRecommendations(w io.Writer, recs []report.Recommendation) {
	if len(recs) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, StyleTitle.Render("Recommendations"))
	for _, r := range recs {
		style := severityStyle(r.Severity)
		fmt.Fprintln(w, style.Render(severityIcon(r.Severity))+" "+StyleValue.Render(r.Feature)+" "+StyleDim.Render("("+string(r.Severity)+")"))
		fmt.Fprintln(w, "  "+r.Suggestion)
		if len(r.Alternatives) > 0 {
			fmt.Fprintln(w, "  "+StyleDim.Render("alternatives: "+strings.Join(r.Alternatives, ", ")))
		}
		if r.Polyfill != "" {
			fmt.Fprintln(w, "  "+StyleDim.Render("polyfill: ")+StyleLink.Render(r.Polyfill))
		}
	}
}

// renderReport writes the full report of one document.
func renderReport(w io.Writer, path string, r report.Report) {
	fmt.Fprintln(w, StyleTitle.Render(path))
	renderSummary(w, r.Stats, r.Score)

	groups := []struct {
		status   feature.Status
		features []feature.Detected
	}{
		{feature.StatusLimited, r.ByStatus.Limited},
		{feature.StatusNewly, r.ByStatus.Newly},
		{feature.StatusWidely, r.ByStatus.Widely},
		{feature.StatusUnknown, r.ByStatus.Unknown},
	}
	for _, g := range groups {
		if len(g.features) == 0 {
			continue
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, renderStatus(g.status))
		for _, f := range g.features {
			fmt.Fprintf(w, "  %s %s\n", StyleDim.Render(fmt.Sprintf("%4d:%-3d", f.Line, f.Column)), f.Name)
		}
	}
	renderRecommendations(w, r.Recommendations)
}

// renderCatalog writes catalog records as a table.
func renderCatalog(w io.Writer, features []webstatus.Feature) {
	if len(features) == 0 {
		fmt.Fprintln(w, StyleDim.Render("no matching features"))
		return
	}
	rows := make([][]string, len(features))
	statuses := make([]feature.Status, len(features))
	for i := range features {
		f := &features[i]
		statuses[i] = webstatus.Classify(f)
		rows[i] = []string{
			f.FeatureID,
			f.Name,
			report.Emoji(statuses[i]) + " " + statuses[i].Label(),
			report.FormatDate(webstatus.BaselineDate(f)),
		}
	}
	t := newTable("ID", "Name", "Status", "Baseline since").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader
			}
			switch col {
			case 0, 3:
				return StyleDim
			case 2:
				return statusStyle(statuses[row])
			}
			return lipgloss.NewStyle()
		})
	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("%d features", len(features))))
}

// renderStats writes catalog counts by status.
func renderStats(w io.Writer, s webstatus.Stats) {
	fmt.Fprintln(w, styleKey.Render("Total")+" "+StyleNumber.Render(strconv.Itoa(s.Total)))
	for _, row := range []struct {
		status feature.Status
		n      int
	}{
		{feature.StatusWidely, s.Widely},
		{feature.StatusNewly, s.Newly},
		{feature.StatusLimited, s.Limited},
		{feature.StatusUnknown, s.Unknown},
	} {
		fmt.Fprintln(w, "  "+renderStatus(row.status)+" "+StyleNumber.Render(strconv.Itoa(row.n)))
	}
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
