package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/baseline/pkg/feature"
)

// Emoji returns the status marker used in hover headings.
func Emoji(s feature.Status) string {
	switch s {
	case feature.StatusWidely:
		return "✅"
	case feature.StatusNewly:
		return "⚠️"
	case feature.StatusLimited:
		return "❌"
	default:
		return "❓"
	}
}

func statusLine(s feature.Status) string {
	switch s {
	case feature.StatusWidely:
		return "**Widely Available** - Safe to use in production"
	case feature.StatusNewly:
		return "**Newly Available** - Recently became Baseline"
	case feature.StatusLimited:
		return "**Limited Availability** - Use with caution"
	default:
		return "**Unknown** - Status not determined"
	}
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01"}

// FormatDate renders a provider date as "Jan 2, 2006". Dates it cannot
// parse are returned unchanged.
func FormatDate(s string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("Jan 2, 2006")
		}
	}
	return s
}

// Hover renders the markdown shown when hovering a feature in the editor.
func Hover(f feature.Detected) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### %s %s\n\n", Emoji(f.Status), f.Name)
	fmt.Fprintf(&b, "%s\n\n", statusLine(f.Status))
	fmt.Fprintf(&b, "%s\n\n", f.Description)

	if f.BaselineDate != "" {
		fmt.Fprintf(&b, "**Baseline Since:** %s\n\n", FormatDate(f.BaselineDate))
	}

	if bs := f.BrowserSupport; bs != nil {
		b.WriteString("**Browser Support:**\n\n")
		for _, row := range []struct{ name, version string }{
			{"Chrome", bs.Chrome},
			{"Firefox", bs.Firefox},
			{"Safari", bs.Safari},
			{"Edge", bs.Edge},
		} {
			switch row.version {
			case "":
			case feature.NotSupported:
				fmt.Fprintf(&b, "- %s %s\n", row.name, row.version)
			default:
				fmt.Fprintf(&b, "- %s %s+\n", row.name, row.version)
			}
		}
	}

	if f.Spec != "" {
		fmt.Fprintf(&b, "\n[View Specification](%s)", f.Spec)
	}
	if f.Caniuse != "" {
		fmt.Fprintf(&b, " | [Can I Use](%s)", f.Caniuse)
	}
	return b.String()
}
