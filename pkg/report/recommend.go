package report

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matzehuels/baseline/pkg/feature"
)

// Severity ranks a recommendation.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

func (s Severity) rank() int {
	switch s {
	case SeverityError:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}

// Recommendation is advice for one feature.
type Recommendation struct {
	Feature      string   `json:"feature"`
	Suggestion   string   `json:"suggestion"`
	Severity     Severity `json:"severity"`
	Alternatives []string `json:"alternatives,omitempty"`
	Polyfill     string   `json:"polyfill,omitempty"`
}

// LimitedFeaturesDetected names the summary entry appended when limited
// features produced no error.
const LimitedFeaturesDetected = "Limited Features Detected"

// special is advice for a limited feature whose name or id contains one of
// match, compared case-insensitively.
type special struct {
	match        []string
	suggestion   string
	severity     Severity
	alternatives []string
	polyfill     string
}

var specials = []special{
	{
		match:        []string{"urlpattern"},
		suggestion:   "Consider using a polyfill like 'urlpattern-polyfill' or use traditional URL parsing with RegExp",
		severity:     SeverityError,
		alternatives: []string{"url-pattern library", "path-to-regexp"},
		polyfill:     "urlpattern-polyfill",
	},
	{
		match:        []string{"view transitions", "view-transitions"},
		suggestion:   "View Transitions have limited support. Provide fallback animations using CSS transitions",
		severity:     SeverityError,
		alternatives: []string{"CSS transitions", "FLIP technique", "Framer Motion"},
	},
	{
		match:        []string{"anchor positioning", "anchor-positioning"},
		suggestion:   "CSS Anchor Positioning is experimental. Use JavaScript positioning libraries instead",
		severity:     SeverityError,
		alternatives: []string{"Floating UI", "Popper.js", "Tether"},
	},
	{
		match:        []string{"object.groupby", "object-group-by"},
		suggestion:   "Object.groupBy() has limited support. Use Array.reduce() or lodash.groupBy as alternatives",
		severity:     SeverityWarning,
		alternatives: []string{"Array.reduce()", "lodash.groupBy"},
		polyfill:     "core-js",
	},
}

func findSpecial(f feature.Detected) *special {
	name := strings.ToLower(f.Name)
	id := strings.ToLower(f.FeatureID)
	for i := range specials {
		for _, m := range specials[i].match {
			if strings.Contains(name, m) || (id != "" && strings.Contains(id, m)) {
				return &specials[i]
			}
		}
	}
	return nil
}

// Recommend returns advice for limited and newly available features, one
// entry per feature id (or name when there is no id), ordered error,
// warning, info with detection order kept inside each tier.
func Recommend(features []feature.Detected) []Recommendation {
	recs := []Recommendation{}
	seen := make(map[string]struct{})
	limited := false

	for _, f := range features {
		if f.Status == feature.StatusLimited {
			limited = true
		}
		key := f.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		switch f.Status {
		case feature.StatusLimited:
			if sp := findSpecial(f); sp != nil {
				recs = append(recs, Recommendation{
					Feature:      f.Name,
					Suggestion:   sp.suggestion,
					Severity:     sp.severity,
					Alternatives: slices.Clone(sp.alternatives),
					Polyfill:     sp.polyfill,
				})
				continue
			}
			recs = append(recs, Recommendation{
				Feature:    f.Name,
				Suggestion: f.Name + " has limited browser support. Consider using polyfills or progressive enhancement",
				Severity:   SeverityError,
			})
		case feature.StatusNewly:
			recs = append(recs, Recommendation{
				Feature:    f.Name,
				Suggestion: f.Name + " is newly available. Test thoroughly across target browsers before deploying to production",
				Severity:   SeverityWarning,
			})
		}
	}

	hasError := slices.ContainsFunc(recs, func(r Recommendation) bool { return r.Severity == SeverityError })
	if limited && !hasError {
		recs = append(recs, Recommendation{
			Feature:    LimitedFeaturesDetected,
			Suggestion: "Consider adding polyfills or using progressive enhancement for better browser support",
			Severity:   SeverityWarning,
		})
	}

	slices.SortStableFunc(recs, func(a, b Recommendation) int {
		return cmp.Compare(a.Severity.rank(), b.Severity.rank())
	})
	return recs
}
