package webstatus

import (
	"slices"
	"strings"

	"github.com/matzehuels/baseline/pkg/feature"
)

// DefaultFilterLimit caps [Filter] results when no limit is given.
const DefaultFilterLimit = 100

// Classify maps a record's baseline status to a [feature.Status]. A nil
// record or a missing baseline is unknown.
func Classify(f *Feature) feature.Status {
	if f == nil || f.Baseline == nil {
		return feature.StatusUnknown
	}
	switch f.Baseline.Status {
	case RawWidely:
		return feature.StatusWidely
	case RawNewly:
		return feature.StatusNewly
	case RawLimited:
		return feature.StatusLimited
	default:
		return feature.StatusUnknown
	}
}

// ExtractBrowserSupport maps implementation entries onto the four tracked
// desktop browsers. Android and iOS variants are ignored. "available" with
// a version yields the version, "unavailable" yields [feature.NotSupported],
// anything else is left empty.
func ExtractBrowserSupport(f *Feature) feature.BrowserSupport {
	var bs feature.BrowserSupport
	if f == nil {
		return bs
	}
	// Sorted so that when several keys map to one browser the result is
	// stable.
	keys := make([]string, 0, len(f.BrowserImplementations))
	for k := range f.BrowserImplementations {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		impl := f.BrowserImplementations[k]
		var value string
		switch {
		case impl.Status == "available" && impl.Version != "":
			value = impl.Version
		case impl.Status == "unavailable":
			value = feature.NotSupported
		default:
			continue
		}
		if slot := browserSlot(&bs, strings.ToLower(k)); slot != nil {
			*slot = value
		}
	}
	return bs
}

func browserSlot(bs *feature.BrowserSupport, key string) *string {
	switch {
	case strings.Contains(key, "chrome") && !strings.Contains(key, "android"):
		return &bs.Chrome
	case strings.Contains(key, "firefox") && !strings.Contains(key, "android"):
		return &bs.Firefox
	case strings.Contains(key, "safari") && !strings.Contains(key, "ios"):
		return &bs.Safari
	case strings.Contains(key, "edge"):
		return &bs.Edge
	}
	return nil
}

// BaselineDate returns when the feature reached its current status: the
// high date when widely available, else the low date, else "".
func BaselineDate(f *Feature) string {
	if f == nil || f.Baseline == nil {
		return ""
	}
	if f.Baseline.HighDate != "" {
		return f.Baseline.HighDate
	}
	return f.Baseline.LowDate
}

// Stats counts catalog records by status.
type Stats struct {
	Total   int `json:"total"`
	Widely  int `json:"widelyAvailable"`
	Newly   int `json:"newlyAvailable"`
	Limited int `json:"limited"`
	Unknown int `json:"unknown"`
}

// Count tallies features by classified status.
func Count(features []Feature) Stats {
	s := Stats{Total: len(features)}
	for i := range features {
		switch Classify(&features[i]) {
		case feature.StatusWidely:
			s.Widely++
		case feature.StatusNewly:
			s.Newly++
		case feature.StatusLimited:
			s.Limited++
		default:
			s.Unknown++
		}
	}
	return s
}

// Filter selects catalog records for the explorer. query is matched
// case-insensitively against name, feature id and description; status is
// a raw baseline status ("widely", "newly", "limited") or "" for any.
// limit <= 0 means [DefaultFilterLimit].
func Filter(features []Feature, query, status string, limit int) []Feature {
	if limit <= 0 {
		limit = DefaultFilterLimit
	}
	query = strings.ToLower(strings.TrimSpace(query))
	status = rawStatus(status)

	var out []Feature
	for _, f := range features {
		if len(out) == limit {
			break
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(f.Name), query) &&
			!strings.Contains(strings.ToLower(f.FeatureID), query) &&
			!strings.Contains(strings.ToLower(f.Description), query) {
			continue
		}
		if status != "" && (f.Baseline == nil || f.Baseline.Status != status) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// rawStatus accepts either a raw status or a classified one.
func rawStatus(s string) string {
	switch feature.Status(strings.ToLower(strings.TrimSpace(s))) {
	case feature.StatusWidely, RawWidely:
		return RawWidely
	case feature.StatusNewly, RawNewly:
		return RawNewly
	case feature.StatusLimited, RawLimited:
		return RawLimited
	case "", "all":
		return ""
	default:
		return strings.ToLower(strings.TrimSpace(s))
	}
}

// Describe converts a record into a [feature.Detected] with no position.
// Name and description fall back to the feature id.
func Describe(f *Feature) feature.Detected {
	d := feature.Detected{
		Name:         f.Name,
		Status:       Classify(f),
		Description:  f.Description,
		FeatureID:    f.FeatureID,
		BaselineDate: BaselineDate(f),
		Spec:         string(f.Spec),
		Caniuse:      string(f.Caniuse),
	}
	if d.Name == "" {
		d.Name = f.FeatureID
	}
	if d.Description == "" {
		d.Description = d.Name
	}
	if bs := ExtractBrowserSupport(f); !bs.IsZero() {
		d.BrowserSupport = &bs
	}
	return d
}
