// Package feature defines the data model shared by the detection engine,
// the position resolver and the report builders.
//
// A [Detected] value is produced fresh for every detection pass and is never
// mutated afterwards. Consumers receive copies of the slices they are handed
// and must not hold on to them beyond the call that produced them.
package feature

import (
	"path/filepath"
	"strings"
)

// Status is the Baseline compatibility classification of a feature.
type Status string

const (
	StatusWidely  Status = "widely_available"
	StatusNewly   Status = "newly_available"
	StatusLimited Status = "limited_availability"
	StatusUnknown Status = "unknown"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusWidely, StatusNewly, StatusLimited, StatusUnknown}

// Label returns a short human-readable label for the status.
func (s Status) Label() string {
	switch s {
	case StatusWidely:
		return "Widely available"
	case StatusNewly:
		return "Newly available"
	case StatusLimited:
		return "Limited availability"
	default:
		return "Unknown"
	}
}

// Kind is the family of source a feature was detected in.
type Kind string

const (
	KindCSS        Kind = "css"
	KindJavaScript Kind = "javascript"
)

// Language is the editor language of a document.
type Language string

const (
	LanguageCSS        Language = "css"
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguageOther      Language = "other"
)

// ParseLanguage normalizes a language identifier. Unrecognized names map to
// [LanguageOther] rather than failing.
func ParseLanguage(s string) Language {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "css":
		return LanguageCSS
	case "javascript", "js", "jsx", "javascriptreact":
		return LanguageJavaScript
	case "typescript", "ts", "tsx", "typescriptreact":
		return LanguageTypeScript
	default:
		return LanguageOther
	}
}

var extLanguages = map[string]Language{
	".css": LanguageCSS,
	".js":  LanguageJavaScript,
	".mjs": LanguageJavaScript,
	".cjs": LanguageJavaScript,
	".jsx": LanguageJavaScript,
	".ts":  LanguageTypeScript,
	".tsx": LanguageTypeScript,
	".mts": LanguageTypeScript,
	".cts": LanguageTypeScript,
}

// LanguageForPath infers the language from a file extension.
func LanguageForPath(path string) Language {
	if lang, ok := extLanguages[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}
	return LanguageOther
}

// Kind returns the detection family for the language. ok is false for
// languages the engine does not scan.
func (l Language) Kind() (kind Kind, ok bool) {
	switch l {
	case LanguageCSS:
		return KindCSS, true
	case LanguageJavaScript, LanguageTypeScript:
		return KindJavaScript, true
	default:
		return "", false
	}
}

// NotSupported marks a browser that has no implementation of a feature.
const NotSupported = "❌"

// BrowserSupport maps the four tracked desktop browsers to the version that
// shipped a feature, or [NotSupported]. An empty field means no data.
type BrowserSupport struct {
	Chrome  string `json:"chrome,omitempty"`
	Firefox string `json:"firefox,omitempty"`
	Safari  string `json:"safari,omitempty"`
	Edge    string `json:"edge,omitempty"`
}

// IsZero reports whether no browser has data.
func (b BrowserSupport) IsZero() bool {
	return b == BrowserSupport{}
}

// Detected is one occurrence of a recognized platform feature in source text.
type Detected struct {
	Name           string          `json:"name"`
	Type           Kind            `json:"type"`
	Line           int             `json:"line"`   // 1-based
	Column         int             `json:"column"` // 0-based, in characters
	Status         Status          `json:"status"`
	Description    string          `json:"description"`
	FeatureID      string          `json:"feature_id,omitempty"`
	BrowserSupport *BrowserSupport `json:"browserSupport,omitempty"`
	BaselineDate   string          `json:"baselineDate,omitempty"`
	Spec           string          `json:"spec,omitempty"`
	Caniuse        string          `json:"caniuse,omitempty"`
}

// Key returns the identity used to de-duplicate recommendations: the
// feature id when known, the name otherwise.
func (d Detected) Key() string {
	if d.FeatureID != "" {
		return d.FeatureID
	}
	return d.Name
}

// Clone returns a deep copy of features.
func Clone(features []Detected) []Detected {
	if features == nil {
		return nil
	}
	out := make([]Detected, len(features))
	for i, f := range features {
		if f.BrowserSupport != nil {
			bs := *f.BrowserSupport
			f.BrowserSupport = &bs
		}
		out[i] = f
	}
	return out
}
