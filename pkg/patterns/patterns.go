// Package patterns holds the static catalog of detection rules.
//
// Each [Rule] pairs a line-level regular expression with the canonical id
// used to look the feature up in the web-status catalog and a fallback label
// shown when the lookup yields nothing. Rules are data only: matching is done
// by the detection engine, one line at a time, find-all.
//
// CSS rules are case-insensitive because CSS property and at-rule names are.
// JavaScript rules are case-sensitive.
//
// Adding a rule is appending an entry to [CSS] or [JavaScript]. Catalog order
// only affects result ordering.
package patterns

import (
	"regexp"

	"github.com/matzehuels/baseline/pkg/feature"
)

// Rule is a single detection rule.
type Rule struct {
	// Pattern is matched against each line independently.
	Pattern *regexp.Regexp
	// ID is the canonical lookup id sent to the metadata provider.
	ID string
	// Label is the fallback display name.
	Label string
	// Exclude, when set, skips lines it matches. RE2 has no lookahead, so
	// negative conditions on the whole line live here.
	Exclude *regexp.Regexp
}

// Matches returns the [start, end) byte offsets of every non-overlapping
// match of the rule in line.
func (r Rule) Matches(line string) [][]int {
	if r.Exclude != nil && r.Exclude.MatchString(line) {
		return nil
	}
	return r.Pattern.FindAllStringIndex(line, -1)
}

func css(expr, id, label string) Rule {
	return Rule{Pattern: regexp.MustCompile(`(?i)` + expr), ID: id, Label: label}
}

func js(expr, id, label string) Rule {
	return Rule{Pattern: regexp.MustCompile(expr), ID: id, Label: label}
}

// CSS is the rule set for stylesheets.
var CSS = []Rule{
	css(`container-type\s*:`, "container-queries", "CSS Container Queries (container-type)"),
	css(`@container\s+`, "container-queries", "CSS Container Queries (@container)"),
	css(`content-visibility\s*:`, "content-visibility", "content-visibility"),
	css(`clamp\s*\(`, "css-math-functions", "clamp()"),
	css(`:has\s*\(`, "css-has", ":has() selector"),
	css(`background-clip\s*:\s*text`, "background-clip-text", "background-clip: text"),
	css(`@layer\s+`, "cascade-layers", "CSS Cascade Layers (@layer)"),
	css(`aspect-ratio\s*:`, "aspect-ratio", "aspect-ratio"),
	css(`:is\s*\(`, "css-is", ":is() selector"),
	css(`:where\s*\(`, "css-where", ":where() selector"),
	css(`gap\s*:`, "flexbox-gap", "Flexbox gap"),
	css(`@supports\s+`, "css-supports", "@supports"),
	css(`grid-template-columns\s*:`, "css-grid", "CSS Grid"),
	css(`display\s*:\s*flex`, "flexbox", "Flexbox"),
	css(`display\s*:\s*grid`, "css-grid", "CSS Grid Layout"),
	css(`@property\s+`, "css-at-property", "@property"),
	css(`view-transition`, "view-transitions", "View Transitions"),
	css(`anchor-name\s*:`, "css-anchor-positioning", "CSS Anchor Positioning"),
	css(`color-mix\s*\(`, "color-mix", "color-mix()"),
}

// JavaScript is the rule set for JavaScript and TypeScript.
var JavaScript = []Rule{
	js(`new\s+URLPattern\s*\(`, "urlpattern", "URLPattern API"),
	js(`\?\.\s*`, "optional-chaining", "Optional Chaining (?.)"),
	js(`\?\?`, "nullish-coalescing", "Nullish Coalescing (??)"),
	{
		Pattern: regexp.MustCompile(`^.*await\s+`),
		ID:      "top-level-await",
		Label:   "Top-level await",
		Exclude: regexp.MustCompile(`function`),
	},
	js(`\bstructuredClone\s*\(`, "structuredclone", "structuredClone()"),
	js(`Array\.prototype\.at\s*\(|\.at\s*\(`, "array-at", "Array.prototype.at()"),
	js(`Object\.hasOwn\s*\(`, "object-hasown", "Object.hasOwn()"),
	js(`Promise\.allSettled\s*\(`, "promise-allsettled", "Promise.allSettled()"),
	js(`\bimport\.meta\b`, "import-meta", "import.meta"),
	js(`BigInt\s*\(`, "bigint", "BigInt"),
	js(`Promise\s*\(`, "promises", "Promise"),
	js(`async\s+`, "async-functions", "Async Functions"),
	js(`Object\.groupBy\s*\(`, "object-group-by", "Object.groupBy()"),
	js(`Array\.fromAsync\s*\(`, "array-from-async", "Array.fromAsync()"),
	js(`Promise\.withResolvers\s*\(`, "promise-withresolvers", "Promise.withResolvers()"),
}

// Catalog groups the rule sets by detection family.
type Catalog struct {
	CSS        []Rule
	JavaScript []Rule
}

// Default returns the built-in catalog.
func Default() Catalog {
	return Catalog{CSS: CSS, JavaScript: JavaScript}
}

// For returns the rules for a detection family.
func (c Catalog) For(kind feature.Kind) []Rule {
	switch kind {
	case feature.KindCSS:
		return c.CSS
	case feature.KindJavaScript:
		return c.JavaScript
	default:
		return nil
	}
}
