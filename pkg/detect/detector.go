package detect

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/baseline/pkg/feature"
	"github.com/matzehuels/baseline/pkg/integrations/webstatus"
	"github.com/matzehuels/baseline/pkg/observability"
	"github.com/matzehuels/baseline/pkg/patterns"
)

// Provider resolves a canonical id to a catalog record. It returns
// (nil, nil) on a miss and an error only when the catalog is unavailable.
// *webstatus.Client implements it.
type Provider interface {
	SearchFeature(ctx context.Context, name string) (*webstatus.Feature, error)
}

// DefaultTolerance is how many characters outside a feature's name span a
// column may fall and still resolve to it.
const DefaultTolerance = 10

// Detector runs the pattern catalog over source text. It holds no mutable
// state and is safe for concurrent use.
type Detector struct {
	provider  Provider
	catalog   patterns.Catalog
	tolerance int
	logger    *log.Logger
}

// Option configures a Detector.
type Option func(*Detector)

// WithCatalog replaces the built-in rule catalog.
func WithCatalog(c patterns.Catalog) Option {
	return func(d *Detector) { d.catalog = c }
}

// WithTolerance sets the position resolver margin.
func WithTolerance(n int) Option {
	return func(d *Detector) {
		if n >= 0 {
			d.tolerance = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(d *Detector) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates a Detector. A nil provider makes every match fall back to
// its rule label.
func New(p Provider, opts ...Option) *Detector {
	d := &Detector{
		provider:  p,
		catalog:   patterns.Default(),
		tolerance: DefaultTolerance,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Tolerance returns the position resolver margin.
func (d *Detector) Tolerance() int { return d.tolerance }

// Detect returns every feature usage found in source. The result is never
// nil.
func (d *Detector) Detect(ctx context.Context, source string, lang feature.Language) []feature.Detected {
	features, _ := d.detect(ctx, source, lang)
	return features
}

// FeatureAt detects features in source and resolves (line, column) against
// them.
func (d *Detector) FeatureAt(ctx context.Context, source string, lang feature.Language, line, column int) (feature.Detected, bool) {
	return ResolveWithin(d.Detect(ctx, source, lang), line, column, d.tolerance)
}

type matchKey struct {
	id     string
	line   int
	offset int
}

type lookupResult struct {
	record *webstatus.Feature
	err    error
}

// detect reports degraded when any lookup failed, i.e. the result holds
// fallbacks that a later call with a reachable catalog would replace.
func (d *Detector) detect(ctx context.Context, source string, lang feature.Language) (features []feature.Detected, degraded bool) {
	features = []feature.Detected{}
	kind, ok := lang.Kind()
	if !ok || source == "" {
		return features, false
	}

	lines := splitLines(source)
	hooks := observability.Detection()
	hooks.OnDetectStart(ctx, string(lang), len(lines))
	start := time.Now()

	seen := make(map[matchKey]struct{})
	memo := make(map[string]lookupResult)

	for _, rule := range d.catalog.For(kind) {
		for i, line := range lines {
			for _, m := range rule.Matches(line) {
				key := matchKey{rule.ID, i, m[0]}
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}

				res, ok := memo[rule.ID]
				if !ok {
					res = d.lookup(ctx, rule.ID)
					memo[rule.ID] = res
				}
				if res.err != nil {
					degraded = true
				}

				column := utf8.RuneCountInString(line[:m[0]])
				features = append(features, build(rule, kind, i+1, column, res.record))
			}
		}
	}

	took := time.Since(start)
	hooks.OnDetectComplete(ctx, string(lang), len(features), took)
	d.logger.Debug("detected features", "language", lang, "lines", len(lines), "features", len(features), "lookups", len(memo), "degraded", degraded, "took", took)
	return features, degraded
}

func (d *Detector) lookup(ctx context.Context, id string) lookupResult {
	if d.provider == nil {
		return lookupResult{}
	}
	record, err := d.provider.SearchFeature(ctx, id)
	if err != nil {
		d.logger.Debug("feature lookup failed", "id", id, "err", err)
		record = nil
	}
	observability.Detection().OnLookup(ctx, id, record != nil)
	return lookupResult{record: record, err: err}
}

func build(rule patterns.Rule, kind feature.Kind, line, column int, record *webstatus.Feature) feature.Detected {
	if record == nil {
		return feature.Detected{
			Name:        rule.Label,
			Type:        kind,
			Line:        line,
			Column:      column,
			Status:      feature.StatusUnknown,
			Description: rule.Label,
		}
	}

	d := webstatus.Describe(record)
	d.Type = kind
	d.Line = line
	d.Column = column
	if record.Name == "" {
		d.Name = rule.Label
	}
	if record.Description == "" {
		d.Description = rule.Label
	}
	return d
}

// splitLines splits on "\n" and drops a trailing "\r" from each line.
func splitLines(source string) []string {
	lines := strings.Split(source, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
