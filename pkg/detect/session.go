package detect

import (
	"context"
	"sync"

	"github.com/matzehuels/baseline/pkg/feature"
	"github.com/matzehuels/baseline/pkg/observability"
)

// Session is the single-entry detection cache of one editor. It is safe for
// concurrent use.
type Session struct {
	detector *Detector

	mu    sync.Mutex
	seq   uint64 // last sequence number handed out
	floor uint64 // results with a sequence at or below floor are discarded
	entry *entry
}

type entry struct {
	seq      uint64
	source   string
	lang     feature.Language
	features []feature.Detected
	degraded bool // computed while the catalog was unavailable
}

// NewSession creates an empty Session over d.
func (d *Detector) NewSession() *Session {
	return &Session{detector: d}
}

// DetectWithCache returns the stored result when source and lang equal the
// last stored call, and detects otherwise. A result is stored only if no
// newer call has stored one since and the session was not cleared while it
// ran. Results degraded by an unavailable catalog are stored so position
// lookups see the current document, but never served as a hit.
func (s *Session) DetectWithCache(ctx context.Context, source string, lang feature.Language) []feature.Detected {
	s.mu.Lock()
	if e := s.entry; e != nil && !e.degraded && e.source == source && e.lang == lang {
		features := feature.Clone(e.features)
		s.mu.Unlock()
		observability.Detection().OnSessionHit(ctx, string(lang))
		return features
	}
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	features, degraded := s.detector.detect(ctx, source, lang)
	if ctx.Err() != nil {
		return features
	}

	s.mu.Lock()
	if seq > s.floor && (s.entry == nil || seq > s.entry.seq) {
		s.entry = &entry{seq: seq, source: source, lang: lang, features: feature.Clone(features), degraded: degraded}
	}
	s.mu.Unlock()
	return features
}

// Clear drops the stored result. Calls in flight when Clear runs do not
// store theirs.
func (s *Session) Clear() {
	s.mu.Lock()
	s.entry = nil
	s.floor = s.seq
	s.mu.Unlock()
}

// Cached returns a copy of the stored result.
func (s *Session) Cached() ([]feature.Detected, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entry == nil {
		return nil, false
	}
	return feature.Clone(s.entry.features), true
}

// CachedFeatureAt resolves (line, column) against the stored result without
// detecting. ok is false when nothing is stored or nothing is on the line.
func (s *Session) CachedFeatureAt(line, column int) (feature.Detected, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entry == nil {
		return feature.Detected{}, false
	}
	f, ok := ResolveWithin(s.entry.features, line, column, s.detector.tolerance)
	if ok && f.BrowserSupport != nil {
		bs := *f.BrowserSupport
		f.BrowserSupport = &bs
	}
	return f, ok
}

// FeatureAt detects through the cache, then resolves (line, column).
func (s *Session) FeatureAt(ctx context.Context, source string, lang feature.Language, line, column int) (feature.Detected, bool) {
	return ResolveWithin(s.DetectWithCache(ctx, source, lang), line, column, s.detector.tolerance)
}
