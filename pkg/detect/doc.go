// Package detect scans CSS and JavaScript source for web-platform features
// and resolves editor positions to them.
//
// # Detection
//
// [Detector.Detect] splits the source into lines and runs every rule of the
// language's [patterns.Catalog] over every line, find-all. A match is keyed
// by (rule id, line, byte offset); a key already emitted in the same pass is
// skipped. Each retained match is looked up through a [Provider] once per
// rule id per pass. A found record supplies name, status and links; a miss
// or a failed lookup yields the rule's label with status unknown.
//
// Results are ordered by rule, then line, then offset. Unsupported
// languages and empty sources yield an empty list. Detection never fails:
// provider errors only make results less precise.
//
// # Sessions
//
// A [Session] is the single-entry cache for one editor: it remembers the
// last (source, language) and its result. Results are stored only when
// they are newer than the stored one, and [Session.Clear] discards results
// of calls that were in flight when it ran.
//
// # Position resolution
//
// [Resolve] maps a (line, column) to the detected feature under it. A lone
// feature on the line wins regardless of column; otherwise the feature whose
// name span contains the column, else the nearest within the tolerance,
// else the first on the line.
package detect
