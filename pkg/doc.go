// Package pkg provides the core libraries for baseline, a detector for
// modern web platform features in CSS and JavaScript.
//
// # Overview
//
// The pkg directory is organized into three areas:
//
//  1. Domain: [feature] (data model), [patterns] (rule catalog), [detect]
//     (detection engine, session cache and position resolver), [report]
//     (summary, score, recommendations, hover text)
//  2. Metadata: [integrations] (cache-through HTTP client) and
//     [integrations/webstatus] (the web-features catalog)
//  3. Infrastructure: [cache], [httputil], [errors], [observability],
//     [session], [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	source text + language
//	         ↓
//	    [patterns] (which rules apply, where they match)
//	         ↓
//	    [detect] (dedup, look up each rule id once per pass)
//	         ↓                     ↘
//	    []feature.Detected         [integrations/webstatus] (catalog, TTL cache)
//	         ↓
//	    [report] (score, recommendations, hover)
//
// # Quick Start
//
//	client := webstatus.NewClient(cache.NewMemoryCache(), webstatus.Options{})
//	d := detect.New(client)
//
//	features := d.Detect(ctx, src, feature.LanguageCSS)
//	fmt.Println(report.Score(features), report.Recommend(features))
//
// For an editor, keep one [detect.Session] per document view:
//
//	sess := d.NewSession()
//	features = sess.DetectWithCache(ctx, src, lang)
//	f, ok := sess.CachedFeatureAt(line, column)
package pkg
