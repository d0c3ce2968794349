// Package webstatus is the metadata provider client for the web-features
// status catalog served by webstatus.dev.
//
// The client downloads the whole catalog, keeps it for a TTL (30 minutes by
// default) and answers every lookup from that snapshot. A failed download
// degrades to an empty catalog: [Client.FetchAll] logs the failure and
// returns nil, and [Client.SearchFeature] reports the failure so the caller
// can fall back to its own labels. Concurrent callers share one in-flight
// download.
//
// The pure helpers [Classify], [ExtractBrowserSupport], [BaselineDate],
// [Count] and [Filter] read records without any I/O.
package webstatus
