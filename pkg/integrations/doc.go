// Package integrations provides the shared HTTP client used by metadata
// provider clients.
//
// # Overview
//
// Provider-specific clients live in subpackages:
//
//   - [webstatus]: the web-features status catalog (Baseline data)
//
// # Client Pattern
//
// Provider clients embed [Client], which supplies:
//   - HTTP requests with a fixed timeout and retry on transient failures
//   - Response caching through a [cache.Cache] with a per-client TTL
//   - Status-code mapping to [ErrNotFound], [ErrNetwork], [ErrRateLimited]
//
// Transient failures (connection errors, 429 and 5xx responses) are wrapped
// in [httputil.RetryableError] so that [Client.Cached] retries them.
//
// [webstatus]: github.com/matzehuels/baseline/pkg/integrations/webstatus
// [cache.Cache]: github.com/matzehuels/baseline/pkg/cache.Cache
// [httputil.RetryableError]: github.com/matzehuels/baseline/pkg/httputil.RetryableError
package integrations
