// Package httputil provides HTTP plumbing for the metadata provider client.
//
// # Overview
//
//   - [NewClient]: an *http.Client with a request timeout and an
//     instrumented transport
//   - [Retry]: automatic retry with exponential backoff
//
// # Timeouts
//
// Every request made through [NewClient] is bounded by the timeout it was
// built with (10 seconds by default). A timeout surfaces as an ordinary
// request error; callers treat it like any other fetch failure.
//
// # Retry
//
// [Retry] re-runs an operation only when it fails with a [RetryableError].
// Registry clients wrap network errors and 5xx responses in it:
//
//	err := httputil.Retry(ctx, 2, 500*time.Millisecond, func() error {
//	    return fetchCatalog(ctx)
//	})
//
// # Instrumentation
//
// The transport installed by [NewClient] reports every request, response and
// transport error to [observability.HTTP].
//
// [observability.HTTP]: github.com/matzehuels/baseline/pkg/observability.HTTP
package httputil
