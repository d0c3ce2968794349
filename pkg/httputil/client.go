package httputil

import (
	"net/http"
	"time"

	"github.com/matzehuels/baseline/pkg/observability"
)

// DefaultTimeout bounds a single request to the metadata provider.
const DefaultTimeout = 10 * time.Second

// NewClient creates an HTTP client with the given timeout (DefaultTimeout
// when timeout <= 0) whose transport reports to the observability hooks.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &Transport{Base: http.DefaultTransport},
	}
}

// Transport is an http.RoundTripper that emits [observability.HTTPHooks]
// events around each request.
type Transport struct {
	Base http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	hooks := observability.HTTP()
	ctx := req.Context()
	host, path := req.URL.Host, req.URL.Path

	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()
	resp, err := base.RoundTrip(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, err
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))
	return resp, nil
}
