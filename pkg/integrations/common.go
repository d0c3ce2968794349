package integrations

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/matzehuels/baseline/pkg/httputil"
)

const httpTimeout = httputil.DefaultTimeout

var (
	// ErrNotFound is returned when the provider has no such resource.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")

	// ErrRateLimited is returned for 429 responses.
	ErrRateLimited = errors.New("rate limited")

	// ErrMalformed is returned when a response body cannot be decoded.
	ErrMalformed = errors.New("malformed response")
)

// NewHTTPClient creates an HTTP client with the standard provider timeout.
func NewHTTPClient() *http.Client {
	return httputil.NewClient(httpTimeout)
}

// NormalizeName converts a feature name or id to the form used for lookups
// and cache keys: trimmed and lowercased.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// WithQuery appends query parameters to base, skipping empty values.
func WithQuery(base string, params map[string]string) string {
	q := url.Values{}
	for k, v := range params {
		if v != "" {
			q.Set(k, v)
		}
	}
	if len(q) == 0 {
		return base
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + q.Encode()
}

// Timeout reports whether err is a client-side timeout.
func Timeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
