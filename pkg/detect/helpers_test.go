package detect

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/baseline/pkg/integrations/webstatus"
)

const testCatalog = `{"data": [
  {"feature_id": "nullish-coalescing", "name": "Nullish coalescing",
   "description": "The ?? operator returns its right operand when the left is null or undefined.",
   "baseline": {"status": "widely", "low_date": "2020-07-28", "high_date": "2023-01-28"}},
  {"feature_id": "object-group-by", "name": "Object.groupBy",
   "baseline": {"status": "newly", "low_date": "2024-03-05"},
   "browser_implementations": {"chrome": {"status": "available", "version": "117"}, "safari": {"status": "unavailable"}}},
  {"feature_id": "grid", "name": "Grid", "baseline": {"status": "widely"}}
]}`

// catalogServer serves testCatalog and counts requests in n when non-nil.
func catalogServer(t *testing.T, n *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if n != nil {
			n.Add(1)
		}
		io.WriteString(w, testCatalog)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newCatalogClient(t *testing.T, srv *httptest.Server) *webstatus.Client {
	t.Helper()
	return webstatus.NewClient(nil, webstatus.Options{
		Endpoint:      srv.URL,
		RetryAttempts: 1,
		Logger:        log.New(io.Discard),
	})
}
