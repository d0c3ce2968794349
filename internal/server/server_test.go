package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/baseline/pkg/cache"
	"github.com/matzehuels/baseline/pkg/detect"
	bserrors "github.com/matzehuels/baseline/pkg/errors"
	"github.com/matzehuels/baseline/pkg/feature"
	"github.com/matzehuels/baseline/pkg/integrations/webstatus"
	"github.com/matzehuels/baseline/pkg/report"
	"github.com/matzehuels/baseline/pkg/session"
)

const catalogJSON = `{"data": [
  {"feature_id": "nullish-coalescing", "name": "Nullish coalescing",
   "description": "Returns the right operand when the left is null or undefined.",
   "baseline": {"status": "widely", "low_date": "2020-07-28", "high_date": "2023-01-28"}},
  {"feature_id": "object-group-by", "name": "Object.groupBy",
   "baseline": {"status": "newly", "low_date": "2024-03-05"}},
  {"feature_id": "urlpattern", "name": "URLPattern", "baseline": {"status": "limited"}}
]}`

type fixture struct {
	ts       *httptest.Server
	requests *atomic.Int32
}

func newFixture(t *testing.T, catalogStatus int) *fixture {
	t.Helper()
	f := &fixture{requests: new(atomic.Int32)}

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		if catalogStatus != http.StatusOK {
			w.WriteHeader(catalogStatus)
			return
		}
		io.WriteString(w, catalogJSON)
	}))
	t.Cleanup(upstream.Close)

	logger := log.New(io.Discard)
	client := webstatus.NewClient(nil, webstatus.Options{
		Endpoint:      upstream.URL,
		RetryAttempts: 1,
		Logger:        logger,
	})
	d := detect.New(client, detect.WithLogger(logger))
	srv := New(d, client, session.NewMemoryStore(d, 0), Options{Logger: logger})

	f.ts = httptest.NewServer(srv.Handler())
	t.Cleanup(f.ts.Close)
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(t.Context(), method, f.ts.URL+path, r)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func requireError(t *testing.T, resp *http.Response, status int, code bserrors.Code) {
	t.Helper()
	require.Equal(t, status, resp.StatusCode)
	body := decodeBody[errorBody](t, resp)
	assert.Equal(t, code, body.Code)
	assert.NotEmpty(t, body.Message)
	assert.Equal(t, resp.Header.Get(requestIDHeader), body.RequestID)
}

func TestHealthAndRequestID(t *testing.T) {
	f := newFixture(t, http.StatusOK)

	resp := f.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(requestIDHeader))

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, f.ts.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(requestIDHeader, "editor-42")
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, "editor-42", resp2.Header.Get(requestIDHeader))
}

func TestDetect(t *testing.T) {
	f := newFixture(t, http.StatusOK)

	resp := f.do(t, http.MethodPost, "/v1/detect", documentRequest{
		Source:   "const a = b ?? c;",
		Language: "javascript",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[featuresResponse](t, resp)

	require.Len(t, got.Features, 1)
	assert.Equal(t, "Nullish coalescing", got.Features[0].Name)
	assert.Equal(t, feature.StatusWidely, got.Features[0].Status)
	assert.Equal(t, 1, got.Features[0].Line)
	assert.Equal(t, 12, got.Features[0].Column)
}

func TestDetectUnscannedLanguage(t *testing.T) {
	f := newFixture(t, http.StatusOK)

	resp := f.do(t, http.MethodPost, "/v1/detect", documentRequest{Source: "x ?? y", Language: "python"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[featuresResponse](t, resp)
	assert.NotNil(t, got.Features)
	assert.Empty(t, got.Features)
	assert.Zero(t, f.requests.Load())
}

func TestDetectBadRequests(t *testing.T) {
	f := newFixture(t, http.StatusOK)

	tests := []struct {
		name   string
		body   string
		status int
		code   bserrors.Code
	}{
		{"malformed json", `{"source": `, http.StatusBadRequest, bserrors.ErrCodeInvalidInput},
		{"unknown field", `{"source": "a", "lang": "css"}`, http.StatusBadRequest, bserrors.ErrCodeInvalidInput},
		{"bad language", `{"source": "a", "language": "java script"}`, http.StatusBadRequest, bserrors.ErrCodeInvalidLanguage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireError(t, f.do(t, http.MethodPost, "/v1/detect", tt.body), tt.status, tt.code)
		})
	}
}

func TestDetectSourceTooLarge(t *testing.T) {
	f := newFixture(t, http.StatusOK)

	big := documentRequest{Source: strings.Repeat("a", bserrors.MaxSourceBytes+1), Language: "css"}
	resp := f.do(t, http.MethodPost, "/v1/detect", big)
	requireError(t, resp, http.StatusRequestEntityTooLarge, bserrors.ErrCodeSourceTooLarge)
}

func TestResolve(t *testing.T) {
	f := newFixture(t, http.StatusOK)
	src := "const a = b ?? c;\nlet d = 1;"

	resp := f.do(t, http.MethodPost, "/v1/resolve", documentRequest{Source: src, Language: "js", Line: 1, Column: 13})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[resolveResponse](t, resp)
	require.NotNil(t, got.Feature)
	assert.Equal(t, "nullish-coalescing", got.Feature.FeatureID)
	assert.Contains(t, got.Hover, "### ✅ Nullish coalescing")

	resp = f.do(t, http.MethodPost, "/v1/resolve", documentRequest{Source: src, Language: "js", Line: 2, Column: 0})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got = decodeBody[resolveResponse](t, resp)
	assert.Nil(t, got.Feature)
	assert.Empty(t, got.Hover)

	resp = f.do(t, http.MethodPost, "/v1/resolve", documentRequest{Source: src, Language: "js", Line: 0})
	requireError(t, resp, http.StatusBadRequest, bserrors.ErrCodeInvalidPosition)
}

func TestReport(t *testing.T) {
	f := newFixture(t, http.StatusOK)

	resp := f.do(t, http.MethodPost, "/v1/report", documentRequest{
		Source:   "const g = Object.groupBy(xs, key) ?? {};",
		Language: "typescript",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[report.Report](t, resp)

	assert.Equal(t, 2, got.Total)
	assert.Equal(t, 88, got.Score)
	assert.Equal(t, "Good", got.Grade)
	assert.Equal(t, 1, got.Stats.Widely)
	assert.Equal(t, 1, got.Stats.Newly)
	require.NotEmpty(t, got.Recommendations)
	assert.Equal(t, "Object.groupBy", got.Recommendations[0].Feature)
}

func TestSessionLifecycle(t *testing.T) {
	f := newFixture(t, http.StatusOK)

	resp := f.do(t, http.MethodPost, "/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sess := decodeBody[session.Session](t, resp)
	require.True(t, session.ValidID(sess.ID))
	base := "/v1/sessions/" + sess.ID

	// Nothing cached yet.
	resp = f.do(t, http.MethodGet, base+"/resolve?line=1&column=12", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, decodeBody[resolveResponse](t, resp).Feature)

	doc := documentRequest{Source: "const a = b ?? c;", Language: "javascript"}
	for range 3 {
		resp = f.do(t, http.MethodPost, base+"/detect", doc)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, decodeBody[featuresResponse](t, resp).Features, 1)
	}
	assert.Equal(t, int32(1), f.requests.Load())

	resp = f.do(t, http.MethodGet, base+"/resolve?line=1&column=12", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[resolveResponse](t, resp)
	require.NotNil(t, got.Feature)
	assert.Equal(t, "Nullish coalescing", got.Feature.Name)

	resp = f.do(t, http.MethodDelete, base+"/cache", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = f.do(t, http.MethodGet, base+"/resolve?line=1&column=12", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, decodeBody[resolveResponse](t, resp).Feature)

	resp = f.do(t, http.MethodDelete, base, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = f.do(t, http.MethodPost, base+"/detect", doc)
	requireError(t, resp, http.StatusNotFound, bserrors.ErrCodeSessionNotFound)
}

func TestSessionErrors(t *testing.T) {
	f := newFixture(t, http.StatusOK)

	requireError(t, f.do(t, http.MethodGet, "/v1/sessions/not-a-uuid/resolve?line=1&column=0", nil),
		http.StatusNotFound, bserrors.ErrCodeSessionNotFound)
	requireError(t, f.do(t, http.MethodDelete, "/v1/sessions/"+session.NewID()+"/cache", nil),
		http.StatusNotFound, bserrors.ErrCodeSessionNotFound)

	resp := f.do(t, http.MethodPost, "/v1/sessions", nil)
	id := decodeBody[session.Session](t, resp).ID
	requireError(t, f.do(t, http.MethodGet, "/v1/sessions/"+id+"/resolve?line=one&column=0", nil),
		http.StatusBadRequest, bserrors.ErrCodeInvalidPosition)
	requireError(t, f.do(t, http.MethodGet, "/v1/sessions/"+id+"/resolve?line=1&column=-1", nil),
		http.StatusBadRequest, bserrors.ErrCodeInvalidPosition)
}

func TestFeatures(t *testing.T) {
	f := newFixture(t, http.StatusOK)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"nullish-coalescing", "object-group-by", "urlpattern"}},
		{"?q=GROUP", []string{"object-group-by"}},
		{"?status=widely", []string{"nullish-coalescing"}},
		{"?status=limited", []string{"urlpattern"}},
		{"?limit=2", []string{"nullish-coalescing", "object-group-by"}},
		{"?q=nothing-like-this", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp := f.do(t, http.MethodGet, "/v1/features"+tt.query, nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			got := decodeBody[catalogResponse](t, resp)
			ids := []string{}
			for _, feat := range got.Features {
				ids = append(ids, feat.FeatureID)
			}
			assert.Equal(t, tt.want, ids)
			assert.Equal(t, len(tt.want), got.Count)
		})
	}

	requireError(t, f.do(t, http.MethodGet, "/v1/features?limit=many", nil),
		http.StatusBadRequest, bserrors.ErrCodeInvalidInput)
}

func TestFeatureStats(t *testing.T) {
	f := newFixture(t, http.StatusOK)

	resp := f.do(t, http.MethodGet, "/v1/features/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, webstatus.Stats{Total: 3, Widely: 1, Newly: 1, Limited: 1}, decodeBody[webstatus.Stats](t, resp))
}

func TestCatalogUnavailable(t *testing.T) {
	f := newFixture(t, http.StatusInternalServerError)

	requireError(t, f.do(t, http.MethodGet, "/v1/features", nil), http.StatusBadGateway, bserrors.ErrCodeNetwork)
	requireError(t, f.do(t, http.MethodGet, "/v1/features/stats", nil), http.StatusBadGateway, bserrors.ErrCodeNetwork)

	// Detection degrades instead of failing.
	resp := f.do(t, http.MethodPost, "/v1/detect", documentRequest{Source: "a ?? b", Language: "javascript"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[featuresResponse](t, resp)
	require.Len(t, got.Features, 1)
	assert.Equal(t, feature.StatusUnknown, got.Features[0].Status)
	assert.Equal(t, "Nullish Coalescing (??)", got.Features[0].Name)

	// A session resolves against the document it last detected, even degraded.
	resp = f.do(t, http.MethodPost, "/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	base := "/v1/sessions/" + decodeBody[session.Session](t, resp).ID
	resp = f.do(t, http.MethodPost, base+"/detect", documentRequest{Source: "let x;\nconst y = a?.b;", Language: "javascript"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do(t, http.MethodGet, base+"/resolve?line=2&column=11", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	res := decodeBody[resolveResponse](t, resp)
	require.NotNil(t, res.Feature)
	assert.Equal(t, "Optional Chaining (?.)", res.Feature.Name)
}

func TestExpireCache(t *testing.T) {
	ctx := t.Context()
	mem := cache.NewMemoryCache()
	require.NoError(t, mem.Set(ctx, "stale", []byte("a"), time.Millisecond))
	require.NoError(t, mem.Set(ctx, "fresh", []byte("b"), time.Hour))
	time.Sleep(10 * time.Millisecond)

	s := New(detect.New(nil), nil, session.NewMemoryStore(detect.New(nil), time.Minute), Options{
		Logger: log.New(io.Discard),
		Cache:  mem,
	})
	assert.Equal(t, 1, s.expireCache())
	assert.Equal(t, 0, s.expireCache())

	_, ok, err := mem.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, ok)

	// Tiers without eager expiry are left alone.
	s = New(detect.New(nil), nil, session.NewMemoryStore(detect.New(nil), time.Minute), Options{
		Logger: log.New(io.Discard),
		Cache:  cache.NewNullCache(),
	})
	assert.Equal(t, 0, s.expireCache())
}
