package cli

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

const testCatalog = `{"data": [
  {"feature_id": "css-grid", "name": "Grid", "description": "Two-dimensional layout.",
   "baseline": {"status": "widely", "low_date": "2017-10-17", "high_date": "2020-04-17"}},
  {"feature_id": "flexbox-gap", "name": "Flexbox gap", "baseline": {"status": "widely", "low_date": "2021-04-26"}},
  {"feature_id": "css-has", "name": ":has()", "description": "Selects an element by its descendants.",
   "baseline": {"status": "newly", "low_date": "2023-12-19"},
   "browser_implementations": {"chrome": {"status": "available", "version": "105"}, "firefox": {"status": "available", "version": "121"}}},
  {"feature_id": "view-transitions", "name": "View transitions", "baseline": {"status": "limited"}},
  {"feature_id": "nullish-coalescing", "name": "Nullish coalescing", "baseline": {"status": "widely"}}
]}`

// testCSS holds, in order: grid and gap on line 1, :has() and a view
// transition on line 2.
const testCSS = ".a { display: grid; gap: 1rem; }\n.b:has(> img) { view-transition-name: hero; }\n"

// isolateEnv points config, cache and .env lookup at a fresh temp dir.
func isolateEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Chdir(dir)
	return dir
}

type testEnv struct {
	dir      string
	cfgPath  string
	cacheDir string
	requests *atomic.Int32
}

// newTestEnv serves testCatalog and writes a config using it with the
// given cache backend.
func newTestEnv(t *testing.T, backend string) *testEnv {
	t.Helper()
	dir := isolateEnv(t)
	env := &testEnv{
		dir:      dir,
		cfgPath:  filepath.Join(dir, "baseline.toml"),
		cacheDir: filepath.Join(dir, "catalog-cache"),
		requests: new(atomic.Int32),
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.requests.Add(1)
		io.WriteString(w, testCatalog)
	}))
	t.Cleanup(srv.Close)

	cfg := fmt.Sprintf("endpoint = %q\nretry_attempts = 1\n\n[cache]\nbackend = %q\ndir = %q\n", srv.URL, backend, env.cacheDir)
	require.NoError(t, os.WriteFile(env.cfgPath, []byte(cfg), 0o644))
	return env
}

func (e *testEnv) writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// run executes the CLI with args and returns what it wrote to stdout.
func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := New(io.Discard, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", e.cfgPath}, args...))
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

// syncBuffer is a bytes.Buffer safe for concurrent writes and reads.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
