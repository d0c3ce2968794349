package webstatus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/baseline/pkg/buildinfo"
	"github.com/matzehuels/baseline/pkg/cache"
	"github.com/matzehuels/baseline/pkg/integrations"
)

// DefaultEndpoint is the public catalog endpoint.
const DefaultEndpoint = "https://api.webstatus.dev/v1/features"

const (
	defaultBackoff = 30 * time.Second
	defaultTimeout = 10 * time.Second
	maxPages       = 100
)

// ErrUnavailable is returned by lookups while the catalog cannot be loaded.
var ErrUnavailable = errors.New("feature catalog unavailable")

// Options configures a Client. Zero values select the defaults.
type Options struct {
	Endpoint       string
	TTL            time.Duration // snapshot freshness, default cache.TTLCatalog
	Timeout        time.Duration // deadline for one catalog load, retries and pages included
	FailureBackoff time.Duration // how long a failed download is remembered
	RetryAttempts  int
	RetryDelay     time.Duration
	Keyer          cache.Keyer
	Logger         *log.Logger
}

// Client is the metadata provider client. It is safe for concurrent use.
type Client struct {
	*integrations.Client
	endpoint string
	ttl      time.Duration
	backoff  time.Duration
	timeout  time.Duration
	logger   *log.Logger
	now      func() time.Time

	group singleflight.Group

	mu        sync.Mutex
	features  []Feature
	fetchedAt time.Time
	failedAt  time.Time
	failure   error
	lookups   map[string]int // normalized name -> index into features, -1 for a miss
}

// NewClient creates a Client whose downloaded catalog is also stored in c,
// so that a shared or on-disk tier survives the in-process snapshot. c may
// be nil.
func NewClient(c cache.Cache, opts Options) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.TTL <= 0 {
		opts.TTL = cache.TTLCatalog
	}
	if opts.FailureBackoff < 0 {
		opts.FailureBackoff = 0
	} else if opts.FailureBackoff == 0 {
		opts.FailureBackoff = defaultBackoff
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	base := integrations.NewClient(c, "webstatus", opts.TTL, map[string]string{
		"Accept":     "application/json",
		"User-Agent": buildinfo.UserAgent(),
	})
	base.SetTimeout(opts.Timeout)
	if opts.RetryAttempts > 0 {
		base.SetRetry(opts.RetryAttempts, opts.RetryDelay)
	}
	base.SetKeyer(opts.Keyer)

	return &Client{
		Client:   base,
		endpoint: opts.Endpoint,
		ttl:      opts.TTL,
		backoff:  opts.FailureBackoff,
		timeout:  opts.Timeout,
		logger:   opts.Logger,
		now:      time.Now,
		lookups:  make(map[string]int),
	}
}

// Endpoint returns the catalog URL.
func (c *Client) Endpoint() string { return c.endpoint }

// FetchAll returns the full catalog. A fresh snapshot is returned without
// a network call. On failure it logs and returns nil; callers must read an
// empty result as "no data available".
func (c *Client) FetchAll(ctx context.Context) []Feature {
	features, _ := c.Catalog(ctx)
	return features
}

// Catalog is FetchAll with the failure reported. The returned slice is
// shared and must not be modified.
func (c *Client) Catalog(ctx context.Context) ([]Feature, error) {
	c.mu.Lock()
	now := c.now()
	if c.features != nil && now.Sub(c.fetchedAt) < c.ttl {
		features := c.features
		c.mu.Unlock()
		return features, nil
	}
	if c.failure != nil && now.Sub(c.failedAt) < c.backoff {
		err := c.failure
		c.mu.Unlock()
		return nil, err
	}
	c.mu.Unlock()

	ch := c.group.DoChan("catalog", func() (any, error) {
		return c.refresh(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]Feature), nil
	}
}

// Refresh drops the snapshot so the next lookup downloads the catalog
// again, bypassing the cache tier.
func (c *Client) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.features = nil
	c.failure = nil
	clear(c.lookups)
	c.mu.Unlock()
	return c.Invalidate(ctx, c.cacheKey())
}

func (c *Client) cacheKey() string {
	return c.Keyer().CatalogKey(c.endpoint)
}

// snapshot is the form the catalog takes in the cache tier. FetchedAt is
// when it was downloaded, so a reader sharing the tier ages it correctly.
type snapshot struct {
	FetchedAt time.Time `json:"fetched_at"`
	Features  []Feature `json:"features"`
}

func (c *Client) refresh(ctx context.Context) ([]Feature, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := c.now()
	snap, err := c.load(ctx, false)
	if err == nil && c.now().Sub(snap.FetchedAt) >= c.ttl {
		c.logger.Debug("cached feature catalog is stale", "fetched_at", snap.FetchedAt)
		snap, err = c.load(ctx, true)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.failure = fmt.Errorf("%w: %w", ErrUnavailable, err)
		c.failedAt = c.now()
		c.logger.Warn("feature catalog fetch failed", "endpoint", c.endpoint, "timeout", integrations.Timeout(err), "err", err)
		return nil, c.failure
	}
	c.features = snap.Features
	c.fetchedAt = snap.FetchedAt
	c.failure = nil
	clear(c.lookups)
	c.logger.Debug("feature catalog loaded", "features", len(snap.Features), "fetched_at", snap.FetchedAt, "took", c.now().Sub(start))
	return snap.Features, nil
}

// load reads the snapshot from the cache tier, downloading it on a miss or
// when refresh is set.
func (c *Client) load(ctx context.Context, refresh bool) (snapshot, error) {
	var snap snapshot
	err := c.Cached(ctx, c.cacheKey(), refresh, &snap, func() error {
		features, err := c.download(ctx)
		if err == nil && len(features) == 0 {
			err = fmt.Errorf("%w: empty catalog", integrations.ErrMalformed)
		}
		if err != nil {
			return err
		}
		snap = snapshot{FetchedAt: c.now(), Features: features}
		return nil
	})
	if err == nil && len(snap.Features) == 0 {
		err = fmt.Errorf("%w: empty cached catalog", integrations.ErrMalformed)
	}
	return snap, err
}

// download reads every page of the catalog. Records that do not decode, or
// carry neither an id nor a name, are skipped.
func (c *Client) download(ctx context.Context) ([]Feature, error) {
	var features []Feature
	url := c.endpoint
	for range maxPages {
		var p page
		if err := c.Get(ctx, url, &p); err != nil {
			return nil, err
		}
		for _, raw := range p.Data {
			var f Feature
			if err := json.Unmarshal(raw, &f); err != nil {
				c.logger.Debug("skipping malformed feature record", "err", err)
				continue
			}
			if f.FeatureID == "" && f.Name == "" {
				continue
			}
			features = append(features, f)
		}
		if p.Metadata.NextPageToken == "" {
			break
		}
		url = integrations.WithQuery(c.endpoint, map[string]string{"page_token": p.Metadata.NextPageToken})
	}
	return features, nil
}

// SearchFeature resolves a feature name or id against the catalog: first a
// case-insensitive exact match on name, then a case-insensitive substring
// match on name or feature id, in catalog order. It returns (nil, nil) when
// nothing matches and a non-nil error only when the catalog is unavailable.
// Answers are memoized until the snapshot is replaced.
func (c *Client) SearchFeature(ctx context.Context, name string) (*Feature, error) {
	features, err := c.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	key := integrations.NormalizeName(name)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.features == nil {
		// Refresh ran since Catalog returned; the memo belongs to the next
		// snapshot.
		if idx := search(features, key); idx >= 0 {
			return &features[idx], nil
		}
		return nil, nil
	}
	features = c.features
	idx, ok := c.lookups[key]
	if !ok {
		idx = search(features, key)
		c.lookups[key] = idx
	}
	if idx < 0 {
		return nil, nil
	}
	return &features[idx], nil
}

func search(features []Feature, key string) int {
	if key == "" {
		return -1
	}
	for i := range features {
		if strings.ToLower(features[i].Name) == key {
			return i
		}
	}
	for i := range features {
		if strings.Contains(strings.ToLower(features[i].Name), key) ||
			strings.Contains(strings.ToLower(features[i].FeatureID), key) {
			return i
		}
	}
	return -1
}

// Stats counts the whole catalog by status.
func (c *Client) Stats(ctx context.Context) Stats {
	return Count(c.FetchAll(ctx))
}
