package collection

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"fashionmart/internal/store/cache"
	"fashionmart/internal/upstream"

	"github.com/rs/zerolog/log"
)

// Upstream is the marketplace API as the collection service uses it
type Upstream interface {
	List(ctx context.Context, resource string, q upstream.Query) ([]byte, error)
	Action(ctx context.Context, resource, id, action string, body any) ([]byte, error)
	Delete(ctx context.Context, resource, id string) error
	Export(ctx context.Context, resource, format string, q upstream.Query) (*upstream.Blob, error)
}

// FetcherConfig tunes the read-through page cache
type FetcherConfig struct {
	// PageSize is the number of items requested per collection fetch.
	PageSize int
	TTL      time.Duration
}

// Fetcher loads collection pages, reading through the page cache. Cached and
// fresh bodies are decoded the same way, so callers cannot tell them apart.
type Fetcher struct {
	client   Upstream
	cache    cache.Store
	cfg      FetcherConfig
	metrics  *Metrics
	mu       sync.Mutex
	versions map[string]uint64
}

// NewFetcher creates a fetcher. store may be nil, which disables caching.
func NewFetcher(client Upstream, store cache.Store, cfg FetcherConfig, m *Metrics) *Fetcher {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	if cfg.TTL <= 0 {
		store = nil
	}
	return &Fetcher{client: client, cache: store, cfg: cfg, metrics: m, versions: map[string]uint64{}}
}

// Client exposes the upstream client for proxied mutations
func (f *Fetcher) Client() Upstream { return f.client }

// body returns the raw list response. fresh skips the cache read but still
// stores the new body.
func (f *Fetcher) body(ctx context.Context, resource string, q upstream.Query, fresh bool) ([]byte, error) {
	key := f.key(upstream.TokenFrom(ctx), resource, q)

	if f.cache != nil && !fresh {
		b, err := f.cache.Get(ctx, key)
		switch {
		case err == nil:
			f.metrics.lookup(resource, true)
			return b, nil
		case !errors.Is(err, cache.ErrMiss):
			log.Warn().Err(err).Str("resource", resource).Msg("page cache read failed")
		}
		f.metrics.lookup(resource, false)
	}

	b, err := f.client.List(ctx, resource, q)
	if err != nil {
		outcome := string(upstream.KindOf(err))
		if outcome == "" {
			outcome = "error"
		}
		f.metrics.fetch(resource, outcome)
		return nil, err
	}
	f.metrics.fetch(resource, "ok")

	if f.cache != nil {
		if err := f.cache.Set(ctx, key, b, f.cfg.TTL); err != nil {
			log.Warn().Err(err).Str("resource", resource).Msg("page cache write failed")
		}
	}
	return b, nil
}

// Invalidate makes every cached page of resource unreachable
func (f *Fetcher) Invalidate(resource string) {
	f.mu.Lock()
	f.versions[resource]++
	f.mu.Unlock()
}

func (f *Fetcher) key(token, resource string, q upstream.Query) string {
	f.mu.Lock()
	v := f.versions[resource]
	f.mu.Unlock()

	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%s:%s:v%d:%s", hex.EncodeToString(sum[:]), resource, v, q.CacheKey())
}

// fetchPage loads and decodes one page of T
func fetchPage[T any](ctx context.Context, f *Fetcher, resource, itemsField string, q upstream.Query, fresh bool) (upstream.Page[T], error) {
	body, err := f.body(ctx, resource, q, fresh)
	if err != nil {
		return upstream.Page[T]{}, err
	}
	page, err := upstream.DecodePage[T](body, itemsField)
	if err != nil {
		f.metrics.fetch(resource, string(upstream.KindDecode))
		if f.cache != nil {
			_ = f.cache.Delete(ctx, f.key(upstream.TokenFrom(ctx), resource, q))
		}
		return upstream.Page[T]{}, err
	}
	return page, nil
}
