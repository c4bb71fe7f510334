package collection

import (
	"context"
	"slices"
	"sync"
	"time"

	"fashionmart/internal/core/listview"
	"fashionmart/internal/upstream"

	"github.com/rs/zerolog/log"
)

// Session is one open list view. Implementations are safe for concurrent use.
type Session interface {
	Resource() string
	Token() string
	State() listview.ViewState
	// Load fetches the collection, reading through the page cache.
	Load(ctx context.Context) error
	// Refresh fetches the collection from upstream, bypassing the cache.
	Refresh(ctx context.Context) error
	ApplyFilter(ctx context.Context, key string, raw []string) error
	ClearFilter(ctx context.Context, key string) error
	SetSort(key listview.SortKey) error
	LoadMore()
	Reset(ctx context.Context) error
	Remove(id string) bool
	Replace(body []byte) error
	Render() View
	LastFetched() time.Time
	LastUsed() time.Time
}

// Controller owns the state and resident collection of one list view.
//
// Every fetch is tagged with a generation number. A result is applied only if
// no newer fetch was started while it was in flight, so the last request wins
// regardless of the order in which responses arrive.
type Controller[T any] struct {
	res     *resource[T]
	fetcher *Fetcher
	token   string

	mu        sync.Mutex
	state     listview.ViewState
	items     []T
	total     int
	err       error
	loading   bool
	gen       uint64
	fetchedAt time.Time
	usedAt    time.Time
}

func newController[T any](r *resource[T], f *Fetcher, token string, state listview.ViewState) *Controller[T] {
	if !r.cfg.HasSort(state.Sort) {
		state = state.WithSort(r.cfg.DefaultSort)
	}
	if state.Filters == nil {
		state = state.WithFilters(listview.FilterState{})
	}
	return &Controller[T]{
		res:     r,
		fetcher: f,
		token:   token,
		state:   state,
		items:   []T{},
		usedAt:  time.Now(),
	}
}

func (c *Controller[T]) Resource() string { return c.res.name }
func (c *Controller[T]) Token() string { return c.token }

func (c *Controller[T]) State() listview.ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller[T]) Load(ctx context.Context) error { return c.fetch(ctx, false) }
func (c *Controller[T]) Refresh(ctx context.Context) error { return c.fetch(ctx, true) }

func (c *Controller[T]) fetch(ctx context.Context, fresh bool) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	q := serverQuery(c.res.cfg.ServerKeys, c.state.Filters, c.fetcher.cfg.PageSize)
	c.loading = true
	c.mu.Unlock()

	if upstream.TokenFrom(ctx) == "" && c.token != "" {
		ctx = upstream.WithToken(ctx, c.token)
	}
	page, err := fetchPage[T](ctx, c.fetcher, c.res.name, c.res.itemsField, q, fresh)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		c.fetcher.metrics.discarded(c.res.name)
		log.Debug().
			Str("resource", c.res.name).
			Uint64("generation", gen).
			Uint64("latest", c.gen).
			Msg("discarding stale fetch result")
		return nil
	}
	c.loading = false
	if err != nil {
		c.err = err
		return err
	}
	c.items = page.Items
	c.total = page.Total
	c.err = nil
	c.fetchedAt = time.Now()
	return nil
}

// ApplyFilter parses raw into the value type of key and applies it. A value
// that constrains nothing clears the filter. Server-side keys trigger a fetch.
func (c *Controller[T]) ApplyFilter(ctx context.Context, key string, raw []string) error {
	field, ok := c.res.cfg.Fields[key]
	if !ok {
		return ErrUnknownFilter
	}
	c.mu.Lock()
	c.state = c.state.WithFilter(key, listview.ParseValue(field.Kind, raw))
	c.usedAt = time.Now()
	c.mu.Unlock()

	if c.res.cfg.IsServerKey(key) {
		return c.Load(ctx)
	}
	return nil
}

func (c *Controller[T]) ClearFilter(ctx context.Context, key string) error {
	if _, ok := c.res.cfg.Fields[key]; !ok {
		return ErrUnknownFilter
	}
	c.mu.Lock()
	_, had := c.state.Filters[key]
	c.state = c.state.WithoutFilter(key)
	c.usedAt = time.Now()
	c.mu.Unlock()

	if had && c.res.cfg.IsServerKey(key) {
		return c.Load(ctx)
	}
	return nil
}

func (c *Controller[T]) SetSort(key listview.SortKey) error {
	if !c.res.cfg.HasSort(key) {
		return ErrUnknownSort
	}
	c.mu.Lock()
	c.state = c.state.WithSort(key)
	c.usedAt = time.Now()
	c.mu.Unlock()
	return nil
}

func (c *Controller[T]) LoadMore() {
	c.mu.Lock()
	c.state = c.state.LoadMore()
	c.usedAt = time.Now()
	c.mu.Unlock()
}

// Reset clears every filter, refetching when a server-side filter was active
func (c *Controller[T]) Reset(ctx context.Context) error {
	c.mu.Lock()
	server := false
	for key := range c.state.Filters {
		server = server || c.res.cfg.IsServerKey(key)
	}
	c.state = c.state.Reset()
	c.usedAt = time.Now()
	c.mu.Unlock()

	if server {
		return c.Load(ctx)
	}
	return nil
}

// Remove drops the item with id from the resident collection
func (c *Controller[T]) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.usedAt = time.Now()

	next := make([]T, 0, len(c.items))
	for _, it := range c.items {
		if c.res.key(it) != id {
			next = append(next, it)
		}
	}
	if len(next) == len(c.items) {
		return false
	}
	c.items = next
	c.total = max(c.total-1, len(next))
	return true
}

// Replace swaps in the updated entity returned by a mutation endpoint
func (c *Controller[T]) Replace(body []byte) error {
	item, err := upstream.DecodeOne[T](body)
	if err != nil {
		return err
	}
	id := c.res.key(item)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.usedAt = time.Now()
	i := slices.IndexFunc(c.items, func(it T) bool { return c.res.key(it) == id })
	if i < 0 {
		return nil
	}
	next := slices.Clone(c.items)
	next[i] = item
	c.items = next
	return nil
}

// Render runs the pipeline over the resident collection. It never performs I/O.
func (c *Controller[T]) Render() View {
	c.mu.Lock()
	items, state, total := c.items, c.state, c.total
	err, loading, fetchedAt := c.err, c.loading, c.fetchedAt
	c.usedAt = time.Now()
	c.mu.Unlock()

	cfg := c.res.cfg
	res := listview.Run(items, cfg, state)
	v := View{
		Resource: c.res.name,
		Items:    res.Items,
		Matched:  res.Matched,
		Total:    total,
		Sort:     res.Sort,
		Sorts:    cfg.SortKeys(),
		Filters:  listview.EncodeFilters(cfg, state.Filters),
		Page:     res.Page,
		Limit:    res.Limit,
		HasMore:  res.HasMore,
		Summary:  c.res.summarize(listview.Filter(items, cfg, state.Filters)),
		Loading:  loading,
		Error:    errorState(err),
	}
	if !fetchedAt.IsZero() {
		v.FetchedAt = &fetchedAt
	}
	return v
}

func (c *Controller[T]) LastFetched() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetchedAt
}

func (c *Controller[T]) LastUsed() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.usedAt
}

// upstreamKeys are the filter keys the marketplace list and export endpoints accept
var upstreamKeys = []string{"status", "category", "search", "date"}

// serverQuery maps the filters named by keys onto upstream list parameters
func serverQuery(keys []string, filters listview.FilterState, pageSize int) upstream.Query {
	q := upstream.Query{Page: 1, Limit: pageSize}
	for _, key := range keys {
		switch v := filters[key].(type) {
		case string:
			switch key {
			case "status":
				q.Status = v
			case "category":
				q.Category = v
			case "search":
				q.Search = v
			}
		case listview.TimeRange:
			q.StartDate, q.EndDate = v.From, v.To
		}
	}
	return q
}
