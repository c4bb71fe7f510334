package refresh

import (
	"context"
	"errors"
	"time"

	"fashionmart/internal/services/collection"
	"fashionmart/internal/upstream"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Policy maps a resource to its poll interval. Resources without an entry are never polled.
type Policy map[string]time.Duration

// DefaultPolicy returns the dashboard poll intervals
func DefaultPolicy() Policy {
	return Policy{
		"orders":   30 * time.Second,
		"payments": 60 * time.Second,
		"tickets":  30 * time.Second,
		"stock":    60 * time.Second,
		"returns":  60 * time.Second,
	}
}

// Worker periodically refreshes open sessions and evicts idle ones.
// RunOnce is not safe for concurrent use; Run calls it from a single goroutine.
type Worker struct {
	sessions    *collection.Sessions
	policy      Policy
	tick        time.Duration
	idleTTL     time.Duration
	concurrency int
	now         func() time.Time
	newBackOff  func(interval time.Duration) backoff.BackOff

	// retries holds sessions whose last refresh failed with a retryable error
	retries map[string]*retry
}

type retry struct {
	next    time.Time
	backOff backoff.BackOff
}

// NewWorker creates a new session refresh worker
func NewWorker(sessions *collection.Sessions, policy Policy, tick, idleTTL time.Duration) *Worker {
	if tick == 0 {
		tick = 5 * time.Second
	}
	if idleTTL == 0 {
		idleTTL = 30 * time.Minute
	}
	if policy == nil {
		policy = DefaultPolicy()
	}

	return &Worker{
		sessions:    sessions,
		policy:      policy,
		tick:        tick,
		idleTTL:     idleTTL,
		concurrency: 8,
		now:         time.Now,
		newBackOff:  exponential,
		retries:     map[string]*retry{},
	}
}

// exponential spaces retries of one session out until its next regular poll
func exponential(interval time.Duration) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = interval
	b.Reset()
	return b
}

// Run starts the worker and refreshes sessions until context is cancelled
func (w *Worker) Run(ctx context.Context) {
	log.Info().
		Dur("tick", w.tick).
		Dur("idle_ttl", w.idleTTL).
		Msg("session refresh worker started")

	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("session refresh worker stopping")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce evicts idle sessions, then makes one refresh attempt for every
// session that is due. Each attempt is bounded by the tick, so a slow or
// failing upstream never delays other sessions past the next tick.
// It returns the number of sessions refreshed successfully.
func (w *Worker) RunOnce(ctx context.Context) int {
	now := w.now()
	if n := w.sessions.EvictIdle(now.Add(-w.idleTTL)); n > 0 {
		log.Debug().Int("count", n).Msg("evicted idle sessions")
	}

	type due struct {
		id       string
		sess     collection.Session
		interval time.Duration
	}
	var batch []due
	open := make(map[string]bool, len(w.retries))
	w.sessions.Each(func(id string, sess collection.Session) {
		interval, ok := w.policy[sess.Resource()]
		if !ok || interval <= 0 {
			return
		}
		open[id] = true
		if w.isDue(id, sess, interval, now) {
			batch = append(batch, due{id: id, sess: sess, interval: interval})
		}
	})
	for id := range w.retries {
		if !open[id] {
			delete(w.retries, id)
		}
	}
	if len(batch) == 0 {
		return 0
	}

	log.Debug().Int("count", len(batch)).Msg("refreshing sessions")

	errs := make([]error, len(batch))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for i, d := range batch {
		g.Go(func() error {
			errs[i] = w.attempt(gctx, d.sess)
			return nil
		})
	}
	_ = g.Wait()

	ok := 0
	for i, d := range batch {
		if w.settle(d.id, d.sess, d.interval, errs[i], now) {
			ok++
		}
	}
	return ok
}

func (w *Worker) isDue(id string, sess collection.Session, interval time.Duration, now time.Time) bool {
	if r, ok := w.retries[id]; ok {
		return !now.Before(r.next)
	}
	return now.Sub(sess.LastFetched()) >= interval
}

func (w *Worker) attempt(ctx context.Context, sess collection.Session) error {
	ctx, cancel := context.WithTimeout(ctx, w.tick)
	defer cancel()
	return sess.Refresh(ctx)
}

// settle records the outcome of one attempt and schedules the next one
func (w *Worker) settle(id string, sess collection.Session, interval time.Duration, err error, now time.Time) bool {
	r := w.retries[id]
	if err == nil {
		if r != nil {
			log.Debug().Str("session_id", id).Str("resource", sess.Resource()).Msg("session refresh recovered")
		}
		delete(w.retries, id)
		return true
	}

	evt := log.Warn().
		Err(err).
		Str("session_id", id).
		Str("resource", sess.Resource())

	switch {
	case upstream.KindOf(err) == upstream.KindUnauthorized:
		// The caller's token is no longer valid; the page has to sign in again.
		evt.Msg("session refresh unauthorized, dropping session")
		delete(w.retries, id)
		w.sessions.Remove(id)
		return false
	case !retryable(err):
		evt.Msg("session refresh failed")
		w.retries[id] = &retry{next: now.Add(interval)}
		return false
	}

	if r == nil || r.backOff == nil {
		r = &retry{backOff: w.newBackOff(interval)}
		w.retries[id] = r
	}
	delay := r.backOff.NextBackOff()
	if delay == backoff.Stop {
		// retries exhausted; fall back to the regular poll interval
		r.backOff.Reset()
		delay = interval
	}
	r.next = now.Add(delay)
	evt.Dur("retry_in", delay).Msg("session refresh failed, will retry")
	return false
}

func retryable(err error) bool {
	return upstream.Retryable(err) || errors.Is(err, context.DeadlineExceeded)
}
