package collection

import (
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Sessions holds open list views, least recently used evicted first
type Sessions struct {
	cache   *lru.Cache[string, Session]
	metrics *Metrics
}

func NewSessions(size int, m *Metrics) (*Sessions, error) {
	if size <= 0 {
		size = 1000
	}
	c, err := lru.NewWithEvict[string, Session](size, func(string, Session) {
		m.sessionDelta(-1)
	})
	if err != nil {
		return nil, err
	}
	return &Sessions{cache: c, metrics: m}, nil
}

// Add stores s under a new random id
func (s *Sessions) Add(sess Session) string {
	id := uuid.NewString()
	s.metrics.sessionDelta(1)
	s.cache.Add(id, sess)
	return id
}

func (s *Sessions) Get(id string) (Session, bool) {
	return s.cache.Get(id)
}

func (s *Sessions) Remove(id string) bool {
	return s.cache.Remove(id)
}

func (s *Sessions) Len() int {
	return s.cache.Len()
}

// Each calls fn for every session without touching recency
func (s *Sessions) Each(fn func(id string, sess Session)) {
	for _, id := range s.cache.Keys() {
		if sess, ok := s.cache.Peek(id); ok {
			fn(id, sess)
		}
	}
}

// EvictIdle removes sessions not used since cutoff and returns how many went
func (s *Sessions) EvictIdle(cutoff time.Time) int {
	n := 0
	s.Each(func(id string, sess Session) {
		if sess.LastUsed().Before(cutoff) && s.cache.Remove(id) {
			n++
		}
	})
	return n
}
