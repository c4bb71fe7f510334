package cache

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

type entry struct {
	data    []byte
	expires time.Time
}

// Memory is an in-process Store bounded by entry count. mu guards items, so
// an expired entry is removed in the same critical section that found it.
type Memory struct {
	mu    sync.Mutex
	items *simplelru.LRU[string, entry]
	now   func() time.Time
}

// NewMemory creates an LRU-backed store holding at most size entries
func NewMemory(size int) (*Memory, error) {
	if size <= 0 {
		size = 1024
	}
	c, err := simplelru.NewLRU[string, entry](size, nil)
	if err != nil {
		return nil, err
	}
	return &Memory{items: c, now: time.Now}, nil
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.items.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		m.items.Remove(key)
		return nil, ErrMiss
	}
	return e.data, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{data: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.items.Add(key, e)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		m.items.Remove(k)
	}
	return nil
}

// Len reports the number of resident entries, expired ones included
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items.Len()
}
