package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetSetExpire(t *testing.T) {
	ctx := context.Background()
	m, err := NewMemory(2)
	require.NoError(t, err)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	_, err = m.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, m.Set(ctx, "a", []byte("one"), time.Minute))
	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "one", string(got))

	now = now.Add(time.Minute)
	_, err = m.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrMiss)
	assert.Equal(t, 0, m.Len())
}

func TestMemory_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	m, err := NewMemory(2)
	require.NoError(t, err)

	require.NoError(t, m.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, m.Set(ctx, "b", []byte("2"), 0))
	_, err = m.Get(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, m.Set(ctx, "c", []byte("3"), 0))

	_, err = m.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrMiss)
	_, err = m.Get(ctx, "a")
	assert.NoError(t, err)

	require.NoError(t, m.Delete(ctx, "a", "c"))
	assert.Equal(t, 0, m.Len())
}

func TestMemory_SetCopiesValue(t *testing.T) {
	ctx := context.Background()
	m, err := NewMemory(4)
	require.NoError(t, err)

	buf := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", buf, 0))
	buf[0] = 'x'
	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestMemory_ExpiryDoesNotDropFreshWrite(t *testing.T) {
	ctx := context.Background()
	m, err := NewMemory(64)
	require.NoError(t, err)

	var mu sync.Mutex
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	for i := range 8 {
		require.NoError(t, m.Set(ctx, fmt.Sprint("k", i), []byte("old"), time.Second))
	}
	mu.Lock()
	now = now.Add(time.Minute)
	mu.Unlock()

	// readers expire the old entries while writers store fresh ones
	var wg sync.WaitGroup
	for i := range 8 {
		key := fmt.Sprint("k", i)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = m.Get(ctx, key)
		}()
		go func() {
			defer wg.Done()
			_ = m.Set(ctx, key, []byte("new"), time.Hour)
		}()
	}
	wg.Wait()

	for i := range 8 {
		key := fmt.Sprint("k", i)
		got, err := m.Get(ctx, key)
		require.NoError(t, err, key)
		assert.Equal(t, "new", string(got))
	}
	assert.Equal(t, 8, m.Len())
}

func TestRedis_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	s := NewRedis(rdb, "test:")

	_, err := s.Get(ctx, "orders")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, s.Set(ctx, "orders", []byte(`{"orders":[]}`), 30*time.Second))
	assert.True(t, mr.Exists("test:orders"))
	assert.Equal(t, 30*time.Second, mr.TTL("test:orders"))

	got, err := s.Get(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, `{"orders":[]}`, string(got))

	mr.FastForward(31 * time.Second)
	_, err = s.Get(ctx, "orders")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, s.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, s.Delete(ctx, "a"))
	assert.False(t, mr.Exists("test:a"))
	assert.NoError(t, s.Delete(ctx))
}

func TestDial(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	rdb, err := Dial(context.Background(), addr)
	require.NoError(t, err)
	_ = rdb.Close()

	mr.Close()
	_, err = Dial(context.Background(), addr)
	assert.Error(t, err)
}
