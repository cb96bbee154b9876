package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/wayfinder/internal/application/port"
)

var _ port.Cache[string, []string] = (*LRU[string, []string])(nil)

func TestLRU_BasicOperations(t *testing.T) {
	c := NewLRU[string, int](3)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	val, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, val)

	val, ok = c.Get("notfound")
	assert.False(t, ok)
	assert.Equal(t, 0, val)

	assert.Equal(t, 3, c.Len())
}

func TestLRU_Eviction(t *testing.T) {
	c := NewLRU[string, int](2)

	c.Set("a", 1)
	c.Set("b", 2)
	_, _ = c.Get("a") // a is now most recent
	c.Set("c", 3)     // evicts b

	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestLRU_UpdateExisting(t *testing.T) {
	c := NewLRU[string, int](2)
	c.Set("a", 1)
	c.Set("a", 10)

	val, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 10, val)
	assert.Equal(t, 1, c.Len())
}

func TestLRU_TTLExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewLRU[string, string](4, WithTTL(time.Minute), WithClock(func() time.Time { return now }))

	c.Set("q", "v")
	now = now.Add(30 * time.Second)
	_, ok := c.Get("q")
	assert.True(t, ok)

	now = now.Add(31 * time.Second)
	_, ok = c.Get("q")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestLRU_RemoveAndClear(t *testing.T) {
	c := NewLRU[int, int](0) // raised to 1
	c.Set(1, 1)
	c.Remove(1)
	c.Remove(42)
	assert.Equal(t, 0, c.Len())

	c.Set(2, 2)
	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestLRU_Concurrent(t *testing.T) {
	c := NewLRU[string, int](64)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 200 {
				key := fmt.Sprintf("%d-%d", i, j%80)
				c.Set(key, j)
				c.Get(key)
			}
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 64)
}
