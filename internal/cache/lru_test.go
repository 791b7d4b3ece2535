package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLRUCache_GetSet(t *testing.T) {
	c := NewLRUCache[string](2, time.Minute)

	_, ok := c.Get("maio")
	assert.False(t, ok)

	c.Set("maio", "a")
	v, ok := c.Get("maio")
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	c.Set("maio", "b")
	v, _ = c.Get("maio")
	assert.Equal(t, "b", v)
	assert.Equal(t, 1, c.Size())

	c.Delete("maio")
	assert.Equal(t, 0, c.Size())
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("abril", 4)
	c.Set("maio", 5)
	c.Get("abril")
	c.Set("junho", 6)

	_, ok := c.Get("maio")
	assert.False(t, ok)
	_, ok = c.Get("abril")
	assert.True(t, ok)
	_, ok = c.Get("junho")
	assert.True(t, ok)
}

func TestLRUCache_Expiry(t *testing.T) {
	now := time.Date(2025, 5, 3, 12, 0, 0, 0, time.UTC)
	c := NewLRUCache[int](10, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("abril", 4)
	c.Set("maio", 5)
	now = now.Add(30 * time.Second)
	c.Set("junho", 6)

	now = now.Add(45 * time.Second)
	_, ok := c.Get("abril")
	assert.False(t, ok)

	assert.Equal(t, 2, c.Size())
	_, ok = c.Get("maio")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Size())
	_, ok = c.Get("junho")
	assert.True(t, ok)
}
