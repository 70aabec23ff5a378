package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryCache(t *testing.T) {
	c := New(4)
	assert.Equal(t, 0, c.Len())

	_, ok := c.Get(1)
	assert.False(t, ok)

	c.Set(1, &CachedQuery{SQL: "SELECT 1", Args: []any{42}})
	got, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "SELECT 1", got.SQL)
	assert.Equal(t, []any{42}, got.Args)
	assert.Equal(t, 1, c.Len())
}

func TestQueryCacheEviction(t *testing.T) {
	c := New(2)
	c.Set(1, &CachedQuery{SQL: "a"})
	c.Set(2, &CachedQuery{SQL: "b"})
	c.Set(3, &CachedQuery{SQL: "c"})

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(1)
	assert.False(t, ok)
	_, ok = c.Get(3)
	assert.True(t, ok)
}

func TestQueryCacheDefaultSize(t *testing.T) {
	c := New(0)
	c.Set(7, &CachedQuery{SQL: "x"})
	_, ok := c.Get(7)
	assert.True(t, ok)
}
