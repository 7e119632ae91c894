package cache_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/ogero/stremio-tmdb/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Names []string
}

func openTestCache(t *testing.T) *cache.Cache {
	t.Helper()

	c, err := cache.Open("", slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return c
}

func TestMemoize(t *testing.T) {
	c := openTestCache(t)

	calls := 0
	fn := func() (*entry, error) {
		calls++
		return &entry{Names: []string{"Action", "Drama"}}, nil
	}

	value, hit, err := cache.Memoize(c, "tmdb.genres : en-US movie", time.Hour, fn)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []string{"Action", "Drama"}, value.Names)

	value, hit, err = cache.Memoize(c, "tmdb.genres : en-US movie", time.Hour, fn)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"Action", "Drama"}, value.Names)
	assert.Equal(t, 1, calls)
}

func TestMemoize_Error(t *testing.T) {
	c := openTestCache(t)
	errFetch := errors.New("fetch failed")

	_, _, err := cache.Memoize(c, "key", time.Hour, func() (*entry, error) { return nil, errFetch })
	assert.ErrorIs(t, err, errFetch)

	value, hit, err := cache.Memoize(c, "key", time.Hour, func() (*entry, error) { return &entry{Names: []string{"ok"}}, nil })
	require.NoError(t, err)
	assert.False(t, hit, "failures must not be cached")
	assert.Equal(t, []string{"ok"}, value.Names)
}

func TestMemoize_UndecodableEntry(t *testing.T) {
	c := openTestCache(t)

	_, _, err := cache.Memoize(c, "key", time.Hour, func() (*entry, error) { return &entry{Names: []string{"a"}}, nil })
	require.NoError(t, err)

	calls := 0
	fn := func() (*[]int, error) {
		calls++
		v := []int{1, 2}
		return &v, nil
	}

	value, hit, err := cache.Memoize(c, "key", time.Hour, fn)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []int{1, 2}, *value)

	value, hit, err = cache.Memoize(c, "key", time.Hour, fn)
	require.NoError(t, err)
	assert.True(t, hit, "undecodable entry must be overwritten")
	assert.Equal(t, []int{1, 2}, *value)
	assert.Equal(t, 1, calls)
}
