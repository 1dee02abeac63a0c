package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKey_Direction(t *testing.T) {
	a := Coordinate{X: 1, Y: 2}
	b := Coordinate{X: 3, Y: 4}

	assert.Equal(t, cacheKey(a, b), cacheKey(a, b))
	assert.NotEqual(t, cacheKey(a, b), cacheKey(b, a))
	assert.Equal(t, cacheKey(a, a), cacheKey(a, a))
}

func TestPathCache_GetOrBuild(t *testing.T) {
	cache := NewPathCache()
	a := Coordinate{X: 0, Y: 0}
	b := Coordinate{X: 2, Y: 0}
	stored := []Coordinate{a, {X: 1, Y: 0}, b}

	builds := 0
	build := func(from, to Coordinate) []Coordinate {
		builds++
		require.Equal(t, a, from)
		require.Equal(t, b, to)
		return stored
	}

	first := cache.GetOrBuild(a, b, build)
	second := cache.GetOrBuild(a, b, build)

	assert.Equal(t, 1, builds)
	assert.Equal(t, stored, first)
	assert.Equal(t, stored, second)
	assert.Equal(t, CacheStats{Entries: 1, Hits: 1, Misses: 1}, cache.Stats())
}

func TestPathCache_ReverseLookup(t *testing.T) {
	cache := NewPathCache()
	a := Coordinate{X: 0, Y: 0}
	b := Coordinate{X: 1, Y: 1}
	forward := cache.GetOrBuild(a, b, func(from, to Coordinate) []Coordinate {
		return []Coordinate{from, {X: 1, Y: 0}, to}
	})

	reverse := cache.GetOrBuild(b, a, func(from, to Coordinate) []Coordinate {
		t.Fatal("reverse lookup must not build")
		return nil
	})

	want := []Coordinate{b, {X: 1, Y: 0}, a}
	if diff := cmp.Diff(want, reverse); diff != "" {
		t.Errorf("reverse path mismatch (-want +got):\n%s", diff)
	}

	// Both directions are now independent entries
	reverse[1] = Coordinate{X: 9, Y: 9}
	assert.Equal(t, Coordinate{X: 1, Y: 0}, forward[1])

	stats := cache.Stats()
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, 1, stats.ReverseHits)
	assert.Equal(t, 1, stats.Misses)

	again := cache.GetOrBuild(b, a, nil)
	assert.Equal(t, reverse, again)
	assert.Equal(t, 1, cache.Stats().Hits)
}

func TestPathCache_CachesUnreachable(t *testing.T) {
	cache := NewPathCache()
	a := Coordinate{X: 0, Y: 0}
	b := Coordinate{X: 5, Y: 5}

	builds := 0
	build := func(from, to Coordinate) []Coordinate {
		builds++
		return []Coordinate{}
	}

	assert.Empty(t, cache.GetOrBuild(a, b, build))
	assert.Empty(t, cache.GetOrBuild(a, b, build))
	assert.Empty(t, cache.GetOrBuild(b, a, build))
	assert.Equal(t, 1, builds)
}

func TestPathCache_Clear(t *testing.T) {
	cache := NewPathCache()
	build := func(from, to Coordinate) []Coordinate { return []Coordinate{from, to} }

	cache.GetOrBuild(Coordinate{X: 0, Y: 0}, Coordinate{X: 0, Y: 1}, build)
	cache.GetOrBuild(Coordinate{X: 1, Y: 0}, Coordinate{X: 1, Y: 1}, build)
	require.Equal(t, 2, cache.Len())

	cache.Clear()

	assert.Equal(t, 0, cache.Len())
	assert.Equal(t, 1, cache.Stats().Clears)

	builds := 0
	cache.GetOrBuild(Coordinate{X: 0, Y: 0}, Coordinate{X: 0, Y: 1}, func(from, to Coordinate) []Coordinate {
		builds++
		return []Coordinate{from, to}
	})
	assert.Equal(t, 1, builds)
}
