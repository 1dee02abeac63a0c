package main

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPathFinder_RejectsNegativeDimensions(t *testing.T) {
	_, err := NewPathFinder(-1, 5)
	require.ErrorIs(t, err, errInvalidDimensions)
}

func TestPathFinder_OutOfBoundsAlwaysBlocked(t *testing.T) {
	finder, err := NewPathFinder(4, 4)
	require.NoError(t, err)

	outside := []Coordinate{{X: -1, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 4}, {X: 10, Y: -10}}
	for _, c := range outside {
		finder.SetBlocked(c.X, c.Y, false)
		finder.SetBlocked(c.X, c.Y, true)
		finder.SetBlocked(c.X, c.Y, false)
		assert.True(t, finder.IsBlocked(c.X, c.Y), "%v", c)
	}
	assert.Empty(t, finder.BlockedCells())
}

func TestPathFinder_OutOfBoundsWriteKeepsCache(t *testing.T) {
	finder, err := NewPathFinder(4, 4)
	require.NoError(t, err)

	finder.FindPath(Coordinate{X: 0, Y: 0}, Coordinate{X: 3, Y: 3})
	finder.SetBlocked(9, 9, true)

	stats := finder.CacheStats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, 0, stats.Clears)
}

func TestPathFinder_StraightLineScenario(t *testing.T) {
	finder, err := NewPathFinder(5, 5)
	require.NoError(t, err)

	path := finder.FindPath(Coordinate{X: 0, Y: 0}, Coordinate{X: 4, Y: 0})

	want := []Coordinate{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}, {X: 4, Y: 0}}
	if diff := cmp.Diff(want, path); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
}

func TestPathFinder_WallScenario(t *testing.T) {
	finder, err := NewPathFinder(3, 3)
	require.NoError(t, err)
	finder.SetBlocked(1, 0, true)
	finder.SetBlocked(1, 1, true)
	finder.SetBlocked(1, 2, true)

	path := finder.FindPath(Coordinate{X: 0, Y: 1}, Coordinate{X: 2, Y: 1})

	assert.NotNil(t, path)
	assert.Empty(t, path)
}

func TestPathFinder_MutationInvalidatesCache(t *testing.T) {
	finder, err := NewPathFinder(3, 3)
	require.NoError(t, err)

	start := Coordinate{X: 0, Y: 1}
	end := Coordinate{X: 2, Y: 1}

	before := finder.FindPath(start, end)
	require.Equal(t, []Coordinate{start, {X: 1, Y: 1}, end}, before)

	finder.SetBlocked(1, 1, true)
	assert.Equal(t, 0, finder.CacheStats().Entries)

	after := finder.FindPath(start, end)
	assert.Len(t, after, 5)
	assert.NotContains(t, after, Coordinate{X: 1, Y: 1})
	assertValidPath(t, finder, after, start, end)

	stats := finder.CacheStats()
	assert.Equal(t, 2, stats.Misses)
	assert.Equal(t, 0, stats.Hits)
}

func TestPathFinder_UnchangedValueStillInvalidates(t *testing.T) {
	finder, err := NewPathFinder(3, 3)
	require.NoError(t, err)

	finder.FindPath(Coordinate{X: 0, Y: 0}, Coordinate{X: 2, Y: 2})
	finder.SetBlocked(1, 1, false)

	assert.Equal(t, 0, finder.CacheStats().Entries)
}

func TestPathFinder_ReverseQueryReusesForwardPath(t *testing.T) {
	finder, err := NewPathFinder(3, 3)
	require.NoError(t, err)

	a := Coordinate{X: 0, Y: 0}
	b := Coordinate{X: 2, Y: 2}

	forward := finder.FindPath(a, b)
	backward := finder.FindPath(b, a)

	want := make([]Coordinate, len(forward))
	for i, c := range forward {
		want[len(forward)-1-i] = c
	}
	if diff := cmp.Diff(want, backward); diff != "" {
		t.Errorf("reverse path mismatch (-want +got):\n%s", diff)
	}

	stats := finder.CacheStats()
	assert.Equal(t, 1, stats.Misses, "search must run once")
	assert.Equal(t, 1, stats.ReverseHits)
	assert.Equal(t, 2, stats.Entries)
}

func TestPathFinder_ReturnsCopies(t *testing.T) {
	finder, err := NewPathFinder(4, 1)
	require.NoError(t, err)

	a := Coordinate{X: 0, Y: 0}
	b := Coordinate{X: 3, Y: 0}

	first := finder.FindPath(a, b)
	first[1] = Coordinate{X: 42, Y: 42}

	second := finder.FindPath(a, b)
	assert.Equal(t, Coordinate{X: 1, Y: 0}, second[1])
}

func TestPathFinder_StartEqualsEnd(t *testing.T) {
	finder, err := NewPathFinder(3, 3)
	require.NoError(t, err)

	c := Coordinate{X: 1, Y: 1}
	assert.Equal(t, []Coordinate{c}, finder.FindPath(c, c))
}

func TestPathFinder_Init(t *testing.T) {
	finder, err := NewPathFinder(3, 3)
	require.NoError(t, err)
	finder.SetBlocked(1, 1, true)
	finder.FindPath(Coordinate{X: 0, Y: 0}, Coordinate{X: 2, Y: 2})

	require.NoError(t, finder.Init(6, 2))

	width, height := finder.Size()
	assert.Equal(t, 6, width)
	assert.Equal(t, 2, height)
	assert.Empty(t, finder.BlockedCells())
	assert.Equal(t, 0, finder.CacheStats().Entries)
	assert.True(t, finder.IsBlocked(0, 2))
	assert.False(t, finder.IsBlocked(5, 1))
}

func TestPathFinder_InitRejectsNegativeKeepsGrid(t *testing.T) {
	finder, err := NewPathFinder(3, 3)
	require.NoError(t, err)
	finder.SetBlocked(2, 2, true)

	err = finder.Init(-1, 3)
	require.ErrorIs(t, err, errInvalidDimensions)

	width, height := finder.Size()
	assert.Equal(t, 3, width)
	assert.Equal(t, 3, height)
	assert.True(t, finder.IsBlocked(2, 2))
}

func TestPathFinder_InitRejectsOversizedKeepsGrid(t *testing.T) {
	finder, err := NewPathFinder(3, 3)
	require.NoError(t, err)
	finder.SetBlocked(2, 2, true)

	for _, dims := range [][2]int{{1 << 32, 1 << 32}, {DefaultMaxCells, 2}} {
		err = finder.Init(dims[0], dims[1])
		require.ErrorIs(t, err, errGridTooLarge)
		err = finder.Reset(dims[0], dims[1], nil)
		require.ErrorIs(t, err, errGridTooLarge)
	}

	width, height := finder.Size()
	assert.Equal(t, 3, width)
	assert.Equal(t, 3, height)
	assert.True(t, finder.IsBlocked(2, 2))
	assert.False(t, finder.IsBlocked(1, 1))
	assert.Len(t, finder.FindPath(Coordinate{X: 0, Y: 0}, Coordinate{X: 2, Y: 1}), 4)
}

func TestPathFinder_SetMaxCells(t *testing.T) {
	_, err := NewPathFinder(1<<32, 1<<32)
	require.ErrorIs(t, err, errGridTooLarge)

	finder, err := NewPathFinder(2, 2)
	require.NoError(t, err)

	finder.SetMaxCells(12)
	require.NoError(t, finder.Init(3, 4))
	require.ErrorIs(t, finder.Init(4, 4), errGridTooLarge)

	finder.SetMaxCells(0)
	require.NoError(t, finder.Init(4, 4))
	require.ErrorIs(t, finder.Init(1<<32, 1<<32), errGridTooLarge)

	width, height := finder.Size()
	assert.Equal(t, 4, width)
	assert.Equal(t, 4, height)
}

func TestPathFinder_SetBlockedCells(t *testing.T) {
	finder, err := NewPathFinder(3, 3)
	require.NoError(t, err)
	finder.FindPath(Coordinate{X: 0, Y: 0}, Coordinate{X: 2, Y: 2})

	applied := finder.SetBlockedCells([]Coordinate{{X: 0, Y: 1}, {X: 5, Y: 5}, {X: 1, Y: 1}}, true)

	assert.Equal(t, 2, applied)
	assert.Equal(t, []Coordinate{{X: 0, Y: 1}, {X: 1, Y: 1}}, finder.BlockedCells())
	assert.Equal(t, 0, finder.CacheStats().Entries)
	assert.Equal(t, 1, finder.CacheStats().Clears)

	assert.Equal(t, 0, finder.SetBlockedCells([]Coordinate{{X: -1, Y: 0}}, true))
	assert.Equal(t, 1, finder.CacheStats().Clears)
}

func TestPathFinder_Reset(t *testing.T) {
	finder, err := NewPathFinder(2, 2)
	require.NoError(t, err)
	finder.FindPath(Coordinate{X: 0, Y: 0}, Coordinate{X: 1, Y: 1})

	require.NoError(t, finder.Reset(4, 4, []Coordinate{{X: 3, Y: 3}, {X: 8, Y: 8}}))

	assert.Equal(t, []Coordinate{{X: 3, Y: 3}}, finder.BlockedCells())
	assert.Equal(t, 0, finder.CacheStats().Entries)
	require.ErrorIs(t, finder.Reset(-1, 0, nil), errInvalidDimensions)
}

func TestPathFinder_Neighbors(t *testing.T) {
	finder, err := NewPathFinder(3, 3)
	require.NoError(t, err)
	finder.SetBlocked(2, 1, true)

	got := finder.Neighbors(Coordinate{X: 1, Y: 1})

	want := []Coordinate{{X: 0, Y: 1}, {X: 1, Y: 2}, {X: 1, Y: 0}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Neighbors mismatch (-want +got):\n%s", diff)
	}
}

func TestPathFinder_ConcurrentQueriesAndWrites(t *testing.T) {
	finder, err := NewPathFinder(16, 16)
	require.NoError(t, err)

	start := Coordinate{X: 0, Y: 0}
	end := Coordinate{X: 15, Y: 15}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				finder.SetBlocked(7, (i+j)%15+1, j%2 == 0)
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				path := finder.FindPath(start, end)
				if len(path) == 0 {
					continue
				}
				if path[0] != start || path[len(path)-1] != end {
					t.Errorf("path endpoints %v..%v", path[0], path[len(path)-1])
					return
				}
				for k := 1; k < len(path); k++ {
					if Distance(path[k-1], path[k]) != 1 {
						t.Errorf("non-unit step %v -> %v", path[k-1], path[k])
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}
