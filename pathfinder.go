package main

import (
	"slices"
	"sync"
)

// PathFinder owns a Grid and the PathCache built on top of it.
// All methods are safe for concurrent use; a single mutex keeps cache
// invalidation atomic with respect to path queries.
type PathFinder struct {
	mu       sync.Mutex
	grid     *Grid
	cache    *PathCache
	maxCells int
}

// DefaultMaxCells caps the grids a PathFinder accepts unless SetMaxCells says otherwise.
const DefaultMaxCells = 1 << 24

// NewPathFinder creates a finder over an empty width x height grid.
func NewPathFinder(width, height int) (*PathFinder, error) {
	if err := checkDimensions(width, height, DefaultMaxCells); err != nil {
		return nil, err
	}
	grid, err := NewGrid(width, height)
	if err != nil {
		return nil, err
	}
	return &PathFinder{grid: grid, cache: NewPathCache(), maxCells: DefaultMaxCells}, nil
}

// SetMaxCells changes the largest cell count Init and Reset accept.
// Zero or less lifts the cap; sizes that overflow are still rejected.
func (p *PathFinder) SetMaxCells(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.maxCells = n
}

// newGrid allocates a grid after checking it against the cell cap
func (p *PathFinder) newGrid(width, height int) (*Grid, error) {
	p.mu.Lock()
	maxCells := p.maxCells
	p.mu.Unlock()

	if err := checkDimensions(width, height, maxCells); err != nil {
		return nil, err
	}
	return NewGrid(width, height)
}

// Init replaces the grid with an empty width x height one and clears the cache.
// The current grid is kept when the dimensions are invalid or too large.
func (p *PathFinder) Init(width, height int) error {
	grid, err := p.newGrid(width, height)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.grid = grid
	p.cache.Clear()
	return nil
}

// Reset replaces the grid with a width x height one whose given cells are
// blocked, in one step as seen by concurrent queries.
func (p *PathFinder) Reset(width, height int, blocked []Coordinate) error {
	grid, err := p.newGrid(width, height)
	if err != nil {
		return err
	}
	for _, c := range blocked {
		grid.set(c.X, c.Y, true)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.grid = grid
	p.cache.Clear()
	return nil
}

// SetBlocked marks a cell blocked or walkable. Out-of-bounds cells are ignored;
// any in-bounds write clears all cached paths.
func (p *PathFinder) SetBlocked(x, y int, blocked bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.grid.set(x, y, blocked) {
		p.cache.Clear()
	}
}

// SetBlockedCells applies the same state to many cells with one cache
// invalidation. It returns how many cells were inside the grid.
func (p *PathFinder) SetBlockedCells(cells []Coordinate, blocked bool) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	applied := 0
	for _, c := range cells {
		if p.grid.set(c.X, c.Y, blocked) {
			applied++
		}
	}
	if applied > 0 {
		p.cache.Clear()
	}
	return applied
}

// IsBlocked reports whether (x, y) is unwalkable; true outside the grid.
func (p *PathFinder) IsBlocked(x, y int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.grid.IsBlocked(x, y)
}

// InBounds reports whether (x, y) lies inside the grid.
func (p *PathFinder) InBounds(x, y int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.grid.InBounds(x, y)
}

// Size returns the grid width and height.
func (p *PathFinder) Size() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.grid.Width(), p.grid.Height()
}

// BlockedCells lists the blocked cells in row-major order.
func (p *PathFinder) BlockedCells() []Coordinate {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.grid.BlockedCells()
}

// FindPath returns the cells from start to end inclusive using 4-directional
// moves. The result is empty when end is unreachable and holds only start when
// start == end. The returned slice is a copy the caller may modify.
func (p *PathFinder) FindPath(start, end Coordinate) []Coordinate {
	p.mu.Lock()
	defer p.mu.Unlock()

	path := p.cache.GetOrBuild(start, end, func(from, to Coordinate) []Coordinate {
		return searchGrid(p.grid, from, to)
	})
	return slices.Clone(path)
}

// Neighbors returns the walkable cardinal neighbours of c (left, right, up, down).
func (p *PathFinder) Neighbors(c Coordinate) []Coordinate {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.grid.Neighbors(c)
}

// CacheStats returns the path cache counters.
func (p *PathFinder) CacheStats() CacheStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cache.Stats()
}
