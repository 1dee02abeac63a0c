package main

import (
	"fmt"
	"math"
)

// Grid stores the obstacle state of a rectangular area of cells.
// A cell is blocked when marked as such or when it lies outside the grid.
type Grid struct {
	width  int
	height int
	cells  []bool // row-major, true = blocked
}

// NewGrid allocates a width x height grid with every cell walkable.
func NewGrid(width, height int) (*Grid, error) {
	if err := checkDimensions(width, height, 0); err != nil {
		return nil, err
	}

	return &Grid{
		width:  width,
		height: height,
		cells:  make([]bool, width*height),
	}, nil
}

// checkDimensions rejects negative sizes and sizes whose cell count overflows
// an int or exceeds maxCells. A maxCells of zero or less means no cap.
func checkDimensions(width, height, maxCells int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: %dx%d", errInvalidDimensions, width, height)
	}
	if width != 0 && height > math.MaxInt/width {
		return fmt.Errorf("%w: %dx%d overflows", errGridTooLarge, width, height)
	}
	if maxCells > 0 && width*height > maxCells {
		return fmt.Errorf("%w: %dx%d exceeds %d cells", errGridTooLarge, width, height, maxCells)
	}
	return nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x, y) lies inside [0,width) x [0,height).
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// IsBlocked reports whether (x, y) is unwalkable. Cells outside the grid are
// always blocked, so callers never need to bounds-check first.
func (g *Grid) IsBlocked(x, y int) bool {
	if !g.InBounds(x, y) {
		return true
	}
	return g.cells[y*g.width+x]
}

// set stores the obstacle state of a cell and reports whether the cell was in bounds
func (g *Grid) set(x, y int, blocked bool) bool {
	if !g.InBounds(x, y) {
		return false
	}
	g.cells[y*g.width+x] = blocked
	return true
}

// Neighbors returns the walkable cardinal neighbours of c in the order
// left, right, up, down.
func (g *Grid) Neighbors(c Coordinate) []Coordinate {
	result := make([]Coordinate, 0, len(neighborOffsets))
	for _, offset := range neighborOffsets {
		next := c.Add(offset)
		if g.IsBlocked(next.X, next.Y) {
			continue
		}
		result = append(result, next)
	}
	return result
}

// BlockedCells lists every blocked cell in row-major order.
func (g *Grid) BlockedCells() []Coordinate {
	blocked := make([]Coordinate, 0)
	for i, cell := range g.cells {
		if cell {
			blocked = append(blocked, Coordinate{X: i % g.width, Y: i / g.width})
		}
	}
	return blocked
}
