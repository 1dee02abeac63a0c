package main

// Coordinate identifies a single grid cell.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Distance returns the Manhattan distance between two cells.
// It is both the search heuristic and the step count of an unobstructed path.
func Distance(a, b Coordinate) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// neighborOffsets lists the cardinal moves in exploration order: left, right, up, down.
var neighborOffsets = [4]Coordinate{
	{X: -1, Y: 0},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: 0, Y: -1},
}

// Add returns the coordinate shifted by offset.
func (c Coordinate) Add(offset Coordinate) Coordinate {
	return Coordinate{X: c.X + offset.X, Y: c.Y + offset.Y}
}

// center returns the planar centre of the cell, used when testing coverage by polygons
func (c Coordinate) center() (float64, float64) {
	return float64(c.X) + 0.5, float64(c.Y) + 0.5
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
