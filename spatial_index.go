package main

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// ObstacleEntry wraps an obstacle for R-tree storage
type ObstacleEntry struct {
	Obstacle Obstacle
	BBox     rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *ObstacleEntry) Bounds() rtreego.Rect {
	return e.BBox
}

// ObstacleIndex manages obstacle spatial queries
type ObstacleIndex struct {
	tree *rtreego.Rtree
}

// NewObstacleIndex creates a new spatial index.
// Obstacles with a degenerate bounding box cover no cell centre and are skipped.
func NewObstacleIndex(obstacles []Obstacle) *ObstacleIndex {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node

	for _, obstacle := range obstacles {
		bbox, err := calculateBoundingBox(obstacle.Polygon)
		if err == nil {
			entry := &ObstacleEntry{
				Obstacle: obstacle,
				BBox:     bbox,
			}
			tree.Insert(entry)
		}
	}

	return &ObstacleIndex{tree: tree}
}

// Size returns the number of indexed obstacles.
func (idx *ObstacleIndex) Size() int {
	return idx.tree.Size()
}

// QueryRegion returns obstacles whose bounding box intersects the given region
func (idx *ObstacleIndex) QueryRegion(minX, minY, maxX, maxY float64) []Obstacle {
	bbox, err := rtreego.NewRect(
		rtreego.Point{minX, minY},
		[]float64{maxX - minX, maxY - minY},
	)
	if err != nil {
		return []Obstacle{}
	}

	results := idx.tree.SearchIntersect(bbox)
	obstacles := make([]Obstacle, 0, len(results))

	for _, item := range results {
		entry := item.(*ObstacleEntry)
		obstacles = append(obstacles, entry.Obstacle)
	}

	return obstacles
}

// Covers reports whether the centre of cell c lies inside any obstacle.
func (idx *ObstacleIndex) Covers(c Coordinate) bool {
	x, y := c.center()
	point := orb.Point{x, y}

	for _, item := range idx.tree.SearchIntersect(rtreego.Point{x, y}.ToRect(0.01)) {
		entry := item.(*ObstacleEntry)
		if planar.PolygonContains(entry.Obstacle.Polygon, point) {
			return true
		}
	}
	return false
}

// calculateBoundingBox converts the planar bound of a polygon into an R-tree rectangle
func calculateBoundingBox(polygon orb.Polygon) (rtreego.Rect, error) {
	bound := polygon.Bound()
	return rtreego.NewRect(
		rtreego.Point{bound.Min.X(), bound.Min.Y()},
		[]float64{bound.Max.X() - bound.Min.X(), bound.Max.Y() - bound.Min.Y()},
	)
}

// GetRouteBoundingBox calculates the bounding box spanned by a path with margin
func GetRouteBoundingBox(path []Coordinate, margin float64) (minX, minY, maxX, maxY float64) {
	if len(path) == 0 {
		return 0, 0, 0, 0
	}

	minX, minY = float64(path[0].X), float64(path[0].Y)
	maxX, maxY = minX+1, minY+1
	for _, c := range path[1:] {
		minX = min(minX, float64(c.X))
		minY = min(minY, float64(c.Y))
		maxX = max(maxX, float64(c.X+1))
		maxY = max(maxY, float64(c.Y+1))
	}
	return minX - margin, minY - margin, maxX + margin, maxY + margin
}
