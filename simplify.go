package main

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

// SimplifyObstacles reduces polygon complexity using Douglas-Peucker.
// A non-positive tolerance returns the input unchanged.
func SimplifyObstacles(obstacles []Obstacle, tolerance float64) []Obstacle {
	if tolerance <= 0 {
		return obstacles
	}

	simplifier := simplify.DouglasPeucker(tolerance)
	simplified := make([]Obstacle, 0, len(obstacles))
	for _, obstacle := range obstacles {
		polygon, ok := simplifier.Simplify(obstacle.Polygon.Clone()).(orb.Polygon)
		if !ok || len(polygon) == 0 || len(polygon[0]) < 4 {
			// collapsed below a ring, keep the original shape
			simplified = append(simplified, obstacle)
			continue
		}
		simplified = append(simplified, Obstacle{Name: obstacle.Name, Polygon: polygon})
	}
	return simplified
}
