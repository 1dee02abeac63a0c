package main

import (
	"log"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// MergeOverlappingObstacles drops obstacles fully contained in another one.
// The covered cell set is unchanged; the index just gets smaller.
func MergeOverlappingObstacles(obstacles []Obstacle) []Obstacle {
	if len(obstacles) <= 1 {
		return obstacles
	}

	filtered := removeContainedObstacles(obstacles)

	log.Printf("   Obstacles after removing contained: %d (removed %d)\n",
		len(filtered), len(obstacles)-len(filtered))

	return filtered
}

// removeContainedObstacles removes obstacles that are fully contained within other obstacles
func removeContainedObstacles(obstacles []Obstacle) []Obstacle {
	result := make([]Obstacle, 0, len(obstacles))
	contained := make([]bool, len(obstacles))

	for i := 0; i < len(obstacles); i++ {
		if contained[i] {
			continue
		}

		for j := 0; j < len(obstacles); j++ {
			if i == j || contained[j] {
				continue
			}

			if isPolygonContainedIn(obstacles[i].Polygon, obstacles[j].Polygon) {
				contained[i] = true
				break
			}

			if isPolygonContainedIn(obstacles[j].Polygon, obstacles[i].Polygon) {
				contained[j] = true
			}
		}
	}

	for i := 0; i < len(obstacles); i++ {
		if !contained[i] {
			result = append(result, obstacles[i])
		}
	}

	return result
}

// isPolygonContainedIn checks if polygon a lies within polygon b.
// Only b's outer ring is considered when b has holes.
func isPolygonContainedIn(a, b orb.Polygon) bool {
	if len(a) == 0 || len(b) == 0 || len(a[0]) == 0 {
		return false
	}

	if !isBoundContained(a.Bound(), b.Bound()) {
		return false
	}

	for _, vertex := range a[0] {
		if !planar.RingContains(b[0], vertex) {
			return false
		}
	}

	return true
}

// isBoundContained checks if bound a is contained in bound b
func isBoundContained(a, b orb.Bound) bool {
	return b.Contains(a.Min) && b.Contains(a.Max)
}
