package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Obstacle is an impassable region expressed in grid units.
// Cell (x, y) covers the square [x, x+1) x [y, y+1).
type Obstacle struct {
	Name    string      `json:"name,omitempty"`
	Polygon orb.Polygon `json:"polygon"`
}

// loadObstaclesFromDir loads every GeoJSON file from dir
func loadObstaclesFromDir(dir string) ([]Obstacle, error) {
	var allObstacles []Obstacle

	files, err := filepath.Glob(filepath.Join(dir, "*.geojson"))
	if err != nil {
		return nil, err
	}

	log.Printf("Loading obstacles from %d GeoJSON files...\n", len(files))

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			log.Printf("⚠️  Failed to read %s: %v\n", file, err)
			continue
		}

		obstacles, err := parseObstacles(data)
		if err != nil {
			log.Printf("⚠️  Failed to parse %s: %v\n", file, err)
			continue
		}

		allObstacles = append(allObstacles, obstacles...)
		log.Printf("   ✅ Loaded %d obstacles from %s\n", len(obstacles), filepath.Base(file))
	}

	log.Printf("Total obstacles loaded: %d polygons\n", len(allObstacles))
	return allObstacles, nil
}

// parseObstacles converts a GeoJSON FeatureCollection into obstacles.
// Features that are neither Polygon nor MultiPolygon are ignored.
func parseObstacles(data []byte) ([]Obstacle, error) {
	collection, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errObstaclesInvalid, err)
	}

	var obstacles []Obstacle
	for i, feature := range collection.Features {
		name := feature.Properties.MustString("name", fmt.Sprintf("feature-%d", i))

		switch geometry := feature.Geometry.(type) {
		case orb.Polygon:
			if len(geometry) > 0 {
				obstacles = append(obstacles, Obstacle{Name: name, Polygon: geometry})
			}

		case orb.MultiPolygon:
			for j, polygon := range geometry {
				if len(polygon) > 0 {
					obstacles = append(obstacles, Obstacle{
						Name:    fmt.Sprintf("%s/%d", name, j),
						Polygon: polygon,
					})
				}
			}
		}
	}

	return obstacles, nil
}

// rasterizeObstacles returns the in-bounds cells whose centre lies inside an obstacle
func rasterizeObstacles(index *ObstacleIndex, width, height int) []Coordinate {
	var cells []Coordinate
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			cell := Coordinate{X: x, Y: y}
			if index.Covers(cell) {
				cells = append(cells, cell)
			}
		}
	}
	return cells
}
