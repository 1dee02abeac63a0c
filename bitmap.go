package main

import (
	"fmt"
	"image"
	"log"

	"github.com/disintegration/imaging"
)

// DefaultBitmapThreshold is the grey level below which a pixel counts as an obstacle.
const DefaultBitmapThreshold = 128

// LoadBitmapFile decodes an image file and returns the cells it marks as blocked
// on a width x height grid.
func LoadBitmapFile(path string, width, height int, threshold uint8) ([]Coordinate, error) {
	log.Printf("🖼️  Loading obstacle bitmap from %s...\n", path)

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", errBitmapInvalid, path, err)
	}

	cells := blockedCellsFromImage(img, width, height, threshold)
	log.Printf("   ✅ Bitmap marks %d blocked cells\n", len(cells))
	return cells, nil
}

// blockedCellsFromImage maps pixel (x, y) onto cell (x, y) after scaling the
// image to the grid size. Dark, non-transparent pixels are blocked.
func blockedCellsFromImage(img image.Image, width, height int, threshold uint8) []Coordinate {
	cells := make([]Coordinate, 0)
	if width == 0 || height == 0 {
		return cells
	}

	gray := imaging.Grayscale(img)
	if gray.Bounds().Dx() != width || gray.Bounds().Dy() != height {
		gray = imaging.Resize(gray, width, height, imaging.NearestNeighbor)
	}

	bounds := gray.Bounds()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixel := gray.NRGBAAt(bounds.Min.X+x, bounds.Min.Y+y)
			if pixel.A > 0 && pixel.R < threshold {
				cells = append(cells, Coordinate{X: x, Y: y})
			}
		}
	}
	return cells
}
