package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/natefinch/atomic"
)

// GridSnapshot is the on-disk form of a grid
type GridSnapshot struct {
	Width   int          `json:"width"`
	Height  int          `json:"height"`
	Blocked []Coordinate `json:"blocked"`
}

// TakeSnapshot captures the current grid of a finder.
func TakeSnapshot(finder *PathFinder) GridSnapshot {
	width, height := finder.Size()
	return GridSnapshot{
		Width:   width,
		Height:  height,
		Blocked: finder.BlockedCells(),
	}
}

// Apply re-initialises the finder with the snapshot's size and blocked cells.
func (s GridSnapshot) Apply(finder *PathFinder) error {
	if err := finder.Reset(s.Width, s.Height, s.Blocked); err != nil {
		return fmt.Errorf("%w: %w", errSnapshotInvalid, err)
	}
	return nil
}

// SaveGridSnapshot serializes the grid and replaces filename atomically
func SaveGridSnapshot(finder *PathFinder, filename string) error {
	log.Printf("💾 Saving grid snapshot to %s...\n", filename)

	data, err := json.MarshalIndent(TakeSnapshot(finder), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	err = atomic.WriteFile(filename, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	log.Printf("   ✅ Snapshot saved (%d bytes)\n", len(data))
	return nil
}

// LoadGridSnapshot deserializes a grid snapshot from a JSON file
func LoadGridSnapshot(filename string) (GridSnapshot, error) {
	log.Printf("📂 Loading grid snapshot from %s...\n", filename)

	data, err := os.ReadFile(filename)
	if err != nil {
		return GridSnapshot{}, fmt.Errorf("failed to read file: %w", err)
	}

	var snapshot GridSnapshot
	err = json.Unmarshal(data, &snapshot)
	if err != nil {
		return GridSnapshot{}, fmt.Errorf("%w %s: %w", errSnapshotInvalid, filename, err)
	}
	if snapshot.Width < 0 || snapshot.Height < 0 {
		return GridSnapshot{}, fmt.Errorf("%w %s: %w", errSnapshotInvalid, filename, errInvalidDimensions)
	}

	log.Printf("   ✅ Snapshot loaded: %dx%d, %d blocked cells\n",
		snapshot.Width, snapshot.Height, len(snapshot.Blocked))
	return snapshot, nil
}
