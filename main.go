package main

import (
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"

	"github.com/spf13/pflag"
)

// loadInitialGrid restores the snapshot if one exists, otherwise stamps the
// configured obstacle sources onto the empty grid
func (s *server) loadInitialGrid() {
	log.Println("Checking for existing grid snapshot...")

	if s.restoreSnapshot() {
		return
	}

	if s.cfg.ObstacleDir != "" {
		obstacles, err := loadObstaclesFromDir(s.cfg.ObstacleDir)
		if err != nil {
			log.Printf("⚠️  Failed to load obstacles: %v\n", err)
		} else {
			s.applyObstacles(obstacles, true)
		}
	}

	if s.cfg.BitmapFile != "" {
		width, height := s.finder.Size()
		cells, err := LoadBitmapFile(s.cfg.BitmapFile, width, height, uint8(s.cfg.BitmapThreshold))
		if err != nil {
			log.Printf("⚠️  Failed to load bitmap: %v\n", err)
		} else {
			s.finder.SetBlockedCells(cells, true)
		}
	}
}

// restoreSnapshot applies the configured snapshot file and reports whether it did
func (s *server) restoreSnapshot() bool {
	if s.cfg.SnapshotFile == "" {
		return false
	}
	if _, err := os.Stat(s.cfg.SnapshotFile); errors.Is(err, fs.ErrNotExist) {
		log.Println("ℹ️  No existing snapshot found (this is normal on first run)")
		return false
	}

	snapshot, err := LoadGridSnapshot(s.cfg.SnapshotFile)
	if err == nil {
		err = snapshot.Apply(s.finder)
	}
	if err != nil {
		log.Printf("⚠️  Failed to restore snapshot %s: %v\n", s.cfg.SnapshotFile, err)
		return false
	}

	log.Printf("✅ Restored grid from snapshot\n")
	log.Printf("   Size: %dx%d\n", snapshot.Width, snapshot.Height)
	return true
}

func main() {
	log.Println("========================================")
	log.Println("🚀 Grid Path Planner Server")
	log.Println("========================================")

	cfg, err := ParseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatal(err)
	}

	if formatted, err := FormatConfig(cfg); err == nil {
		log.Printf("Configuration:\n%s\n", formatted)
	}

	srv, err := newServer(cfg)
	if err != nil {
		log.Fatal(err)
	}
	srv.loadInitialGrid()
	log.Println("")

	log.Printf("Server starting on %s\n", cfg.Listen)
	log.Println("")
	log.Println("Endpoints:")
	log.Println("  POST /init               - Resize the grid and clear cached paths")
	log.Println("  POST /setBlocked         - Block or unblock one cell")
	log.Println("  GET  /isBlocked          - Query one cell")
	log.Println("  POST /route              - Compute a path between two cells")
	log.Println("  GET  /neighbors          - Walkable neighbours of a cell")
	log.Println("  POST /distance           - Manhattan distance between two cells")
	log.Println("  POST /loadObstacles      - Rasterise GeoJSON obstacles onto the grid")
	log.Println("  POST /loadBitmap         - Stamp an obstacle bitmap onto the grid")
	log.Println("  POST /saveGrid           - Save a grid snapshot")
	log.Println("  GET  /health             - Check server status")
	log.Println("")
	log.Println("CORS enabled for all origins")
	log.Println("========================================")
	log.Println("")

	if err := http.ListenAndServe(cfg.Listen, srv.routes()); err != nil {
		log.Fatal(err)
	}
}
