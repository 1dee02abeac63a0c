package main

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"sync"
)

type RouteRequest struct {
	Start Coordinate `json:"start"`
	End   Coordinate `json:"end"`
}

type RouteResponse struct {
	Path            []Coordinate `json:"path"`
	Success         bool         `json:"success"`
	Message         string       `json:"message,omitempty"`
	Steps           int          `json:"steps"`
	NearbyObstacles []string     `json:"nearbyObstacles,omitempty"`
}

// server exposes a PathFinder over HTTP
type server struct {
	cfg    Config
	finder *PathFinder

	obstaclesMu sync.RWMutex
	obstacles   *ObstacleIndex
}

func newServer(cfg Config) (*server, error) {
	finder, err := NewPathFinder(0, 0)
	if err != nil {
		return nil, err
	}
	finder.SetMaxCells(cfg.MaxCells)
	if err := finder.Init(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}
	return &server{cfg: cfg, finder: finder}, nil
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/init", corsMiddleware(s.initHandler))
	mux.HandleFunc("/setBlocked", corsMiddleware(s.setBlockedHandler))
	mux.HandleFunc("/isBlocked", corsMiddleware(s.isBlockedHandler))
	mux.HandleFunc("/route", corsMiddleware(s.routeHandler))
	mux.HandleFunc("/neighbors", corsMiddleware(s.neighborsHandler))
	mux.HandleFunc("/distance", corsMiddleware(s.distanceHandler))
	mux.HandleFunc("/loadObstacles", corsMiddleware(s.loadObstaclesHandler))
	mux.HandleFunc("/loadBitmap", corsMiddleware(s.loadBitmapHandler))
	mux.HandleFunc("/saveGrid", corsMiddleware(s.saveGridHandler))
	mux.HandleFunc("/health", corsMiddleware(s.healthHandler))
	return mux
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("⚠️  Failed to encode response: %v\n", err)
	}
}

// requireMethod rejects requests not using method and reports whether to continue
func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		log.Printf("❌ Method not allowed: %s\n", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Printf("❌ Invalid request body: %v\n", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// coordinateFromQuery reads the x and y query parameters
func coordinateFromQuery(r *http.Request) (Coordinate, error) {
	x, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		return Coordinate{}, errors.New("x must be an integer")
	}
	y, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		return Coordinate{}, errors.New("y must be an integer")
	}
	return Coordinate{X: x, Y: y}, nil
}

// POST /init - Resize the grid and drop all cached paths
func (s *server) initHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("========================================")
	log.Println("🧱 Init grid request received")

	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	// The obstacle index describes the old grid, so it goes with it
	s.obstaclesMu.Lock()
	err := s.finder.Init(req.Width, req.Height)
	if err == nil {
		s.obstacles = nil
	}
	s.obstaclesMu.Unlock()

	if err != nil {
		log.Printf("❌ %v\n", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	log.Printf("✅ Grid initialised: %dx%d\n", req.Width, req.Height)
	log.Println("========================================")

	writeJSON(w, map[string]interface{}{
		"success": true,
		"width":   req.Width,
		"height":  req.Height,
	})
}

// POST /setBlocked - Change one cell
func (s *server) setBlockedHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		X       int  `json:"x"`
		Y       int  `json:"y"`
		Blocked bool `json:"blocked"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	inBounds := s.finder.InBounds(req.X, req.Y)
	s.finder.SetBlocked(req.X, req.Y, req.Blocked)
	if inBounds {
		log.Printf("🧱 Cell (%d, %d) blocked=%t, path cache cleared\n", req.X, req.Y, req.Blocked)
	} else {
		log.Printf("ℹ️  Cell (%d, %d) is outside the grid, ignored\n", req.X, req.Y)
	}

	writeJSON(w, map[string]interface{}{
		"success":  true,
		"inBounds": inBounds,
	})
}

// GET /isBlocked?x=&y= - Query one cell
func (s *server) isBlockedHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	c, err := coordinateFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, map[string]interface{}{
		"x":        c.X,
		"y":        c.Y,
		"blocked":  s.finder.IsBlocked(c.X, c.Y),
		"inBounds": s.finder.InBounds(c.X, c.Y),
	})
}

// POST /route - Compute a path between two cells
func (s *server) routeHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("========================================")
	log.Println("📍 Route request received")

	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req RouteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	log.Printf("   Start: (%d, %d)\n", req.Start.X, req.Start.Y)
	log.Printf("   End:   (%d, %d)\n", req.End.X, req.End.Y)

	path := s.finder.FindPath(req.Start, req.End)

	response := RouteResponse{
		Path:    path,
		Success: len(path) > 0,
	}

	if !response.Success {
		log.Println("❌ No path found")
		response.Message = "No path found between start and end"
	} else {
		response.Steps = len(path) - 1
		response.NearbyObstacles = s.nearbyObstacles(path)
		log.Printf("✅ Path found with %d cells (%d steps)\n", len(path), response.Steps)
		if len(response.NearbyObstacles) > 0 {
			log.Printf("   Passes near %d obstacles\n", len(response.NearbyObstacles))
		}
	}

	writeJSON(w, response)
	log.Println("========================================")
}

// nearbyObstacles names the indexed obstacles within one cell of the path's bounding box
func (s *server) nearbyObstacles(path []Coordinate) []string {
	s.obstaclesMu.RLock()
	index := s.obstacles
	s.obstaclesMu.RUnlock()

	if index == nil {
		return nil
	}

	names := make([]string, 0)
	for _, obstacle := range index.QueryRegion(GetRouteBoundingBox(path, 1)) {
		names = append(names, obstacle.Name)
	}
	return names
}

// GET /neighbors?x=&y= - Walkable cardinal neighbours of a cell
func (s *server) neighborsHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	c, err := coordinateFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, map[string]interface{}{
		"cell":      c,
		"neighbors": s.finder.Neighbors(c),
	})
}

// POST /distance - Manhattan distance between two cells
func (s *server) distanceHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		A Coordinate `json:"a"`
		B Coordinate `json:"b"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	writeJSON(w, map[string]interface{}{
		"distance": Distance(req.A, req.B),
	})
}

// POST /loadObstacles - Rasterise GeoJSON obstacles onto the grid
func (s *server) loadObstaclesHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("========================================")
	log.Println("🗺️  Load obstacles request received")

	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Dir     string          `json:"dir,omitempty"`
		GeoJSON json.RawMessage `json:"geojson,omitempty"`
		Blocked *bool           `json:"blocked,omitempty"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	var obstacles []Obstacle
	var err error
	switch {
	case len(req.GeoJSON) > 0:
		obstacles, err = parseObstacles(req.GeoJSON)
	case req.Dir != "":
		obstacles, err = loadObstaclesFromDir(req.Dir)
	case s.cfg.ObstacleDir != "":
		obstacles, err = loadObstaclesFromDir(s.cfg.ObstacleDir)
	default:
		err = errors.New("either geojson or dir is required")
	}
	if err != nil {
		log.Printf("❌ %v\n", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		log.Println("========================================")
		return
	}

	blocked := true
	if req.Blocked != nil {
		blocked = *req.Blocked
	}

	indexed, cells := s.applyObstacles(obstacles, blocked)

	log.Println("========================================")

	writeJSON(w, map[string]interface{}{
		"success":   true,
		"obstacles": indexed,
		"cells":     cells,
	})
}

// applyObstacles indexes the obstacles and stamps the cells they cover.
// It returns the number of indexed obstacles and of cells changed.
func (s *server) applyObstacles(obstacles []Obstacle, blocked bool) (int, int) {
	obstacles = SimplifyObstacles(obstacles, s.cfg.SimplifyTolerance)
	obstacles = MergeOverlappingObstacles(obstacles)
	index := NewObstacleIndex(obstacles)

	// Held across the grid write so a concurrent /init cannot interleave
	s.obstaclesMu.Lock()
	width, height := s.finder.Size()
	cells := s.finder.SetBlockedCells(rasterizeObstacles(index, width, height), blocked)
	s.obstacles = index
	s.obstaclesMu.Unlock()

	log.Printf("   ✅ %d obstacles cover %d cells (blocked=%t)\n", index.Size(), cells, blocked)
	return index.Size(), cells
}

// POST /loadBitmap - Stamp dark pixels of an image onto the grid
func (s *server) loadBitmapHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("========================================")
	log.Println("🖼️  Load bitmap request received")

	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		File      string `json:"file"`
		Threshold *int   `json:"threshold,omitempty"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	threshold := s.cfg.BitmapThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	if threshold < 0 || threshold > 255 {
		http.Error(w, errThresholdRange.Error(), http.StatusBadRequest)
		return
	}

	width, height := s.finder.Size()
	cells, err := LoadBitmapFile(req.File, width, height, uint8(threshold))
	if err != nil {
		log.Printf("❌ %v\n", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		log.Println("========================================")
		return
	}

	applied := s.finder.SetBlockedCells(cells, true)
	log.Println("========================================")

	writeJSON(w, map[string]interface{}{
		"success": true,
		"cells":   applied,
	})
}

// POST /saveGrid - Write a snapshot of the grid
func (s *server) saveGridHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		File string `json:"file,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Printf("❌ Invalid request body: %v\n", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	file := req.File
	if file == "" {
		file = s.cfg.SnapshotFile
	}
	if file == "" {
		http.Error(w, "no snapshot file configured", http.StatusBadRequest)
		return
	}

	if err := SaveGridSnapshot(s.finder, file); err != nil {
		log.Printf("⚠️  Failed to save snapshot: %v\n", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{
		"success": true,
		"file":    file,
	})
}

// GET /health - Health check endpoint
func (s *server) healthHandler(w http.ResponseWriter, r *http.Request) {
	width, height := s.finder.Size()

	s.obstaclesMu.RLock()
	numObstacles := 0
	if s.obstacles != nil {
		numObstacles = s.obstacles.Size()
	}
	s.obstaclesMu.RUnlock()

	writeJSON(w, map[string]interface{}{
		"status":       "ready",
		"width":        width,
		"height":       height,
		"blockedCells": len(s.finder.BlockedCells()),
		"numObstacles": numObstacles,
		"cache":        s.finder.CacheStats(),
	})
}
