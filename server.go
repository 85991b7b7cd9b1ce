package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) toOrb() orb.Point { return orb.Point{p.X, p.Y} }

func fromOrb(p orb.Point) Point { return Point{X: p[0], Y: p[1]} }

type BuildRequest struct {
	Bounds     *struct{ Min, Max Point }  `json:"bounds,omitempty"`
	MinSize    float64                    `json:"minSize,omitempty"`
	Seed       *int64                     `json:"seed,omitempty"`
	NoFlyZones *geojson.FeatureCollection `json:"noFlyZones,omitempty"`
}

type RouteRequest struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

type RouteResponse struct {
	Path    []Point          `json:"path"`
	Nodes   []NodeID         `json:"nodes"`
	Cost    float64          `json:"cost"`
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
	Route   *geojson.Feature `json:"route,omitempty"` // Route line, thinned by the render tolerance
}

type TransformRequest struct {
	Offset Point   `json:"offset"`
	Scale  float64 `json:"scale,omitempty"`
}

// server hosts one planner. Route and graph requests share a read lock;
// build and transform take the write lock since they mutate the graph.
type server struct {
	cfg       Config
	logger    *log.Logger
	obstacles []orb.Polygon

	mu      sync.RWMutex
	planner *Planner
}

func newServer(cfg Config, obstacles []orb.Polygon, logger *log.Logger) *server {
	return &server{cfg: cfg, obstacles: obstacles, logger: logger}
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Post("/build", s.buildHandler)
	r.Post("/route", s.routeHandler)
	r.Post("/transform", s.transformHandler)
	r.Get("/graph", s.graphHandler)
	r.Get("/health", s.healthHandler)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// POST /build - Partition the scene and derive a new navigation graph
func (s *server) buildHandler(w http.ResponseWriter, r *http.Request) {
	var req BuildRequest
	// An empty body builds with the configured defaults
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.logger.Warn("invalid build request", "err", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	bsp := s.cfg.BSP
	if req.Bounds != nil {
		bsp.MinX, bsp.MinY = req.Bounds.Min.X, req.Bounds.Min.Y
		bsp.MaxX, bsp.MaxY = req.Bounds.Max.X, req.Bounds.Max.Y
	}
	if req.MinSize != 0 {
		bsp.MinSize = req.MinSize
	}
	if req.Seed != nil {
		bsp.Seed = *req.Seed
	}
	if bsp.MaxX <= bsp.MinX || bsp.MaxY <= bsp.MinY {
		http.Error(w, "Bounds must have positive width and height", http.StatusBadRequest)
		return
	}
	if !(bsp.MinSize > 0) {
		http.Error(w, "minSize must be positive", http.StatusBadRequest)
		return
	}

	obstacles := s.obstacles
	if req.NoFlyZones != nil {
		obstacles = append(append([]orb.Polygon(nil), obstacles...), polygonsFromFeatures(req.NoFlyZones)...)
	}

	planner, err := NewPlanner(bsp, obstacles, s.logger)
	if err != nil {
		s.logger.Error("build failed", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.mu.Lock()
	previous := s.planner
	s.planner = planner
	if previous != nil {
		previous.Path.Clear()
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"id":       planner.Path.ID.String(),
		"numNodes": planner.Path.Len(),
		"numEdges": planner.Path.EdgeCount(),
	})
}

// POST /route - Compute a route between the nodes nearest to start and end
func (s *server) routeHandler(w http.ResponseWriter, r *http.Request) {
	var req RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("invalid route request", "err", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.planner == nil || s.planner.Path.Len() == 0 {
		http.Error(w, "Graph not built. Call /build first", http.StatusBadRequest)
		return
	}

	route, err := s.planner.Route(req.Start.toOrb(), req.End.toOrb())
	if err != nil {
		s.logger.Error("route failed", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := RouteResponse{
		Path:    []Point{},
		Nodes:   []NodeID{},
		Success: route.Found(),
		Cost:    route.Cost,
	}
	if !route.Found() {
		s.logger.Info("no route", "start", req.Start, "end", req.End)
		response.Message = "No path found between start and end"
		writeJSON(w, http.StatusOK, response)
		return
	}

	response.Nodes = route.Nodes
	response.Route = s.planner.RouteFeature(route, s.cfg.Render.SimplifyTolerance)
	for _, p := range route.Points(s.planner.Path) {
		response.Path = append(response.Path, fromOrb(p))
	}
	s.logger.Info("route found", "waypoints", len(route.Nodes), "cost", route.Cost)
	writeJSON(w, http.StatusOK, response)
}

// POST /transform - Scale then translate the graph
func (s *server) transformHandler(w http.ResponseWriter, r *http.Request) {
	var req TransformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Scale == 0 {
		req.Scale = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.planner == nil {
		http.Error(w, "Graph not built. Call /build first", http.StatusBadRequest)
		return
	}
	if err := s.planner.Transform(req.Offset.toOrb(), req.Scale); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.logger.Info("graph transformed", "offset", req.Offset, "scale", req.Scale)
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// GET /graph - Nodes and connections as a GeoJSON feature collection
func (s *server) graphHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.planner == nil {
		http.Error(w, "Graph not built. Call /build first", http.StatusBadRequest)
		return
	}

	fc := s.planner.Render(s.cfg.Render.SimplifyTolerance).FeatureCollection()
	writeJSON(w, http.StatusOK, fc)
}

// GET /health - Health check endpoint
func (s *server) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := "waiting for graph"
	numNodes := 0
	if s.planner != nil {
		status = "ready"
		numNodes = s.planner.Path.Len()
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   status,
		"hasGraph": s.planner != nil,
		"numNodes": numNodes,
	})
}
