package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/df07/go-tiled-pathtracer/pkg/config"
	"github.com/df07/go-tiled-pathtracer/pkg/output"
	"github.com/df07/go-tiled-pathtracer/pkg/renderer"
	"github.com/df07/go-tiled-pathtracer/pkg/scene"
)

// Number of log lines kept from the most recent render
const consoleBufferSize = 256

// Parameter limits for render requests
const (
	maxWidth   = 2000
	maxSamples = 10000
	maxDepth   = 1000
	maxWorkers = 256
)

// Server handles web requests for the path tracer
type Server struct {
	port int

	mu      sync.Mutex
	console []ConsoleMessage // Log output of the most recent render
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{port: port}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene    string            `json:"scene"`   // Scene name (e.g., "default")
	Width    int               `json:"width"`   // Image width, 0 keeps the scene's
	Samples  int               `json:"samples"` // Samples per pixel, 0 keeps the scene's
	Depth    int               `json:"depth"`   // Max bounces, 0 keeps the scene's
	Workers  int               `json:"workers"` // 0 = CPU count
	Seed     int64             `json:"seed"`    // 0 = clock
	Format   output.Format     `json:"format"`
	Schedule renderer.Schedule `json:"schedule"`
}

// Stats represents render statistics
type Stats struct {
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	TotalPixels      int     `json:"totalPixels"`
	TotalSamples     int     `json:"totalSamples"`
	Workers          int     `json:"workers"`
	RowsPerWorker    []int   `json:"rowsPerWorker"`
	Seed             int64   `json:"seed"`
	ElapsedMs        int64   `json:"elapsedMs"`
	SamplesPerSecond float64 `json:"samplesPerSecond"`
}

// Handler returns the HTTP routes served by the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/console", s.handleConsole)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleScenes lists the available scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{"scenes": scene.ListScenes()})
}

// handleRender renders one image and returns it encoded in the requested format
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	consoleChan := make(chan ConsoleMessage, consoleBufferSize)
	logger := NewWebLogger(consoleChan)

	camera := renderer.NewCamera(sceneObj.Camera)
	tr := renderer.NewTiledRenderer(camera, renderer.ScheduleConfig{
		Workers:  req.Workers,
		Seed:     req.Seed,
		Schedule: req.Schedule,
	}, logger)
	frame, renderStats := tr.Render(sceneObj.World)
	close(consoleChan)
	s.storeConsole(consoleChan)

	var buf bytes.Buffer
	if err := output.Encode(&buf, frame, req.Format); err != nil {
		writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Encode error: %v", err))
		return
	}

	stats := Stats{
		Width:            frame.Width,
		Height:           frame.Height,
		TotalPixels:      renderStats.TotalPixels,
		TotalSamples:     renderStats.TotalSamples,
		Workers:          renderStats.Workers,
		RowsPerWorker:    renderStats.RowsPerWorker,
		Seed:             renderStats.Seed,
		ElapsedMs:        renderStats.Elapsed.Milliseconds(),
		SamplesPerSecond: renderStats.SamplesPerSecond(),
	}
	statsJSON, err := json.Marshal(stats)
	if err == nil {
		w.Header().Set("X-Render-Stats", string(statsJSON))
	}

	log.Printf("Rendered %s (%dx%d, %d spp) in %v", sceneObj.Name, frame.Width, frame.Height,
		renderStats.SamplesPerPixel, formatElapsed(renderStats.Elapsed))

	w.Header().Set("Content-Type", req.Format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: "default"}

	if sceneName := query.Get("scene"); sceneName != "" {
		req.Scene = sceneName
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, 1, maxWidth); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(query, "spp", 0, 1, maxSamples); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(query, "depth", 0, 1, maxDepth); err != nil {
		return nil, err
	}
	if req.Workers, err = parseIntParam(query, "workers", 0, 1, maxWorkers); err != nil {
		return nil, err
	}
	if value := query.Get("seed"); value != "" {
		if req.Seed, err = strconv.ParseInt(value, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid seed: %s", value)
		}
	}
	if req.Format, err = output.ParseFormat(valueOr(query, "format", string(output.FormatPNG))); err != nil {
		return nil, err
	}
	if req.Schedule, err = renderer.ParseSchedule(query.Get("schedule")); err != nil {
		return nil, err
	}

	// Performance warning
	if req.Width > 800 && req.Samples > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func valueOr(values url.Values, key, fallback string) string {
	if value := values.Get(key); value != "" {
		return value
	}
	return fallback
}

// createScene builds the requested scene with the request's camera overrides
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	sceneObj, err := scene.NewScene(req.Scene)
	if err != nil {
		return nil, err
	}

	cfg := config.Default()
	cfg.Width = req.Width
	cfg.Samples = req.Samples
	cfg.Depth = req.Depth
	sceneObj.Camera = cfg.ApplyCamera(sceneObj.Camera)
	return sceneObj, nil
}

// handleSceneConfig returns the default camera settings for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	sceneName := valueOr(r.URL.Query(), "scene", "default")
	sceneObj, err := scene.NewScene(sceneName)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	camera := sceneObj.Camera
	response := map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"width":           camera.ImageWidth,
			"height":          renderer.ImageHeight(camera.ImageWidth, camera.AspectRatio),
			"samplesPerPixel": camera.SamplesPerPixel,
			"maxDepth":        camera.MaxDepth,
			"vfov":            camera.VFov,
			"defocusAngle":    camera.DefocusAngle,
		},
		"limits": map[string]interface{}{
			"width":   map[string]int{"min": 1, "max": maxWidth},
			"spp":     map[string]int{"min": 1, "max": maxSamples},
			"depth":   map[string]int{"min": 1, "max": maxDepth},
			"workers": map[string]int{"min": 1, "max": maxWorkers},
		},
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// handleConsole returns the log output of the most recent render
func (s *Server) handleConsole(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	messages := append([]ConsoleMessage(nil), s.console...)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{"messages": messages})
}

// storeConsole replaces the kept console output with the drained channel
func (s *Server) storeConsole(consoleChan <-chan ConsoleMessage) {
	var messages []ConsoleMessage
	for msg := range consoleChan {
		messages = append(messages, msg)
	}

	s.mu.Lock()
	s.console = messages
	s.mu.Unlock()
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func formatElapsed(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
