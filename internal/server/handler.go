// Package server exposes the algorithm registry over HTTP and streams trace
// playback to browsers over a websocket.
package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/phanxgames/algoviz"
	"github.com/phanxgames/algoviz/internal/config"
)

// Handler handles HTTP requests.
type Handler struct {
	registry *algoviz.Registry
	cache    *algoviz.TraceCache
	config   *config.Config
	logger   *zap.Logger
	upgrader websocket.Upgrader

	// clock drives websocket Players; nil means the system clock.
	clock algoviz.Clock
}

// NewHandler creates a new handler. cache may be nil to run every request.
func NewHandler(registry *algoviz.Registry, cache *algoviz.TraceCache, cfg *config.Config, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		registry: registry,
		cache:    cache,
		config:   cfg,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	e.GET("/v1/algorithms", h.ListAlgorithms)
	e.GET("/v1/cache", h.CacheStats)
	e.POST("/v1/search", h.Search)
	e.POST("/v1/sort", h.Sort)
	e.POST("/v1/pathfind", h.Pathfind)

	e.GET("/v1/playback", h.Playback)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// AlgorithmInfo describes one registered algorithm.
type AlgorithmInfo struct {
	ID   algoviz.AlgorithmID `json:"id"`
	Name string              `json:"name"`
	Kind algoviz.Kind        `json:"kind"`
}

// ListAlgorithms lists registered algorithms, optionally filtered by the
// kind query parameter.
func (h *Handler) ListAlgorithms(c echo.Context) error {
	algs := h.registry.List()
	if k := c.QueryParam("kind"); k != "" {
		kind, ok := parseKind(k)
		if !ok {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown kind: " + k})
		}
		algs = h.registry.ByKind(kind)
	}

	out := make([]AlgorithmInfo, 0, len(algs))
	for _, a := range algs {
		out = append(out, AlgorithmInfo{ID: a.ID(), Name: a.Name(), Kind: a.Kind()})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"algorithms": out,
		"total":      len(out),
	})
}

// CacheStats reports trace cache counters.
func (h *Handler) CacheStats(c echo.Context) error {
	if h.cache == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{"enabled": false})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"enabled": true,
		"stats":   h.cache.Stats(),
	})
}

// RunResponse is the result of one algorithm run.
type RunResponse struct {
	RunID     string              `json:"run_id"`
	Algorithm algoviz.AlgorithmID `json:"algorithm"`
	Cached    bool                `json:"cached"`
	algoviz.Output
}

// Search runs a search algorithm.
func (h *Handler) Search(c echo.Context) error {
	return h.runKind(c, algoviz.KindSearch)
}

// Sort runs a sort algorithm.
func (h *Handler) Sort(c echo.Context) error {
	return h.runKind(c, algoviz.KindSort)
}

// Pathfind runs a pathfinding algorithm.
func (h *Handler) Pathfind(c echo.Context) error {
	return h.runKind(c, algoviz.KindPathfind)
}

func (h *Handler) runKind(c echo.Context, kind algoviz.Kind) error {
	var req RunRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	a, err := h.registry.LookupKind(req.Algorithm, kind)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	in, err := req.Input(kind, h.limits())
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	resp := h.run(a, in)
	h.logger.Info("run",
		zap.String("run_id", resp.RunID),
		zap.String("algorithm", string(a.ID())),
		zap.Int("steps", resp.Trace.Len()),
		zap.Bool("cached", resp.Cached))
	return c.JSON(http.StatusOK, resp)
}

// run executes a through the cache and stamps a fresh run id.
func (h *Handler) run(a algoviz.Algorithm, in algoviz.Input) RunResponse {
	var (
		out    algoviz.Output
		cached bool
	)
	if h.cache != nil {
		out, cached = h.cache.Run(a, in)
	} else {
		out = a.Run(in)
	}
	return RunResponse{
		RunID:     "run_" + uuid.New().String()[:8],
		Algorithm: a.ID(),
		Cached:    cached,
		Output:    out,
	}
}

func (h *Handler) limits() Limits {
	return Limits{
		MaxArrayLen:  h.config.Server.MaxArrayLen,
		MaxGridCells: h.config.Server.MaxGridCells,
	}
}

func parseKind(s string) (algoviz.Kind, bool) {
	for _, k := range []algoviz.Kind{algoviz.KindSearch, algoviz.KindSort, algoviz.KindPathfind} {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}
