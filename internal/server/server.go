package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/net/netutil"

	"github.com/phanxgames/algoviz"
	"github.com/phanxgames/algoviz/internal/config"
)

// Server is the algoviz HTTP service.
type Server struct {
	echo    *echo.Echo
	handler *Handler
	config  *config.Config
	logger  *zap.Logger
}

// New builds a server over registry. A cache.size of 0 disables the trace
// cache.
func New(cfg *config.Config, registry *algoviz.Registry, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	var cache *algoviz.TraceCache
	if cfg.Cache.Size > 0 {
		cache = algoviz.NewTraceCache(cfg.Cache.Size)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.GetReadTimeout()
	e.Server.WriteTimeout = cfg.GetWriteTimeout()

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			logger.Debug("request", fields...)
			return nil
		},
	}))

	h := NewHandler(registry, cache, cfg, logger)
	h.RegisterRoutes(e)

	return &Server{echo: e, handler: h, config: cfg, logger: logger}
}

// Echo returns the underlying echo instance, which is an http.Handler.
func (s *Server) Echo() *echo.Echo { return s.echo }

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully within the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	addr := s.config.Server.Addr
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	if n := s.config.Server.MaxConnections; n > 0 {
		ln = netutil.LimitListener(ln, n)
	}
	s.echo.Listener = ln

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", addr))
		errc <- s.echo.Start(addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.GetShutdownTimeout())
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// ReportStats logs the trace cache counters every interval until ctx is
// done. It returns immediately when the cache is disabled or interval is
// zero.
func (s *Server) ReportStats(ctx context.Context, interval time.Duration) error {
	cache := s.handler.cache
	if cache == nil || interval <= 0 {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			st := cache.Stats()
			s.logger.Info("trace cache",
				zap.Uint64("hits", st.Hits),
				zap.Uint64("misses", st.Misses),
				zap.Uint64("evictions", st.Evictions),
				zap.Int("entries", st.Entries))
		}
	}
}
