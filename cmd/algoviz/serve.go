package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/phanxgames/algoviz"
	"github.com/phanxgames/algoviz/internal/server"
)

var addr string

// serveCmd runs the HTTP API and websocket playback channel
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve traces over HTTP and replay them over websockets",
	Long: `Serve traces over HTTP and replay them over websockets.

Endpoints:
  GET  /health
  GET  /v1/algorithms[?kind=search|sort|pathfind]
  GET  /v1/cache
  POST /v1/search, /v1/sort, /v1/pathfind
  GET  /v1/playback (websocket)`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if addr != "" {
		cfg.Server.Addr = addr
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, algoviz.NewRegistry(), logger)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx)
	})
	g.Go(func() error {
		return srv.ReportStats(ctx, cfg.GetStatsInterval())
	})
	return g.Wait()
}
