package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phanxgames/algoviz/internal/config"
	"github.com/phanxgames/algoviz/internal/logging"
)

var (
	// Global flags
	verbose bool
	cfgPath string
	format  string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "algoviz",
	Short: "algoviz - step-by-step search, sort and pathfinding visualizer",
	Long: `algoviz runs classic search, sort and grid pathfinding algorithms and
records every comparison, swap and visited cell as a trace.

Traces can be printed, replayed in the terminal or an ebiten window, or
served over HTTP with a websocket playback channel.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger, err = logging.New(cfg.Logging, verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath, "Config file path")

	listCmd.Flags().StringVar(&listKind, "kind", "", "Only list algorithms of this kind (search, sort, pathfind)")

	// Commands share flag variables; only one command runs per process.
	for _, c := range []*cobra.Command{searchCmd, sortCmd, pathfindCmd} {
		c.Flags().StringVarP(&format, "format", "f", "json", "Output format (json, yaml)")
	}
	searchCmd.Flags().StringVarP(&algorithmID, "algorithm", "a", "", "Search algorithm (default "+string(defaultSearch)+")")
	searchCmd.Flags().IntSliceVar(&values, "values", nil, "Comma-separated input array")
	searchCmd.Flags().IntVarP(&target, "target", "t", 0, "Value to search for")
	_ = searchCmd.MarkFlagRequired("values")

	sortCmd.Flags().StringVarP(&algorithmID, "algorithm", "a", "", "Sort algorithm (default "+string(defaultSort)+")")
	sortCmd.Flags().IntSliceVar(&values, "values", nil, "Comma-separated input array")
	_ = sortCmd.MarkFlagRequired("values")

	pathfindCmd.Flags().StringVarP(&algorithmID, "algorithm", "a", "", "Pathfinding algorithm (default "+string(defaultPathfind)+")")
	pathfindCmd.Flags().StringVarP(&gridPath, "grid", "g", "", "ASCII grid file (S start, E end, # wall)")
	pathfindCmd.Flags().BoolVar(&diagonal, "diagonal", false, "Allow diagonal moves")
	_ = pathfindCmd.MarkFlagRequired("grid")

	for _, c := range []*cobra.Command{tuiCmd, windowCmd} {
		c.Flags().StringVarP(&algorithmID, "algorithm", "a", "", "Algorithm to replay (default "+string(defaultSort)+")")
		c.Flags().IntSliceVar(&values, "values", nil, "Comma-separated input array (search, sort)")
		c.Flags().IntVarP(&target, "target", "t", 0, "Value to search for")
		c.Flags().StringVarP(&gridPath, "grid", "g", "", "ASCII grid file, reloaded on change (pathfind)")
		c.Flags().BoolVar(&diagonal, "diagonal", false, "Allow diagonal moves")
		c.Flags().Float64Var(&speed, "speed", 0, "Initial playback speed (default from config)")
	}
	windowCmd.Flags().StringVar(&scriptPath, "script", "", "JSON test script to drive the window")

	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")

	rootCmd.AddCommand(listCmd, searchCmd, sortCmd, pathfindCmd, tuiCmd, windowCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
