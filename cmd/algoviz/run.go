package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/phanxgames/algoviz"
)

const (
	defaultSearch   = algoviz.IDBinarySearch
	defaultSort     = algoviz.IDBubbleSort
	defaultPathfind = algoviz.IDAStar
)

var (
	listKind    string
	algorithmID string
	values      []int
	target      int
	gridPath    string
	diagonal    bool
)

// listCmd prints the registered algorithms
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available algorithms",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

// searchCmd runs a search and prints its trace
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run a search algorithm and print the trace",
	Example: `  algoviz search --values 1,3,5,7,9 --target 7
  algoviz search -a jump-search --values 2,4,6,8 -t 6 -f yaml`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

// sortCmd runs a sort and prints its trace
var sortCmd = &cobra.Command{
	Use:     "sort",
	Short:   "Run a sort algorithm and print the trace",
	Example: `  algoviz sort -a quick-sort --values 5,2,8,1,9`,
	Args:    cobra.NoArgs,
	RunE:    runSort,
}

// pathfindCmd runs a pathfinder over a grid file and prints its trace
var pathfindCmd = &cobra.Command{
	Use:   "pathfind",
	Short: "Run a pathfinding algorithm on an ASCII grid file",
	Long: `Run a pathfinding algorithm on an ASCII grid file.

The grid uses '.' for open cells, '#' for walls, 'S' for the start and 'E'
for the end. Every row must have the same width.`,
	Example: `  algoviz pathfind -a dijkstra --grid maze.txt --diagonal`,
	Args:    cobra.NoArgs,
	RunE:    runPathfind,
}

func runList(cmd *cobra.Command, args []string) error {
	reg := algoviz.NewRegistry()
	algs := reg.List()
	if listKind != "" {
		kind, ok := parseKind(listKind)
		if !ok {
			return fmt.Errorf("unknown kind %q (want search, sort or pathfind)", listKind)
		}
		algs = reg.ByKind(kind)
	}

	w := cmd.OutOrStdout()
	for _, a := range algs {
		fmt.Fprintf(w, "%-22s %-9s %s\n", a.ID(), a.Kind(), a.Name())
	}
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	return runKind(cmd, algoviz.KindSearch, defaultSearch, algoviz.Input{Values: values, Target: target})
}

func runSort(cmd *cobra.Command, args []string) error {
	return runKind(cmd, algoviz.KindSort, defaultSort, algoviz.Input{Values: values})
}

func runPathfind(cmd *cobra.Command, args []string) error {
	grid, err := loadGrid(gridPath)
	if err != nil {
		return err
	}
	return runKind(cmd, algoviz.KindPathfind, defaultPathfind, algoviz.Input{PathQuery: grid.Query(diagonal)})
}

// runKind resolves the --algorithm flag for kind, runs it and writes the
// output in the --format encoding.
func runKind(cmd *cobra.Command, kind algoviz.Kind, fallback algoviz.AlgorithmID, in algoviz.Input) error {
	a, err := resolveAlgorithm(kind, fallback)
	if err != nil {
		return err
	}
	if kind != algoviz.KindPathfind && len(in.Values) == 0 {
		return fmt.Errorf("--values must not be empty")
	}

	out := a.Run(in)
	logger.Debug("algorithm finished",
		zap.String("algorithm", string(a.ID())),
		zap.Int("steps", out.Trace.Len()))
	return writeOutput(cmd.OutOrStdout(), format, out)
}

// resolveAlgorithm looks up the --algorithm flag, or fallback when unset,
// and checks it is of kind.
func resolveAlgorithm(kind algoviz.Kind, fallback algoviz.AlgorithmID) (algoviz.Algorithm, error) {
	id := algoviz.AlgorithmID(algorithmID)
	if id == "" {
		id = fallback
	}
	return algoviz.DefaultRegistry().LookupKind(id, kind)
}

func loadGrid(path string) (*algoviz.Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read grid: %w", err)
	}
	grid, err := algoviz.ParseGrid(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return grid, nil
}

func writeOutput(w io.Writer, format string, v any) error {
	switch format {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
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
