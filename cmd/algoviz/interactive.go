package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"github.com/yohamta/donburi"
	"go.uber.org/zap"

	"github.com/phanxgames/algoviz"
	"github.com/phanxgames/algoviz/ecs"
	"github.com/phanxgames/algoviz/internal/tui"
	"github.com/phanxgames/algoviz/internal/watch"
	"github.com/phanxgames/algoviz/render"
)

var (
	speed      float64
	scriptPath string
)

// tuiCmd replays a trace in the terminal
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Replay an algorithm in the terminal",
	Long: `Replay an algorithm in the terminal.

Keys: space play/pause, ←/→ step, r reset, +/- speed, ? help, q quit.
With --grid the file is watched and the search reruns when it changes.`,
	Example: `  algoviz tui -a merge-sort --values 9,4,7,1,8,2
  algoviz tui -a bfs --grid maze.txt`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

// windowCmd replays a trace in an ebiten window
var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Replay an algorithm in a desktop window",
	Long: `Replay an algorithm in a desktop window.

Keys: space play/pause, ←/→ step, r reset, +/- speed, esc quit. Grid cells
can be clicked or dragged to toggle walls.`,
	Args: cobra.NoArgs,
	RunE: runWindow,
}

// session is the algorithm, input and Player shared by the interactive
// commands.
type session struct {
	alg    algoviz.Algorithm
	input  algoviz.Input
	grid   *algoviz.Grid
	player *algoviz.Player
	cache  *algoviz.TraceCache
}

func newSession() (*session, error) {
	id := algoviz.AlgorithmID(algorithmID)
	if id == "" {
		id = defaultSort
		if gridPath != "" {
			id = defaultPathfind
		}
	}
	a, err := algoviz.DefaultRegistry().Lookup(id)
	if err != nil {
		return nil, err
	}

	s := &session{alg: a, input: algoviz.Input{Values: values, Target: target}}
	s.input.Diagonal = diagonal
	if a.Kind() == algoviz.KindPathfind {
		if gridPath == "" {
			return nil, fmt.Errorf("%s needs a --grid file", id)
		}
		if s.grid, err = loadGrid(gridPath); err != nil {
			return nil, err
		}
	} else if len(s.input.Values) == 0 {
		s.input.Values, s.input.Target = demoInput(a.Kind())
	}

	sp := speed
	if sp <= 0 {
		sp = cfg.Playback.Speed
	}
	s.player = algoviz.NewPlayer(algoviz.PlayerConfig{
		BaseInterval: cfg.GetBaseInterval(),
		Speed:        sp,
	})
	if cfg.Cache.Size > 0 {
		s.cache = algoviz.NewTraceCache(cfg.Cache.Size)
	}
	return s, nil
}

// demoInput is used when --values is not given.
func demoInput(kind algoviz.Kind) ([]int, int) {
	if kind == algoviz.KindSearch {
		return []int{2, 5, 8, 11, 14, 17, 20, 23, 26, 29}, 23
	}
	return []int{7, 3, 9, 1, 6, 8, 2, 5, 4}, 0
}

// in returns the input for the current grid, if any.
func (s *session) in() algoviz.Input {
	in := s.input
	if s.grid != nil {
		in.PathQuery = s.grid.Query(s.input.Diagonal)
	}
	return in
}

// reload points the Player at the current input and loads its trace.
func (s *session) reload() {
	in := s.in()
	s.player.SetSource(algoviz.Source(s.alg, in))

	var out algoviz.Output
	if s.cache != nil {
		out, _ = s.cache.Run(s.alg, in)
	} else {
		out = s.alg.Run(in)
	}
	s.player.Load(out.Trace)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runTUI(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}

	// The alt screen owns the terminal, so stderr logging stays off.
	quiet := zap.NewNop()
	m := tui.New(tui.Options{
		Algorithm: s.alg,
		Input:     s.input,
		Grid:      s.grid,
		Player:    s.player,
		Cache:     s.cache,
		Logger:    quiet,
	})
	prog, stop := tui.NewProgram(m, tea.WithAltScreen())
	defer stop()

	if s.grid != nil {
		w, err := watch.New(gridPath, cfg.GetDebounce(), func(g *algoviz.Grid) {
			prog.Send(tui.GridMsg{Grid: g})
		}, quiet)
		if err != nil {
			return err
		}
		defer w.Close()
		if err := w.Start(commandContext(cmd)); err != nil {
			return err
		}
	}

	logger.Debug("starting tui", zap.String("algorithm", string(s.alg.ID())))
	_, err = prog.Run()
	s.player.Pause()
	return err
}

// statusHeight is the HUD strip above the view.
const statusHeight = 64

func runWindow(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	wc := cfg.Window

	scene := render.NewScene()
	scene.SetLogger(logger)
	scene.SetDebugMode(verbose)
	scene.SetPlayer(s.player)

	world := donburi.NewWorld()
	scene.SetEntityStore(ecs.NewDonburiStore(world))
	pub := ecs.NewPlaybackPublisher(world)
	pub.Attach(s.player)
	ecs.PlaybackEventType.Subscribe(world, func(w donburi.World, ev ecs.PlaybackEvent) {
		logger.Debug("playback",
			zap.Uint8("kind", uint8(ev.Kind)),
			zap.Int("cursor", ev.Cursor),
			zap.Stringer("state", ev.State))
	})
	ecs.InteractionEventType.Subscribe(world, func(w donburi.World, ev render.InteractionEvent) {
		logger.Debug("interaction", zap.Uint32("entity", ev.EntityID))
	})

	status := render.NewStatusWidget(s.alg.Name(), s.player, wc.Width, statusHeight)
	scene.Root().AddChild(status.Node())

	// Watcher callbacks arrive on another goroutine; the scene applies them
	// in Update.
	grids := make(chan *algoviz.Grid, 1)

	update := func() error { return flushWorld(pub, world) }
	if s.grid != nil {
		view := render.NewGridView("grid", s.grid, wc.CellSize)
		view.Node().SetPosition(16, statusHeight+16)
		view.Bind(s.player)
		view.SetOnEdit(func(algoviz.Cell, bool) { s.reload() })
		scene.Root().AddChild(view.Node())

		w, err := watch.New(gridPath, cfg.GetDebounce(), func(g *algoviz.Grid) {
			select {
			case <-grids:
			default:
			}
			grids <- g
		}, logger)
		if err != nil {
			return err
		}
		defer w.Close()
		if err := w.Start(commandContext(cmd)); err != nil {
			return err
		}

		flush := update
		update = func() error {
			select {
			case g := <-grids:
				s.grid = g
				view.SetGrid(g)
				s.reload()
			default:
			}
			return flush()
		}
	} else {
		view := render.NewBarView("bars", float64(wc.Width-32), float64(wc.Height-statusHeight-48))
		view.Node().SetPosition(16, statusHeight+16)
		view.SetInput(s.input.Values)
		view.Bind(s.player)
		scene.Root().AddChild(view.Node())
	}

	if scriptPath != "" {
		data, err := os.ReadFile(scriptPath)
		if err != nil {
			return fmt.Errorf("failed to read script: %w", err)
		}
		runner, err := render.LoadTestScript(data)
		if err != nil {
			return err
		}
		scene.SetTestRunner(runner)
		flush := update
		update = func() error {
			if err := flush(); err != nil {
				return err
			}
			if runner.Done() {
				return ebiten.Termination
			}
			return nil
		}
	}
	scene.SetUpdateFunc(update)

	s.reload()
	logger.Info("opening window",
		zap.String("algorithm", string(s.alg.ID())),
		zap.Int("steps", s.player.Len()))
	err = render.Run(scene, render.RunConfig{Title: wc.Title, Width: wc.Width, Height: wc.Height})
	s.player.Pause()
	return err
}

// flushWorld publishes queued Player changes and delivers them, along with
// any interaction events, to the world's subscribers.
func flushWorld(pub *ecs.PlaybackPublisher, world donburi.World) error {
	pub.Flush()
	ecs.PlaybackEventType.ProcessEvents(world)
	ecs.InteractionEventType.ProcessEvents(world)
	return nil
}
