// Package tui renders algorithm playback in the terminal with bubbletea.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/phanxgames/algoviz"
)

const (
	defaultBarRows = 10
	minBarRows     = 4
	maxBarRows     = 20
)

// PlayerMsg tells the model the Player moved or changed state.
type PlayerMsg struct{}

// GridMsg replaces the pathfinding grid and reruns the algorithm on it.
type GridMsg struct {
	Grid *algoviz.Grid
}

// Options configures a Model.
type Options struct {
	Title     string
	Algorithm algoviz.Algorithm
	// Input is the array input for search and sort. For pathfinding only
	// Diagonal and Heuristic are read; the grid comes from Grid.
	Input  algoviz.Input
	Grid   *algoviz.Grid
	Player *algoviz.Player
	Cache  *algoviz.TraceCache // optional
	Logger *zap.Logger
}

// Model is a bubbletea model over a Player. It draws the current frame as
// bars for array algorithms or as a board for pathfinding.
type Model struct {
	opts   Options
	player *algoviz.Player
	grid   *algoviz.Grid
	keys   keyMap
	help   help.Model
	styles Styles
	logger *zap.Logger

	width  int
	height int
}

// New builds a model and loads the first trace into the Player.
func New(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Title == "" && opts.Algorithm != nil {
		opts.Title = opts.Algorithm.Name()
	}
	m := Model{
		opts:   opts,
		player: opts.Player,
		grid:   opts.Grid,
		keys:   defaultKeyMap(),
		help:   help.New(),
		styles: DefaultStyles(),
		logger: opts.Logger,
	}
	m.load()
	return m
}

// load runs the algorithm on the current input and hands the trace to the
// Player.
func (m *Model) load() {
	in := m.opts.Input
	if m.grid != nil {
		q := m.grid.Query(in.Diagonal)
		q.Heuristic = in.Heuristic
		in.PathQuery = q
	}

	var out algoviz.Output
	if m.opts.Cache != nil {
		out, _ = m.opts.Cache.Run(m.opts.Algorithm, in)
	} else {
		out = m.opts.Algorithm.Run(in)
	}
	m.logger.Debug("trace loaded",
		zap.String("algorithm", string(m.opts.Algorithm.ID())),
		zap.Int("steps", out.Trace.Len()))
	m.player.Load(out.Trace)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle(m.opts.Title)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.player.Pause()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Play):
			m.player.Toggle()
		case key.Matches(msg, m.keys.Forward):
			m.player.StepForward()
		case key.Matches(msg, m.keys.Back):
			m.player.StepBackward()
		case key.Matches(msg, m.keys.Reset):
			m.player.Reset()
		case key.Matches(msg, m.keys.Faster):
			_ = m.player.SetSpeed(algoviz.NextSpeed(m.player.Speed(), 1))
		case key.Matches(msg, m.keys.Slower):
			_ = m.player.SetSpeed(algoviz.NextSpeed(m.player.Speed(), -1))
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}

	case GridMsg:
		if m.grid == nil || msg.Grid == nil {
			break
		}
		m.grid = msg.Grid
		m.load()

	case PlayerMsg:
		// The view reads the Player directly.
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	snap := m.player.Snapshot()
	trace := m.player.Trace()

	var body string
	if m.grid != nil {
		body = m.renderGrid(algoviz.GridFrameAt(m.grid, trace, snap.Cursor))
	} else {
		body = m.renderBars(algoviz.ArrayFrameAt(m.opts.Input.Values, trace, snap.Cursor))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(snap),
		"",
		body,
		"",
		m.renderStatus(snap),
		m.help.View(m.keys),
	)
}

func (m Model) renderHeader(snap algoviz.Snapshot) string {
	title := m.styles.Title.Render(m.opts.Title)
	state := m.styles.Badge.Render(strings.ToUpper(snap.State.String()))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", state)
}

func (m Model) renderStatus(snap algoviz.Snapshot) string {
	if snap.Len == 0 {
		return m.styles.Muted.Render("no trace")
	}
	line := fmt.Sprintf("step %d/%d  speed x%g", snap.Cursor+1, snap.Len, snap.Speed)
	if snap.Step == nil {
		return m.styles.Status.Render(line)
	}
	kind := StepStyle(snap.Step.Type).Render(snap.Step.Type.String())
	return m.styles.Status.Render(line) + "\n" + kind + " " + snap.Step.Message
}

// barRows is the chart height for the current window.
func (m Model) barRows() int {
	if m.height == 0 {
		return defaultBarRows
	}
	return min(max(m.height-10, minBarRows), maxBarRows)
}

// renderBars draws one column per element, tallest value at full height,
// with a marker row under the elements the current step touches.
func (m Model) renderBars(f algoviz.ArrayFrame) string {
	n := len(f.Values)
	if n == 0 {
		return m.styles.Muted.Render("(empty)")
	}
	lo, hi := f.Values[0], f.Values[0]
	for _, v := range f.Values {
		lo, hi = min(lo, v), max(hi, v)
	}
	rows := m.barRows()
	heights := make([]int, n)
	for i, v := range f.Values {
		if hi == lo {
			heights[i] = rows
			continue
		}
		heights[i] = 1 + (v-lo)*(rows-1)/(hi-lo)
	}

	glyph, gap := "██", " "
	if m.width > 0 && n*3 > m.width {
		glyph, gap = "█", ""
	}
	blank := strings.Repeat(" ", lipgloss.Width(glyph))

	var b strings.Builder
	for r := rows; r >= 1; r-- {
		for i := range f.Values {
			if i > 0 {
				b.WriteString(gap)
			}
			if heights[i] >= r {
				b.WriteString(m.barStyle(f, i).Render(glyph))
			} else {
				b.WriteString(blank)
			}
		}
		b.WriteByte('\n')
	}
	for i := range f.Values {
		if i > 0 {
			b.WriteString(gap)
		}
		if t, ok := f.Highlight[i]; ok {
			b.WriteString(StepStyle(t).Render(padRight("^", len(blank))))
		} else {
			b.WriteString(blank)
		}
	}
	return b.String()
}

// barStyle picks the style of bar i: current-step highlight first, then
// found, sorted, and outside the search window.
func (m Model) barStyle(f algoviz.ArrayFrame, i int) lipgloss.Style {
	if t, ok := f.Highlight[i]; ok {
		return StepStyle(t)
	}
	if f.Found == i {
		return StepStyle(algoviz.StepFound)
	}
	if f.Sorted[i] {
		return m.styles.Sorted
	}
	if f.Bounds != nil && (i < f.Bounds.Low || i > f.Bounds.High) {
		return m.styles.OutOfRange
	}
	return m.styles.Bar
}

var cellGlyphs = map[algoviz.CellState]string{
	algoviz.CellEmpty:   ". ",
	algoviz.CellWall:    "██",
	algoviz.CellStart:   "S ",
	algoviz.CellEnd:     "E ",
	algoviz.CellPath:    "* ",
	algoviz.CellVisited: "o ",
}

func (m Model) renderGrid(frame [][]algoviz.CellState) string {
	var b strings.Builder
	for r, row := range frame {
		if r > 0 {
			b.WriteByte('\n')
		}
		for _, s := range row {
			b.WriteString(CellStyle(s).Render(cellGlyphs[s]))
		}
	}
	return b.String()
}

func padRight(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}
