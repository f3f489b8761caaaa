package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/phanxgames/algoviz"
)

// Sender is the part of *tea.Program that Bind needs.
type Sender interface {
	Send(msg tea.Msg)
}

// Bind forwards the Player's step, state, and reload notifications to prog
// as PlayerMsg. Callbacks never block: a notification that arrives while
// one is already pending is merged into it, since the model redraws from
// the Player's current snapshot. The returned stop function ends the
// forwarding goroutine.
func Bind(prog Sender, p *algoviz.Player) (stop func()) {
	pending := make(chan struct{}, 1)
	done := make(chan struct{})

	notify := func() {
		select {
		case pending <- struct{}{}:
		default:
		}
	}
	p.OnStep(func(int, algoviz.Step) { notify() })
	p.OnState(func(algoviz.PlaybackState) { notify() })
	p.OnReload(func(algoviz.Trace) { notify() })

	go func() {
		for {
			select {
			case <-done:
				return
			case <-pending:
				prog.Send(PlayerMsg{})
			}
		}
	}()

	var stopped bool
	return func() {
		if stopped {
			return
		}
		stopped = true
		p.OnStep(nil)
		p.OnState(nil)
		p.OnReload(nil)
		close(done)
	}
}

// NewProgram returns a program for m with Player notifications bound.
// Callers may Send their own messages, such as GridMsg from a watcher.
// Call stop after the program exits.
func NewProgram(m Model, opts ...tea.ProgramOption) (prog *tea.Program, stop func()) {
	prog = tea.NewProgram(m, opts...)
	return prog, Bind(prog, m.player)
}
