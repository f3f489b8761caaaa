package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/phanxgames/algoviz"
)

// Styles holds the lipgloss styles used by the terminal renderer.
type Styles struct {
	Title  lipgloss.Style
	Badge  lipgloss.Style
	Status lipgloss.Style
	Muted  lipgloss.Style
	Error  lipgloss.Style

	Bar        lipgloss.Style
	Sorted     lipgloss.Style
	OutOfRange lipgloss.Style
}

// DefaultStyles returns the default palette. Bar and cell colours match the
// window renderer.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Background(lipgloss.Color("#5b8def")).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1).
			Bold(true),
		Badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f5c242")).
			Bold(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e0e0e0")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6c6f85")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ef5b5b")),

		Bar:        lipgloss.NewStyle().Foreground(lipgloss.Color("#5b8def")),
		Sorted:     lipgloss.NewStyle().Foreground(lipgloss.Color("#3cb371")),
		OutOfRange: lipgloss.NewStyle().Foreground(lipgloss.Color("#595966")),
	}
}

var stepColors = map[algoviz.StepType]lipgloss.Color{
	algoviz.StepCompare:  "#f5c242",
	algoviz.StepSwap:     "#ef5b5b",
	algoviz.StepSelect:   "#b06aef",
	algoviz.StepSet:      "#ef8f3c",
	algoviz.StepSorted:   "#3cb371",
	algoviz.StepBounds:   "#7fd6e8",
	algoviz.StepFound:    "#2ee57a",
	algoviz.StepNotFound: "#9a9a9a",
	algoviz.StepVisited:  "#4f7cac",
	algoviz.StepPath:     "#f5d042",
}

// StepStyle returns the highlight style for a step type.
func StepStyle(t algoviz.StepType) lipgloss.Style {
	c, ok := stepColors[t]
	if !ok {
		c = "#ffffff"
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}

var cellColors = map[algoviz.CellState]lipgloss.Color{
	algoviz.CellEmpty:   "#f0f0f0",
	algoviz.CellWall:    "#2b2d42",
	algoviz.CellStart:   "#2ec46b",
	algoviz.CellEnd:     "#e5484d",
	algoviz.CellPath:    "#f5d042",
	algoviz.CellVisited: "#9cc3e6",
}

// CellStyle returns the style for a grid cell state.
func CellStyle(s algoviz.CellState) lipgloss.Style {
	c, ok := cellColors[s]
	if !ok {
		c = "#ffffff"
	}
	return lipgloss.NewStyle().Foreground(c)
}
