package tui

import (
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return NewPlainRenderer()
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// NewPlainRenderer returns markdown unchanged, for pipes and files.
func NewPlainRenderer() func(string) (string, error) {
	return func(markdown string) (string, error) {
		return markdown, nil
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// RendererFor picks the glamour renderer for terminals and the plain one otherwise.
func RendererFor(f *os.File) func(string) (string, error) {
	if IsTerminal(f) {
		return NewRenderer()
	}
	return NewPlainRenderer()
}
