package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the EIO banner to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"  _____ ___ ___  ", "#38bdf8"},
		{" | ____|_ _/ _ \\ ", "#22d3ee"},
		{" |  _|  | | | | |", "#2dd4bf"},
		{" | |___ | | |_| |", "#34d399"},
		{" |_____|___\\___/ ", "#4ade80"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String(" model persistence "+version).Faint())
	fmt.Fprintln(w)
}
