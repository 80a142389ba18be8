package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the contrib banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"                 _        _ _     ", "#818cf8"},
		{"   ___ ___  _ __ | |_ _ __(_) |__  ", "#a78bfa"},
		{"  / __/ _ \\| '_ \\| __| '__| | '_ \\ ", "#c084fc"},
		{" | (_| (_) | | | | |_| |  | | |_) |", "#e879f9"},
		{"  \\___\\___/|_| |_|\\__|_|  |_|_.__/ ", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
