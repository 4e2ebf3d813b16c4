package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the itfview banner with version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.EnvColorProfile()
	lines := []struct {
		text   string
		colour string
	}{
		{"  _  _    __      _               ", "#818cf8"},
		{" (_)| |_ / _|__ _(_) ___ __ __ __ ", "#a78bfa"},
		{" | ||  _|  _|\\ V / |/ -_)\\ V  V / ", "#c084fc"},
		{" |_| \\__|_|   \\_/|_|\\___| \\_/\\_/  ", "#e879f9"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.colour)))
	}
	fmt.Fprintln(w, termenv.String("  v"+version).Foreground(p.Color("#fb7185")).Faint())
	fmt.Fprintln(w)
}
