package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the workstate banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{`                    _        _        _       `, "#1b9e77"},
		{` __ __ _____ _ _| |__ ___| |_ __ _| |_ ___ `, "#66a61e"},
		{` \ V  V / _ \ '_| / /(_-<  _/ _' |  _/ -_)`, "#e6ab02"},
		{`  \_/\_/\___/_| |_\_\/__/\__\__,_|\__\___|`, "#d95f02"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// Success styles a positive status line.
func Success(msg string) string {
	p := termenv.ColorProfile()
	return termenv.String("✔ " + msg).Foreground(p.Color("#1b9e77")).String()
}

// Failure styles a negative status line.
func Failure(msg string) string {
	p := termenv.ColorProfile()
	return termenv.String("✘ " + msg).Foreground(p.Color("#e41a1c")).Bold().String()
}
