package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// Printer writes colored diagnostics to a terminal stream.
type Printer struct {
	out *termenv.Output
}

// NewPrinter creates a Printer on w. Colors degrade to plain text when w is not a terminal.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{out: termenv.NewOutput(w)}
}

// Warn prints a recoverable diagnostic.
func (p *Printer) Warn(format string, args ...any) {
	msg := p.out.String("warning: " + fmt.Sprintf(format, args...)).Foreground(p.out.Color("#fbbf24"))
	fmt.Fprintln(p.out, msg)
}

// Error prints a fatal diagnostic.
func (p *Printer) Error(err error) {
	msg := p.out.String("error: " + err.Error()).Foreground(p.out.Color("#f87171")).Bold()
	fmt.Fprintln(p.out, msg)
}

// Banner outputs the txgraph banner.
func (p *Printer) Banner(version string) {
	s1 := p.out.String(" _             _____                 _     ").Foreground(p.out.Color("#fbbf24"))
	s2 := p.out.String("| |___  __    / ____|_ __ __ _ _ __ | |__  ").Foreground(p.out.Color("#f59e0b"))
	s3 := p.out.String("| __\\ \\/ /   | |  __| '__/ _` | '_ \\| '_ \\ ").Foreground(p.out.Color("#f97316"))
	s4 := p.out.String("| |_ >  <    | |_| | | | (_| | |_) | | | |").Foreground(p.out.Color("#ea580c"))
	s5 := p.out.String(" \\__/_/\\_\\    \\_____|_|  \\__,_| .__/|_| |_|").Foreground(p.out.Color("#c2410c"))
	s6 := p.out.String("                             |_|    " + version).Foreground(p.out.Color("#9a3412"))

	fmt.Fprintln(p.out)
	for _, s := range []termenv.Style{s1, s2, s3, s4, s5, s6} {
		fmt.Fprintln(p.out, s)
	}
	fmt.Fprintln(p.out)
}
