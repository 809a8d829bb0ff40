package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)

	return func(markdown string) (string, error) {
		if err != nil {
			return markdown, err
		}
		return r.Render(markdown)
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// SeedResult is the outcome of one seed in a run.
type SeedResult struct {
	Seed   string
	Edges  int
	Path   string
	Status string
}

// Summary describes a finished run.
type Summary struct {
	RunID  string
	Seeds  []SeedResult
	Merged string
}

// Markdown renders the summary as a markdown document.
func (s Summary) Markdown() string {
	var sb strings.Builder
	sb.WriteString("# Run summary\n\n")
	if s.RunID != "" {
		sb.WriteString(fmt.Sprintf("Run `%s`\n\n", s.RunID))
	}
	if len(s.Seeds) > 0 {
		sb.WriteString("| Seed | Status | Edges | Document |\n")
		sb.WriteString("|---|---|---|---|\n")
		for _, r := range s.Seeds {
			path := r.Path
			if path == "" {
				path = "-"
			}
			sb.WriteString(fmt.Sprintf("| `%s` | %s | %d | %s |\n", r.Seed, r.Status, r.Edges, path))
		}
		sb.WriteString("\n")
	}
	if s.Merged != "" {
		sb.WriteString(fmt.Sprintf("Merged document: `%s`\n", s.Merged))
	}
	return sb.String()
}

// PrintSummary writes the summary to w, styled when pretty is set.
func PrintSummary(w io.Writer, s Summary, pretty bool) error {
	md := s.Markdown()
	if pretty {
		out, err := NewRenderer()(md)
		if err == nil {
			md = out
		}
	}
	_, err := io.WriteString(w, md)
	return err
}
