// Package process renders DOT documents by running an external Graphviz binary.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/txgraph/internal/logging"
)

// DefaultCommand is the Graphviz layout program.
const DefaultCommand = "dot"

// Formats is the allow-list of output formats passed to -T.
var Formats = []string{"svg", "png", "pdf"}

// ErrFormatNotAllowed is returned for formats outside Formats.
var ErrFormatNotAllowed = errors.New("render format not allowed")

// Runner executes the configured Graphviz command.
type Runner struct {
	command string
	args    []string
	logger  *slog.Logger
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithCommand replaces the Graphviz binary. args are placed before the
// -T, -o and input arguments.
func WithCommand(command string, args ...string) RunnerOption {
	return func(r *Runner) {
		if command != "" {
			r.command = command
			r.args = args
		}
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a new Graphviz runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		command: DefaultCommand,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OutputPath returns where Render writes the rendering of dotPath.
func OutputPath(dotPath, format string) string {
	return strings.TrimSuffix(dotPath, filepath.Ext(dotPath)) + "." + format
}

// Render converts the DOT file at dotPath into format next to it and
// returns the output path.
func (r *Runner) Render(ctx context.Context, dotPath, format string) (string, error) {
	if !slices.Contains(Formats, format) {
		return "", fmt.Errorf("%w: %q (want one of %s)", ErrFormatNotAllowed, format, strings.Join(Formats, ", "))
	}

	out := OutputPath(dotPath, format)
	args := append(slices.Clone(r.args), "-T"+format, "-o", out, dotPath)
	cmd := exec.CommandContext(ctx, r.command, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	r.logger.Debug("Rendering document", "command", r.command, "input", dotPath, "output", out)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s failed: %w: %s", r.command, err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}
