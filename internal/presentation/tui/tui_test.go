package tui_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/aretw0/txgraph/internal/presentation/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary_Markdown(t *testing.T) {
	s := tui.Summary{
		RunID: "run-1",
		Seeds: []tui.SeedResult{
			{Seed: "S1", Status: "ok", Edges: 3, Path: "data/S1.dot"},
			{Seed: "S2", Status: "empty"},
		},
		Merged: "data/merged-20240101-000000.dot",
	}

	md := s.Markdown()
	assert.Contains(t, md, "Run `run-1`")
	assert.Contains(t, md, "| `S1` | ok | 3 | data/S1.dot |")
	assert.Contains(t, md, "| `S2` | empty | 0 | - |")
	assert.Contains(t, md, "Merged document: `data/merged-20240101-000000.dot`")
}

func TestPrintSummary_Plain(t *testing.T) {
	var buf bytes.Buffer
	s := tui.Summary{Seeds: []tui.SeedResult{{Seed: "S1", Status: "ok"}}}
	require.NoError(t, tui.PrintSummary(&buf, s, false))
	assert.Equal(t, s.Markdown(), buf.String())
}

func TestPrinter_PlainOutput(t *testing.T) {
	var buf bytes.Buffer
	p := tui.NewPrinter(&buf)

	p.Warn("skipping %s", "bad")
	p.Error(errors.New("boom"))

	assert.Contains(t, buf.String(), "warning: skipping bad")
	assert.Contains(t, buf.String(), "error: boom")
}
