package graph

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Extension is the file extension of rendered DOT documents.
const Extension = ".dot"

// MergeOptions controls how per-seed documents are combined.
type MergeOptions struct {
	// Highlight fills every seed node.
	Highlight bool
	// Truncate keeps only edges with at least one seed endpoint.
	Truncate bool
}

// NamedDocument is the rendered DOT text of one seed.
type NamedDocument struct {
	Seed string
	Text string
}

var quotedRe = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"`)

// ShouldMerge reports whether a run produces a merged document.
func ShouldMerge(seedCount int, truncate bool) bool {
	return seedCount > 1 || truncate
}

// Merge combines per-seed documents into a single DOT document.
// Edge lines are deduplicated as written, in document order.
func Merge(docs []NamedDocument, seeds []string, opts MergeOptions) string {
	seedSet := make(map[string]struct{}, len(seeds))
	for _, s := range seeds {
		seedSet[s] = struct{}{}
	}

	var sb strings.Builder
	sb.WriteString(header)

	if opts.Highlight {
		sb.WriteString("{ node [style=filled]\n")
		written := make(map[string]struct{}, len(seeds))
		for _, s := range seeds {
			if _, ok := written[s]; ok {
				continue
			}
			written[s] = struct{}{}
			sb.WriteString(`"` + escape(s) + `" [fillcolor=yellow]` + "\n")
		}
		sb.WriteString("}\n")
	}

	sb.WriteString(layout)

	seen := make(map[string]struct{})
	for _, doc := range docs {
		for _, line := range EdgeLines(doc.Text) {
			if opts.Truncate && !touchesSeed(line, seedSet) {
				continue
			}
			if _, ok := seen[line]; ok {
				continue
			}
			seen[line] = struct{}{}
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}

	sb.WriteString(footer)
	return sb.String()
}

// EdgeLines returns the edge statements of a DOT document, trimmed.
func EdgeLines(text string) []string {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if isEdgeLine(line) {
			lines = append(lines, line)
		}
	}
	return lines
}

// Endpoints returns the first two quoted tokens of an edge line.
func Endpoints(line string) (payer, recipient string, ok bool) {
	m := quotedRe.FindAllStringSubmatch(line, 2)
	if len(m) < 2 {
		return "", "", false
	}
	return unescape(m[0][1]), unescape(m[1][1]), true
}

func touchesSeed(line string, seeds map[string]struct{}) bool {
	payer, recipient, ok := Endpoints(line)
	if !ok {
		return false
	}
	_, p := seeds[payer]
	_, r := seeds[recipient]
	return p || r
}

// DocumentPath returns the per-seed document path under dir.
func DocumentPath(dir, seed string) string {
	return filepath.Join(dir, seed+Extension)
}

// ReadDocuments loads the per-seed documents of seeds from dir, in seed order.
// Seeds whose document is missing or unreadable are skipped.
func ReadDocuments(dir string, seeds []string) []NamedDocument {
	docs := make([]NamedDocument, 0, len(seeds))
	for _, seed := range seeds {
		data, err := os.ReadFile(DocumentPath(dir, seed))
		if err != nil {
			continue
		}
		docs = append(docs, NamedDocument{Seed: seed, Text: string(data)})
	}
	return docs
}
