// Package graph renders edge documents as Graphviz DOT or Mermaid text and
// merges per-seed DOT documents into one.
package graph

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"

	"github.com/aretw0/txgraph/pkg/edges"
)

const (
	header = "digraph {\n"
	layout = "rankdir=LR;\n"
	footer = "}\n"
)

var edgeLineRe = regexp.MustCompile(`^"((?:[^"\\]|\\.)*)" -> "((?:[^"\\]|\\.)*)"(?: \[label="((?:[^"\\]|\\.)*)" decorate=false\])?;$`)

// EdgeLine renders one edge statement without the trailing newline.
func EdgeLine(e edges.Edge) string {
	line := `"` + escape(e.Payer) + `" -> "` + escape(e.Recipient) + `"`
	if e.Annotation != "" {
		line += ` [label="` + escape(e.Annotation) + `" decorate=false]`
	}
	return line + ";"
}

// GenerateDOT renders a document as a left-to-right directed graph.
func GenerateDOT(doc *edges.Document) string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString(layout)
	if doc != nil {
		for _, e := range doc.Edges {
			sb.WriteString(EdgeLine(e))
			sb.WriteString("\n")
		}
	}
	sb.WriteString(footer)
	return sb.String()
}

// ParseDOT extracts the edges of a document produced by GenerateDOT or Merge.
// Structural lines (header, layout, highlight block, footer) are ignored.
func ParseDOT(text string) ([]edges.Edge, error) {
	var out []edges.Edge
	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if !isEdgeLine(line) {
			continue
		}
		m := edgeLineRe.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("line %d: malformed edge statement %q", lineNo, line)
		}
		out = append(out, edges.Edge{
			Payer:      unescape(m[1]),
			Recipient:  unescape(m[2]),
			Annotation: unescape(m[3]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func isEdgeLine(line string) bool {
	return strings.HasPrefix(line, `"`) && strings.Contains(line, " -> ")
}

// escape quotes a string for a DOT double-quoted ID. The annotation separator
// \n is kept as a line break; any other backslash is doubled. Raw newlines and
// carriage returns become the \l and \r line-break escapes so every statement
// stays on one line.
func escape(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			if strings.HasPrefix(s[i:], edges.Separator) {
				sb.WriteString(edges.Separator)
				i += len(edges.Separator) - 1
				continue
			}
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\l`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// unescape reverses escape.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch next := s[i]; next {
		case '\\', '"':
			sb.WriteByte(next)
		case 'l':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		default:
			sb.WriteByte('\\')
			sb.WriteByte(next)
		}
	}
	return sb.String()
}
