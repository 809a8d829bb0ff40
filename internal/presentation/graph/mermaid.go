package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/txgraph/pkg/edges"
)

// MermaidOverlay marks nodes for styling in a Mermaid rendering.
type MermaidOverlay struct {
	Seeds []string
}

// GenerateMermaid renders a document as a left-to-right Mermaid flowchart.
// Annotations become edge labels with the DOT line break turned into <br/>.
func GenerateMermaid(doc *edges.Document, overlay *MermaidOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	declared := make(map[string]bool)
	declare := func(addr string) string {
		id := sanitizeMermaidID(addr)
		if !declared[id] {
			declared[id] = true
			sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", id, addr))
		}
		return id
	}

	if doc != nil {
		for _, e := range doc.Edges {
			from := declare(e.Payer)
			to := declare(e.Recipient)

			arrow := "-->"
			if e.Annotation != "" {
				label := strings.ReplaceAll(e.Annotation, edges.Separator, "<br/>")
				// Escape double quotes for Mermaid labels
				label = strings.ReplaceAll(label, "\"", "'")
				arrow = fmt.Sprintf("-- \"%s\" -->", label)
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", from, arrow, to))
		}
	}

	if overlay != nil && len(overlay.Seeds) > 0 {
		sb.WriteString("\n    %% Seed Styles\n")
		// Force black text (color:#000) for contrast regardless of theme
		sb.WriteString("    classDef seed fill:#ffeb3b,stroke:#fbc02d,stroke-width:2px,color:#000;\n")

		styled := make(map[string]bool)
		for _, s := range overlay.Seeds {
			id := sanitizeMermaidID(s)
			if id != "" && !styled[id] {
				styled[id] = true
				sb.WriteString(fmt.Sprintf("    class %s seed;\n", id))
			}
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
