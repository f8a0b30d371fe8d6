package graph

import (
	"fmt"
	"strings"

	"github.com/grigi/workstate/pkg/graph"
)

// Overlay marks nodes with extra styling, such as the states a failed
// validation reported as unreachable.
type Overlay struct {
	Unreachable []string
}

// GenerateMermaid produces a Mermaid flowchart from a graph.
// It applies semantic styling:
// - Initial: (["Stadium"])
// - Wildcard source: >"Flag"]
// - Default: ("Rounded")
// Edges: solid with event label, dotted when conditional, --x when no
// event fires them, and ⚡ for edges derived from triggers.
func GenerateMermaid(g *graph.Graph, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("flowchart LR\n")

	for _, c := range g.Clusters {
		fmt.Fprintf(&sb, "    subgraph %s[\"%s\"]\n", sanitizeMermaidID(c.Scope), escapeMermaid(c.Label))
		for _, n := range c.Nodes {
			opener, closer := "(", ")"
			switch {
			case n.Initial:
				opener, closer = "([", "])"
			case n.Wildcard:
				opener, closer = ">", "]"
			}
			fmt.Fprintf(&sb, "        %s%s\"%s\"%s\n", sanitizeMermaidID(n.ID), opener, escapeMermaid(n.Label), closer)
		}
		sb.WriteString("    end\n")
	}

	for _, e := range g.Edges {
		from, to := sanitizeMermaidID(e.From), sanitizeMermaidID(e.To)
		label := escapeMermaid(edgeLabel(e))

		var arrow string
		switch {
		case e.TriggerDerived:
			arrow = fmt.Sprintf("-. \"⚡ %s\" .->", label)
		case e.Untriggered:
			arrow = "--x"
		case e.Conditional:
			arrow = fmt.Sprintf("-. \"%s\" .->", label)
		default:
			arrow = fmt.Sprintf("-- \"%s\" -->", label)
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", from, arrow, to)
	}

	if overlay != nil && len(overlay.Unreachable) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast regardless of theme.
		sb.WriteString("    classDef unreachable fill:#fbb4ae,stroke:#e41a1c,stroke-width:2px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.Unreachable {
			safeID := sanitizeMermaidID(id)
			if !seen[safeID] && safeID != "" {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s unreachable;\n", safeID)
			}
		}
	}

	return sb.String()
}

// edgeLabel is the plain-text label shared by text renderers.
func edgeLabel(e graph.Edge) string {
	if e.TriggerDerived || e.Trigger == "" {
		return e.Label
	}
	return fmt.Sprintf("%s (%s)", e.Label, e.Trigger)
}

func escapeMermaid(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

var mermaidReplacer = strings.NewReplacer(
	":", "__",
	"*", "_any_",
	".", "_",
	"-", "_",
	"/", "_",
	"\\", "_",
	" ", "_",
)

func sanitizeMermaidID(id string) string {
	return mermaidReplacer.Replace(id)
}
