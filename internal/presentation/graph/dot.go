package graph

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/grigi/workstate/pkg/graph"
)

// Palette used for clusters; index 0 is the single-scope color.
var (
	FGColors = []string{"#333333", "#1b9e77", "#d95f02", "#7570b3", "#e7298a", "#66a61e", "#e6ab02", "#a6761d"}
	BGColors = []string{"#dddddd", "#b3e2cd", "#fdcdac", "#cbd5e8", "#f4cae4", "#e6f5c9", "#fff2ae", "#f1e2cc"}
)

const (
	unreachableFG = "#e41a1c"
	unreachableBG = "#fbb4ae"
)

// GenerateDOT produces a Graphviz digraph with one cluster per scope.
func GenerateDOT(g *graph.Graph, overlay *Overlay) string {
	unreachable := make(map[string]bool)
	if overlay != nil {
		for _, id := range overlay.Unreachable {
			unreachable[id] = true
		}
	}

	color := make(map[string]int)
	for _, c := range g.Clusters {
		for _, n := range c.Nodes {
			color[n.ID] = c.Color
		}
	}

	var sb strings.Builder
	sb.WriteString("digraph {\nrankdir=\"LR\"\ndpi=120\noverlap_shrink=true\noverlap=prism0\nsize=12\n")

	for i, c := range g.Clusters {
		fg, bg := paletteColor(c.Color)
		fmt.Fprintf(&sb, "subgraph cluster_%d {\n", i)
		fmt.Fprintf(&sb, "label=%s\n", dotQuote(c.Label))
		fmt.Fprintf(&sb, "color=%s\n", dotQuote(fg))

		for _, n := range c.Nodes {
			attrs := map[string]string{
				"fillcolor": bg,
				"color":     fg,
			}
			switch {
			case n.Wildcard:
				attrs["shape"] = "none"
				attrs["style"] = "filled"
			case n.Initial:
				attrs["shape"] = "oval"
				attrs["rank"] = "max"
				attrs["style"] = "bold,filled"
			default:
				attrs["shape"] = "rectangle"
				attrs["style"] = "filled,rounded"
			}
			if unreachable[n.ID] {
				attrs["fillcolor"] = unreachableBG
				attrs["color"] = unreachableFG
			}
			if n.Doc != "" {
				attrs["tooltip"] = n.Doc
			}
			fmt.Fprintf(&sb, "\t%s%s\n", dotQuote(n.ID), dotAttributes(html.EscapeString(n.Label), attrs))
		}
		sb.WriteString("}\n")
	}

	for _, e := range g.Edges {
		fg, _ := paletteColor(color[e.To])
		attrs := map[string]string{"color": fg}

		var label string
		switch {
		case e.TriggerDerived:
			label = `<FONT POINT-SIZE="10">` + html.EscapeString(e.Label) + `</FONT>`
			attrs["style"] = "dotted"
		case e.Untriggered:
			attrs["style"] = "dotted"
		default:
			label = html.EscapeString(e.Label)
			if e.Trigger != "" {
				label += ` <SUP><FONT POINT-SIZE="10">(` + html.EscapeString(e.Trigger) + `)</FONT></SUP>`
			}
			attrs["style"] = "solid"
			if e.Conditional {
				attrs["style"] = "dashed"
			}
		}
		fmt.Fprintf(&sb, "\t\t%s -> %s%s\n", dotQuote(e.From), dotQuote(e.To), dotAttributes(label, attrs))
	}

	sb.WriteString("}\n")
	return sb.String()
}

func paletteColor(i int) (fg, bg string) {
	i %= len(FGColors)
	if i < 0 {
		i = 0
	}
	return FGColors[i], BGColors[i]
}

// dotAttributes renders an HTML label followed by sorted key="value" pairs.
func dotAttributes(label string, attrs map[string]string) string {
	var parts []string
	if label != "" {
		parts = append(parts, "label=<"+label+">")
	}

	keys := make([]string, 0, len(attrs))
	for k, v := range attrs {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, k+"="+dotQuote(attrs[k]))
	}

	if len(parts) == 0 {
		return ""
	}
	return " [" + strings.Join(parts, " ") + "]"
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func dotQuote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}
