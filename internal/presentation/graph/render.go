package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/grigi/workstate/pkg/graph"
)

// Format names an output format of Render.
type Format string

const (
	FormatDOT     Format = "dot"
	FormatMermaid Format = "mermaid"
	FormatJSON    Format = "json"
	FormatPNG     Format = "png"
	FormatSVG     Format = "svg"
)

// Formats lists every supported format.
var Formats = []Format{FormatDOT, FormatMermaid, FormatJSON, FormatPNG, FormatSVG}

// ErrGraphvizNotFound is returned when image output is requested but the
// dot binary is not on PATH.
var ErrGraphvizNotFound = errors.New("graphviz 'dot' binary not found in PATH")

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported format %q (want one of dot, mermaid, json, png, svg)", s)
}

// IsImage reports whether the format is rendered by Graphviz.
func (f Format) IsImage() bool {
	return f == FormatPNG || f == FormatSVG
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatPNG:
		return "image/png"
	case FormatSVG:
		return "image/svg+xml"
	case FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Render produces g in the requested format.
func Render(ctx context.Context, g *graph.Graph, f Format, overlay *Overlay) ([]byte, error) {
	switch f {
	case FormatDOT:
		return []byte(GenerateDOT(g, overlay)), nil
	case FormatMermaid:
		return []byte(GenerateMermaid(g, overlay)), nil
	case FormatJSON:
		data, err := json.MarshalIndent(g, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal graph: %w", err)
		}
		return data, nil
	case FormatPNG, FormatSVG:
		return RenderImage(ctx, GenerateDOT(g, overlay), f)
	}
	return nil, fmt.Errorf("unsupported format %q", f)
}

// RenderImage pipes DOT source through the Graphviz dot binary.
func RenderImage(ctx context.Context, dot string, f Format) ([]byte, error) {
	if !f.IsImage() {
		return nil, fmt.Errorf("format %q is not an image format", f)
	}

	bin, err := exec.LookPath("dot")
	if err != nil {
		return nil, ErrGraphvizNotFound
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-T"+string(f))
	cmd.Stdin = strings.NewReader(dot)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("dot failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
