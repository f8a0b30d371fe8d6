package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	render "github.com/grigi/workstate/internal/presentation/graph"
	"github.com/grigi/workstate/pkg/graph"
)

func newGraphCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph [dir]",
		Short: "Export the model graph",
		Long: `Exports the model as DOT, Mermaid, JSON, or as PNG/SVG through Graphviz.
Broken models are drawn scope by scope with unreachable states highlighted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatName, _ := cmd.Flags().GetString("format")
			outPath, _ := cmd.Flags().GetString("out")
			scopeName, _ := cmd.Flags().GetString("scope")
			triggers, _ := cmd.Flags().GetBool("triggers")

			format, err := render.ParseFormat(formatName)
			if err != nil {
				return err
			}
			if format.IsImage() && outPath == "" {
				return fmt.Errorf("--out is required for %s output", format)
			}

			ws, err := a.workstate(cmd, args, nil)
			if err != nil {
				return err
			}
			m, err := ws.Load(cmd.Context())
			if err != nil {
				return err
			}

			var g *graph.Graph
			var overlay *render.Overlay
			if scopeName != "" {
				s := findScope(m.Scopes, scopeName)
				if s == nil {
					return fmt.Errorf("scope %q is not part of the model", scopeName)
				}
				opts := []graph.Option{graph.WithAllStates()}
				if triggers {
					opts = append(opts, graph.WithTriggerEdges())
				}
				g = graph.FromScope(s, opts...)
			} else {
				g = m.DraftGraph()
			}
			if !m.Valid() {
				a.logger.Warn("drawing a broken model", "error", m.Err)
				overlay = &render.Overlay{Unreachable: m.Unreachable()}
			}

			data, err := render.Render(cmd.Context(), g, format, overlay)
			if err != nil {
				return err
			}
			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(outPath, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outPath, err)
			}
			a.logger.Info("graph written", "path", outPath, "format", format)
			return nil
		},
	}

	cmd.Flags().StringP("format", "f", string(render.FormatDOT), "Output format: dot, mermaid, json, png or svg")
	cmd.Flags().StringP("out", "o", "", "Write to file instead of stdout")
	cmd.Flags().String("scope", "", "Draw a single scope")
	cmd.Flags().Bool("triggers", false, "Include trigger edges when drawing a single scope")
	return cmd
}
