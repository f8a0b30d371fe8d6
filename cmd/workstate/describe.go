package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/grigi/workstate/internal/presentation/tui"
	"github.com/grigi/workstate/pkg/domain"
	"github.com/grigi/workstate/pkg/scope"
)

func newDescribeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe [dir]",
		Short: "Print a markdown reference of the model",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.workstate(cmd, args, nil)
			if err != nil {
				return err
			}
			m, err := ws.Load(cmd.Context())
			if err != nil {
				return err
			}

			md := tui.Describe(domain.Pretty(m.Name), m.Scopes)

			var out *os.File
			if f, ok := cmd.OutOrStdout().(*os.File); ok {
				out = f
			}
			rendered, err := tui.NewRenderer(out)(md)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		},
	}
}

func findScope(scopes []*scope.Scope, name string) *scope.Scope {
	for _, s := range scopes {
		if s.Name() == name {
			return s
		}
	}
	return nil
}
