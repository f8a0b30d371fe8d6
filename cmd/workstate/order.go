package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newOrderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "order [dir]",
		Short: "List each scope's states in traversal order",
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

			ordered := m.OrderedStates()
			out := cmd.OutOrStdout()
			for _, s := range m.Scopes {
				fmt.Fprintf(out, "%s:\n", s.Name())
				for _, id := range ordered[s.Name()] {
					fmt.Fprintf(out, "  %s\n", id)
				}
			}
			return nil
		},
	}
}
