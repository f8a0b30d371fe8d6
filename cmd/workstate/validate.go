package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grigi/workstate/internal/presentation/tui"
	"github.com/grigi/workstate/internal/validator"
	"github.com/grigi/workstate/pkg/domain"
)

func newValidateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [dir]",
		Short: "Check the model for consistency",
		Long: `Builds every scope, merges them into an engine and reports transitions
no event can fire, empty events and states unreachable from the initial state.
Lint findings are listed too; with --strict, warnings fail the check.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			strict, _ := cmd.Flags().GetBool("strict")

			ws, err := a.workstate(cmd, args, nil)
			if err != nil {
				return err
			}
			m, err := ws.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if !m.Valid() {
				fmt.Fprintln(out, tui.Failure(fmt.Sprintf("%s is broken [%s]: %v", m.Name, domain.CodeOf(m.Err), m.Err)))
				return fmt.Errorf("validation failed: %w", m.Err)
			}

			findings := validator.Lint(m.Engine.Registries())
			for _, f := range findings {
				fmt.Fprintln(out, "  "+f.String())
			}
			if strict {
				if err := validator.Check(findings); err != nil {
					fmt.Fprintln(out, tui.Failure(fmt.Sprintf("%s has lint warnings", m.Name)))
					return err
				}
			}
			fmt.Fprintln(out, tui.Success(fmt.Sprintf("%s is valid (%d scopes)", m.Name, len(m.Scopes))))
			return nil
		},
	}
	cmd.Flags().Bool("strict", false, "Fail on lint warnings")
	return cmd
}
