package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newSnapshotCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot [dir]",
		Short: "Record the model in the snapshot store",
		Long: `Validates the model and saves its export under a name in the configured
store (memory, file or redis). Broken models are recorded with their error.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			list, _ := cmd.Flags().GetBool("list")

			store, closeStore, err := a.cfg.OpenStore()
			if err != nil {
				return err
			}
			defer closeStore()

			if list {
				names, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				for _, n := range names {
					fmt.Fprintln(cmd.OutOrStdout(), n)
				}
				return nil
			}

			ws, err := a.workstate(cmd, args, store)
			if err != nil {
				return err
			}
			snap, err := ws.Snapshot(cmd.Context(), name)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		},
	}
	cmd.Flags().String("name", "", "Snapshot name (default: model name)")
	cmd.Flags().Bool("list", false, "List stored snapshots instead")
	return cmd
}
