package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grigi/workstate"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of workstate",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "workstate version %s\n", workstate.Version)
		},
	}
}
