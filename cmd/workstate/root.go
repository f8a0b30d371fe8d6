package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/grigi/workstate"
	"github.com/grigi/workstate/internal/config"
	"github.com/grigi/workstate/internal/logging"
	"github.com/grigi/workstate/pkg/ports"
)

// app carries settings resolved before any subcommand runs.
type app struct {
	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "workstate",
		Short: "Workstate checks and draws declarative state models",
		Long: `Workstate reads scopes of states, transitions, events and triggers,
checks that the combined model is sound and exports it as a graph.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", "", "Directory containing the model (default $WORKSTATE_DIR or .)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("store", "", "Snapshot store: memory, file or redis")

	rootCmd.AddCommand(
		newValidateCmd(a),
		newGraphCmd(a),
		newDescribeCmd(a),
		newOrderCmd(a),
		newSnapshotCmd(a),
		newServeCmd(a),
		newMCPCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("dir"); v != "" {
		cfg.Dir = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v, _ := cmd.Flags().GetString("store"); v != "" {
		cfg.Store = v
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.NewWriter(cmd.ErrOrStderr(), level)
	return nil
}

// dir picks the model directory: a positional argument wins unless --dir
// was given explicitly.
func (a *app) dir(cmd *cobra.Command, args []string) string {
	if !cmd.Flags().Changed("dir") && len(args) > 0 {
		return args[0]
	}
	return a.cfg.Dir
}

func (a *app) workstate(cmd *cobra.Command, args []string, store ports.SnapshotStore) (*workstate.Workstate, error) {
	opts := []workstate.Option{workstate.WithLogger(a.logger)}
	if store != nil {
		opts = append(opts, workstate.WithStore(store))
	}
	ws, err := workstate.New(a.dir(cmd, args), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize workstate: %w", err)
	}
	return ws, nil
}
