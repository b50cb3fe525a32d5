package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/pulsetrace/internal/config"
	"github.com/katalvlaran/pulsetrace/internal/logging"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pulsetrace",
		Short: "Coherent pulse-overlap reduction for photonic detector traces",
		Long: `pulsetrace ingests detector traces from the SPECS photonic event
simulator, merges temporally overlapping optical pulses by coherent
summation and renders or exports the resulting power waveforms.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for agent consumption)")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.pulsetrace/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: error, warn, info, debug, trace")

	rootCmd.AddCommand(
		newVersionCmd(),
		newReduceCmd(),
		newEnergyCmd(),
		newWaveformCmd(),
		newCompareCmd(),
		newSimulateCmd(),
		newStimulusCmd(),
		newVCDCmd(),
		newTopologyCmd(),
		newSnapshotCmd(),
		newMCPServerCmd(),
	)

	return rootCmd
}

// env is what every command needs from the global flags.
type env struct {
	cfg  *config.Config
	log  *slog.Logger
	runs *logging.RunLogger
	json bool
	out  io.Writer
}

// Close releases the run log.
func (e *env) Close() { e.runs.Close() }

// loadEnv resolves configuration and loggers for cmd.
func loadEnv(cmd *cobra.Command) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	jsonOut, _ := cmd.Flags().GetBool("json")
	level, _ := cmd.Flags().GetString("log-level")

	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if level != "" {
		cfg.Logging.Level = level
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &env{
		cfg:  cfg,
		log:  logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr()),
		runs: logging.NewRunLogger(cfg.RunDir(), cfg.Logging.Level),
		json: jsonOut,
		out:  cmd.OutOrStdout(),
	}, nil
}

// emit prints v as indented JSON.
func (e *env) emit(v any) error {
	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{"version": version})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pulsetrace version %s\n", version)
			return nil
		},
	}
}
