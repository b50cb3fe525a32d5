package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/pulsetrace/simulator"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate [netlist.cir]",
		Short: "Run the SPECS simulator",
		Long: `Run the SPECS simulator on a netlist with the configured tolerances.
Extra simulator options are passed with --set key=value and --flag key;
they override -o/--abstol/--reltol when they name the same key.

With --summary the resulting VCD dump is parsed and its probe and
detector tables are summarized.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			cfg := simulator.DefaultConfig()
			cfg.Dir = e.cfg.Simulator.Dir
			cfg.Output = e.cfg.Simulator.Output
			cfg.AbsTol = e.cfg.Simulator.AbsTol
			cfg.RelTol = e.cfg.Simulator.RelTol
			cfg.Logger = e.log
			cfg.Echo = cmd.ErrOrStderr()
			if len(args) == 1 {
				cfg.Netlist = args[0]
			}
			if cmd.Flags().Changed("output") {
				cfg.Output, _ = cmd.Flags().GetString("output")
			}
			if cmd.Flags().Changed("abstol") {
				cfg.AbsTol, _ = cmd.Flags().GetFloat64("abstol")
			}
			if cmd.Flags().Changed("reltol") {
				cfg.RelTol, _ = cmd.Flags().GetFloat64("reltol")
			}
			cfg.Verbose, _ = cmd.Flags().GetBool("verbose")

			sets, _ := cmd.Flags().GetStringArray("set")
			flags, _ := cmd.Flags().GetStringArray("flag")
			custom, err := parseCustomArgs(sets, flags)
			if err != nil {
				return err
			}
			cfg.Custom = custom

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			res, err := simulator.Run(ctx, cfg)
			if res != nil {
				e.runs.Log(map[string]any{
					"simulate":   res.Command,
					"exit_code":  res.ExitCode,
					"elapsed_ms": res.Elapsed.Milliseconds(),
				})
			}
			if err != nil {
				return err
			}

			if e.json {
				return e.emit(map[string]any{
					"command":    res.Command,
					"exit_code":  res.ExitCode,
					"elapsed_ms": res.Elapsed.Milliseconds(),
					"output":     cfg.Output,
				})
			}
			fmt.Fprintf(e.out, "simulation finished in %s, dump at %s\n",
				res.Elapsed.Round(time.Millisecond), filepath.Join(cfg.Dir, cfg.Output))

			if summary, _ := cmd.Flags().GetBool("summary"); summary {
				return summarizeDump(e, filepath.Join(cfg.Dir, cfg.Output))
			}
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "", "VCD dump path (default from config)")
	cmd.Flags().Float64("abstol", 0, "Absolute tolerance (default from config)")
	cmd.Flags().Float64("reltol", 0, "Relative tolerance (default from config)")
	cmd.Flags().StringArray("set", nil, "Extra simulator option as key=value (repeatable)")
	cmd.Flags().StringArray("flag", nil, "Extra simulator switch without a value (repeatable)")
	cmd.Flags().Duration("timeout", 0, "Kill the simulator after this long (0 = no limit)")
	cmd.Flags().BoolP("verbose", "v", false, "Echo simulator output")
	cmd.Flags().Bool("summary", false, "Summarize the VCD dump after the run")

	return cmd
}

// parseCustomArgs turns --set and --flag values into simulator arguments.
func parseCustomArgs(sets, flags []string) ([]simulator.Arg, error) {
	var out []simulator.Arg
	for _, s := range sets {
		key, value, ok := strings.Cut(s, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: want key=value", s)
		}
		out = append(out, simulator.String(key, value))
	}
	for _, f := range flags {
		if f == "" {
			return nil, errors.New("invalid --flag: empty key")
		}
		out = append(out, simulator.Flag(f))
	}
	return out, nil
}

func newStimulusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stimulus",
		Short: "Generate a random value file for simulator sources",
		Long: `Draw a random bitstream, optionally XOR-encode it, pack it MSB-first
into width-bit values and write them space-separated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bits, _ := cmd.Flags().GetInt("bits")
			width, _ := cmd.Flags().GetInt("width")
			seed, _ := cmd.Flags().GetUint64("seed")
			xor, _ := cmd.Flags().GetBool("xor")
			pad, _ := cmd.Flags().GetUint8("pad")
			output, _ := cmd.Flags().GetString("output")
			if bits < 0 {
				return fmt.Errorf("invalid --bits %d", bits)
			}

			rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
			stream := simulator.Bitstream(rng, bits)
			if xor {
				stream = simulator.XOR(stream)
			}
			values, err := simulator.Values(stream, width, pad)
			if err != nil {
				return err
			}

			if output == "" {
				return simulator.WriteValues(cmd.OutOrStdout(), values)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			if err := simulator.WriteValues(f, values); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().Int("bits", 64, "Number of random bits")
	cmd.Flags().Int("width", 1, "Bits per value")
	cmd.Flags().Uint64("seed", 1, "Random seed")
	cmd.Flags().Bool("xor", false, "XOR-encode the bitstream")
	cmd.Flags().Uint8("pad", 0, "Bit used to complete a trailing partial value")
	cmd.Flags().StringP("output", "o", "", "Output file (default stdout)")

	return cmd
}
