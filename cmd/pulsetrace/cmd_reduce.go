package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/pulsetrace/pulseset"
	"github.com/katalvlaran/pulsetrace/trace"
)

// addTraceFlags registers the ingestion flags shared by trace commands.
func addTraceFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("skip-malformed", false, "Drop malformed records instead of aborting")
	cmd.Flags().Float64("override-wavelength", 0, "Force every pulse onto this wavelength (m)")
	cmd.Flags().Int("max-steps", 0, "Abort reduction after this many combine steps (0 = unlimited)")
}

// loadTrace reads path with the ingestion settings from config and flags,
// and returns an unreduced set drawing ids from the trace's generator.
func loadTrace(cmd *cobra.Command, e *env, path string) (*trace.Result, *pulseset.Set, error) {
	skip := e.cfg.Analysis.SkipMalformed
	if cmd.Flags().Changed("skip-malformed") {
		skip, _ = cmd.Flags().GetBool("skip-malformed")
	}
	override := e.cfg.Analysis.OverrideWavelength
	if cmd.Flags().Changed("override-wavelength") {
		override, _ = cmd.Flags().GetFloat64("override-wavelength")
	}
	maxSteps := e.cfg.Analysis.MaxSteps
	if cmd.Flags().Changed("max-steps") {
		maxSteps, _ = cmd.Flags().GetInt("max-steps")
	}

	opts := []trace.Option{trace.WithLogger(e.log)}
	if skip {
		opts = append(opts, trace.WithPolicy(trace.Skip))
	}
	if override > 0 {
		opts = append(opts, trace.WithWavelengthOverride(override))
	}
	res, err := trace.ReadFile(path, opts...)
	if err != nil {
		return nil, nil, err
	}
	if res.Skipped > 0 {
		e.log.Warn("malformed records skipped", "path", path, "skipped", res.Skipped)
	}

	setOpts := []pulseset.Option{pulseset.WithLogger(e.log)}
	if maxSteps > 0 {
		setOpts = append(setOpts, pulseset.WithMaxSteps(maxSteps))
	}

	return res, res.Set(setOpts...), nil
}

// reduceLogged reduces set and appends a run record to the run log.
func reduceLogged(e *env, path string, set *pulseset.Set) error {
	start := time.Now()
	err := set.Reduce()
	event := map[string]any{
		"trace":      path,
		"elapsed_ms": time.Since(start).Milliseconds(),
	}
	if err != nil {
		event["error"] = err.Error()
	} else {
		st := set.Stats()
		event["input"], event["output"], event["combines"] = st.Input, st.Output, st.Combines
	}
	e.runs.Log(event)

	return err
}

func newReduceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reduce <trace.csv>",
		Short: "Merge overlapping pulses into a non-overlapping trace",
		Long: `Read a detector trace, replace every temporal overlap with its coherent
sum and write the reduced pulses as a trace CSV (stdout by default).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			res, set, err := loadTrace(cmd, e, args[0])
			if err != nil {
				return err
			}
			if err := reduceLogged(e, args[0], set); err != nil {
				return err
			}
			energy, err := set.Energy()
			if err != nil {
				return err
			}

			output, _ := cmd.Flags().GetString("output")
			if output != "" {
				if err := trace.WriteFile(output, set.Pulses()); err != nil {
					return fmt.Errorf("failed to write %s: %w", output, err)
				}
			}

			st := set.Stats()
			switch {
			case e.json:
				return e.emit(map[string]any{
					"records":  res.Records,
					"skipped":  res.Skipped,
					"input":    st.Input,
					"output":   st.Output,
					"combines": st.Combines,
					"energy":   energy,
					"pulses":   set.Pulses(),
				})
			case output == "":
				return trace.Write(e.out, set.Pulses())
			default:
				fmt.Fprintf(e.out, "%d pulses -> %d pulses (%d combines), %g J, written to %s\n",
					st.Input, st.Output, st.Combines, energy, output)
				return nil
			}
		},
	}
	addTraceFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "Write the reduced trace to this file")

	return cmd
}

func newEnergyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "energy <trace.csv>...",
		Short: "Total optical energy of one or more traces",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			type row struct {
				Trace  string  `json:"trace"`
				Pulses int     `json:"pulses"`
				Energy float64 `json:"energy"`
			}
			rows := make([]row, 0, len(args))
			for _, path := range args {
				_, set, err := loadTrace(cmd, e, path)
				if err != nil {
					return err
				}
				if err := reduceLogged(e, path, set); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				energy, err := set.Energy()
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				rows = append(rows, row{Trace: path, Pulses: set.Len(), Energy: energy})
			}

			if e.json {
				return e.emit(rows)
			}
			for _, r := range rows {
				fmt.Fprintf(e.out, "%s\t%d pulses\t%s\n", r.Trace, r.Pulses, formatEnergy(r.Energy))
			}
			return nil
		},
	}
	addTraceFlags(cmd)

	return cmd
}

// formatEnergy prints joules with an SI prefix.
func formatEnergy(j float64) string {
	return humanize.SIWithDigits(j, 4, "J")
}
