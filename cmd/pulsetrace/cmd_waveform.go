package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/pulsetrace/export"
	"github.com/katalvlaran/pulsetrace/waveform"
)

func newWaveformCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "waveform <trace.csv>",
		Short: "Render the power waveform of a trace",
		Long: `Reduce a trace and export its power waveform, either sampled on a
uniform grid (default) or as the exact step polyline (--steps).

Formats: ` + strings.Join(export.Formats(), ", "),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			_, set, err := loadTrace(cmd, e, args[0])
			if err != nil {
				return err
			}
			if err := reduceLogged(e, args[0], set); err != nil {
				return err
			}

			steps, _ := cmd.Flags().GetBool("steps")
			dt := e.cfg.Analysis.DT
			if cmd.Flags().Changed("dt") {
				dt, _ = cmd.Flags().GetFloat64("dt")
			}
			tmax := e.cfg.Analysis.TMax
			if cmd.Flags().Changed("tmax") {
				tmax, _ = cmd.Flags().GetFloat64("tmax")
			}

			var wf waveform.Waveform
			meta := export.Meta{"trace": args[0]}
			if steps {
				wf, err = waveform.Steps(set)
				meta["mode"] = "steps"
			} else {
				var opts []waveform.Option
				if tmax > 0 {
					opts = append(opts, waveform.WithTMax(tmax))
				}
				wf, err = waveform.Sampled(set, dt, opts...)
				meta["mode"] = "sampled"
				meta["dt"] = strconv.FormatFloat(dt, 'g', -1, 64)
			}
			if err != nil {
				return err
			}

			format := e.cfg.Export.Format
			if cmd.Flags().Changed("format") {
				format, _ = cmd.Flags().GetString("format")
			}
			if e.json {
				format = "json"
			}

			output, _ := cmd.Flags().GetString("output")
			return writeWaveform(e.out, output, format, wf, meta)
		},
	}
	addTraceFlags(cmd)
	cmd.Flags().Float64("dt", 0, "Sample step in seconds (default from config)")
	cmd.Flags().Float64("tmax", 0, "Sampling horizon in seconds (default end of last pulse)")
	cmd.Flags().Bool("steps", false, "Export the exact step polyline instead of samples")
	cmd.Flags().StringP("format", "f", "", "Output format (default from config)")
	cmd.Flags().StringP("output", "o", "", "Output file (default stdout)")

	return cmd
}

// writeWaveform exports wf to path, or to stdout when path is empty.
// A closed stdout (e.g. piped into head) is not an error.
func writeWaveform(stdout io.Writer, path, format string, wf waveform.Waveform, meta export.Meta) (err error) {
	w := stdout
	if path != "" {
		f, cerr := os.Create(path)
		if cerr != nil {
			return fmt.Errorf("failed to create %s: %w", path, cerr)
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}

	err = export.Write(format, w, wf, meta)
	if err != nil && path == "" && export.IsBrokenPipe(err) {
		return nil
	}
	return err
}

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <a.csv> <b.csv>",
		Short: "Compare the power waveforms of two traces",
		Long: `Reduce both traces, resample their step waveforms on a common grid and
report the maximum and RMS difference, both energies and the DTW distance.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			var wfs [2]waveform.Waveform
			for i, path := range args {
				_, set, err := loadTrace(cmd, e, path)
				if err != nil {
					return err
				}
				if err := reduceLogged(e, path, set); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if wfs[i], err = waveform.Steps(set); err != nil {
					return err
				}
			}

			opts := waveform.CompareOptions{Step: e.cfg.Analysis.DT, TMax: e.cfg.Analysis.TMax}
			if cmd.Flags().Changed("dt") {
				opts.Step, _ = cmd.Flags().GetFloat64("dt")
			}
			if cmd.Flags().Changed("tmax") {
				opts.TMax, _ = cmd.Flags().GetFloat64("tmax")
			}
			opts.Window, _ = cmd.Flags().GetInt("window")

			cmp, err := waveform.Compare(wfs[0], wfs[1], opts)
			if err != nil {
				return err
			}
			if e.json {
				return e.emit(cmp)
			}
			fmt.Fprintf(e.out, "samples:   %d\n", cmp.Samples)
			fmt.Fprintf(e.out, "max |Δ|:   %g W\n", cmp.MaxAbsDiff)
			fmt.Fprintf(e.out, "rms Δ:     %g W\n", cmp.RMSDiff)
			fmt.Fprintf(e.out, "energy a:  %s\n", formatEnergy(cmp.EnergyA))
			fmt.Fprintf(e.out, "energy b:  %s\n", formatEnergy(cmp.EnergyB))
			fmt.Fprintf(e.out, "dtw:       %g\n", cmp.DTWDistance)
			return nil
		},
	}
	addTraceFlags(cmd)
	cmd.Flags().Float64("dt", 0, "Resampling step in seconds (default from config)")
	cmd.Flags().Float64("tmax", 0, "Common horizon in seconds (default later waveform end)")
	cmd.Flags().Int("window", 0, "Sakoe-Chiba band for DTW, in samples (0 = none)")

	return cmd
}
