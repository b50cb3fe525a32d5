package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/pulsetrace/export"
	"github.com/katalvlaran/pulsetrace/vcd"
)

var errNoTable = errors.New("dump has no such table")

// tableSummary is the listing view of one extracted table.
type tableSummary struct {
	Name    string   `json:"name"`
	Domain  string   `json:"domain"`
	Rows    int      `json:"rows"`
	Columns []string `json:"columns"`
}

func summarize(name string, t *vcd.Table) *tableSummary {
	if t == nil {
		return nil
	}
	return &tableSummary{Name: name, Domain: t.Domain.String(), Rows: t.Len(), Columns: t.Columns}
}

// summarizeDump prints the probe and detector tables found in path.
func summarizeDump(e *env, path string) error {
	dump, err := vcd.ParseFile(path)
	if err != nil {
		return err
	}
	tables, err := dump.Extract()
	if err != nil {
		return err
	}

	var out []*tableSummary
	for _, s := range []*tableSummary{
		summarize("probes", tables.Probes),
		summarize("detectors", tables.Detectors),
	} {
		if s != nil {
			out = append(out, s)
		}
	}
	if e.json {
		return e.emit(map[string]any{
			"timescale": dump.Timescale,
			"end_tick":  dump.EndTick,
			"sweep":     tables.WavelengthSweep(),
			"tables":    out,
		})
	}

	fmt.Fprintf(e.out, "%s: timescale %gs, %d ticks", path, dump.Timescale, dump.EndTick)
	if tables.WavelengthSweep() {
		fmt.Fprint(e.out, ", wavelength sweep")
	}
	fmt.Fprintln(e.out)
	for _, s := range out {
		fmt.Fprintf(e.out, "  %s (%s, %d rows)\n", s.Name, s.Domain, s.Rows)
		for _, c := range s.Columns {
			fmt.Fprintf(e.out, "    %s\n", c)
		}
	}
	return nil
}

func newVCDCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vcd <dump.vcd>",
		Short: "Inspect a simulator VCD dump",
		Long: `List the probe and detector tables in a VCD dump produced by the
simulator. With --column, export that column as a waveform instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			column, _ := cmd.Flags().GetString("column")
			if column == "" {
				return summarizeDump(e, args[0])
			}

			dump, err := vcd.ParseFile(args[0])
			if err != nil {
				return err
			}
			tables, err := dump.Extract()
			if err != nil {
				return err
			}
			which, _ := cmd.Flags().GetString("table")
			t := tables.Detectors
			if which == "probes" {
				t = tables.Probes
			}
			if t == nil {
				return fmt.Errorf("%w: %s", errNoTable, which)
			}
			wf, err := t.Waveform(column)
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
			meta := export.Meta{
				"dump":   args[0],
				"column": column,
				"domain": t.Domain.String(),
				"rows":   strconv.Itoa(t.Len()),
			}
			return writeWaveform(e.out, output, format, wf, meta)
		},
	}
	cmd.Flags().String("table", "detectors", "Table to export from: detectors or probes")
	cmd.Flags().StringP("column", "c", "", "Column to export as a waveform")
	cmd.Flags().StringP("format", "f", "", "Output format (default from config)")
	cmd.Flags().StringP("output", "o", "", "Output file (default stdout)")

	return cmd
}
