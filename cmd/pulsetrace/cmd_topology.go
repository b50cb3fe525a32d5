package main

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/pulsetrace/topology"
)

func newTopologyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topology <circuit.json>",
		Short: "Summarize or render a circuit description",
		Long: `Validate a circuit description exported by the simulator, print its
nets, elements and connected components, and optionally render it as
a Graphviz DOT graph.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			c, err := topology.LoadFile(args[0])
			if err != nil {
				return err
			}
			if err := c.Validate(); err != nil {
				return err
			}

			if dot, _ := cmd.Flags().GetString("dot"); dot != "" {
				if dot == "-" {
					return c.RenderDOT(e.out)
				}
				f, err := os.Create(dot)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", dot, err)
				}
				if err := c.RenderDOT(f); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				e.log.Info("graph written", "path", dot)
			}

			comps, err := c.Components(cmd.Context())
			if err != nil {
				return err
			}
			st := c.Stats()
			if e.json {
				return e.emit(map[string]any{
					"stats":      st,
					"components": comps,
				})
			}

			fmt.Fprintf(e.out, "nets:        %d\n", st.Nets)
			for _, typ := range slices.Sorted(maps.Keys(st.NetsByType)) {
				fmt.Fprintf(e.out, "  %-10s %d\n", typ, st.NetsByType[typ])
			}
			fmt.Fprintf(e.out, "elements:    %d\n", st.Elements)
			fmt.Fprintf(e.out, "connections: %d\n", st.Connections)
			fmt.Fprintf(e.out, "components:  %d\n", len(comps))
			for _, n := range st.Unconnected {
				fmt.Fprintf(e.out, "warning: net %s is not connected\n", n)
			}
			return nil
		},
	}
	cmd.Flags().String("dot", "", "Write a Graphviz DOT rendering to this file (- for stdout)")

	return cmd
}
