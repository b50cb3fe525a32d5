package main

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/pulsetrace/internal/mcpserver"
)

func newMCPServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Serve pulsetrace tools over MCP (stdio)",
		Long: `Run an MCP server on stdin/stdout exposing the reduce, energy,
waveform and topology tools to AI agents.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			srv := mcpserver.NewServer(&mcpserver.Config{
				Name:     "pulsetrace",
				Version:  version,
				Settings: e.cfg,
				Logger:   e.log,
			})
			return srv.Run(cmd.Context())
		},
	}
}
