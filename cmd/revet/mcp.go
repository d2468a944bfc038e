package main

import (
	"revet/internal/mcp"

	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the review engine to AI assistants over MCP (stdio)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Probing happens here, before the server accepts requests,
		// so the availability table is read-only for the whole session.
		reviewer, err := newReviewer(true)
		if err != nil {
			return err
		}

		srv := mcp.NewServer(cfg, appLogger, reviewer)
		defer srv.Stop()
		return srv.Start()
	},
}
