package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree. Running the root command without a
// subcommand serves MCP over stdio.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "wolfram-alpha-mcp",
		Short: "Wolfram Alpha query tool for MCP clients and Zeebe workflows",
		Args:  cobra.NoArgs,
		RunE:  runServe,
		// SilenceUsage prevents printing usage on every error
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "Path to config.yaml (default: ./configs/config.yaml)")
	root.PersistentFlags().String("log-level", "", "Override logging.level (debug, info, warn, error)")

	root.Version = version
	root.SetVersionTemplate(fmt.Sprintf("wolfram-alpha-mcp version %s\n", version))

	root.AddCommand(NewServeCmd())
	root.AddCommand(NewWorkerCmd())
	root.AddCommand(NewQueryCmd())
	root.AddCommand(NewDescribeCmd())
	return root
}
