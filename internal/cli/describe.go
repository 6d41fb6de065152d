package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"wolfram-alpha-mcp/internal/common/config"
	"wolfram-alpha-mcp/internal/server"
	wolframalphaquery "wolfram-alpha-mcp/internal/workers/knowledge/wolfram-alpha-query"
	"wolfram-alpha-mcp/pkg/registry"
)

// NewDescribeCmd creates the "describe" subcommand.
func NewDescribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the activity descriptor for the query task",
		Long: "Print the activity descriptor (task type, tool name, schemas, error codes) as JSON. " +
			"With --registry the descriptor is also written into that activity registry file.",
		Args: cobra.NoArgs,
		RunE: runDescribe,
	}
	cmd.Flags().String("registry", "", "Activity registry file to create or update")
	return cmd
}

func runDescribe(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	registryPath, _ := cmd.Flags().GetString("registry")

	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return exitError(exitConfig, "config load failed: %v", err)
	}

	activity, err := wolframalphaquery.Activity(wolframalphaquery.FromAppConfig(cfg))
	if err != nil {
		return exitError(exitQueryFailed, "build activity: %v", err)
	}
	activity.ToolName = server.ToolName

	if registryPath != "" {
		reg, err := registry.LoadRegistry(registryPath)
		if err != nil {
			return exitError(exitConfig, "%v", err)
		}
		reg.Upsert(activity)
		if err := reg.Save(registryPath); err != nil {
			return exitError(exitQueryFailed, "write registry: %v", err)
		}
	}

	data, err := json.MarshalIndent(activity, "", "  ")
	if err != nil {
		return exitError(exitQueryFailed, "encode activity: %v", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
