package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wolfram-alpha-mcp/internal/common/errors"
)

// NewQueryCmd creates the "query" subcommand.
func NewQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query <text>",
		Short: "Run one Wolfram Alpha query and print the JSON result",
		Long:  "Run one Wolfram Alpha query. Multiple arguments are joined with spaces.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runQuery,
	}
}

func runQuery(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	out, err := rt.service.Query(cmd.Context(), strings.Join(args, " "), rt.cfg.WolframAlpha.AppID)
	if err != nil {
		return exitError(exitQueryFailed, "%s", errors.NewAPIError(err).Message)
	}

	data, err := json.Marshal(out)
	if err != nil {
		return exitError(exitQueryFailed, "encode result: %v", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
