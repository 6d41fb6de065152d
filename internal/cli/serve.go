package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wolfram-alpha-mcp/internal/server"
)

// NewServeCmd creates the "serve" subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the Wolfram Alpha tool over MCP stdio",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	if rt.cfg.Metrics.Enabled {
		rt.shutdown = append(rt.shutdown, startOpsServer(rt.cfg.Metrics.Address, newOpsMux(nil), rt.log))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := server.New(server.Dependencies{
		Config:  rt.cfg,
		Querier: rt.service,
		Logger:  rt.log,
	})

	rt.log.Info("MCP stdio server starting", map[string]interface{}{
		"name":    rt.cfg.MCP.Name,
		"version": rt.cfg.MCP.Version,
	})

	if err := server.ServeStdio(ctx, s, cmd.InOrStdin(), cmd.OutOrStdout(), zap.NewStdLog(rt.zap)); err != nil && ctx.Err() == nil {
		return exitError(exitQueryFailed, "stdio server error: %v", err)
	}

	rt.log.Info("MCP stdio server stopped", nil)
	return nil
}
