package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"wolfram-alpha-mcp/internal/common/camunda"
	"wolfram-alpha-mcp/internal/common/config"
	wolframalphaquery "wolfram-alpha-mcp/internal/workers/knowledge/wolfram-alpha-query"
)

// NewWorkerCmd creates the "worker" subcommand.
func NewWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the " + wolframalphaquery.TaskType + " Zeebe job worker",
		Args:  cobra.NoArgs,
		RunE:  runWorker,
	}
}

func runWorker(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := config.ValidateForWorker(rt.cfg); err != nil {
		return exitError(exitConfig, "invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := camunda.Connect(ctx, &camunda.ClientConfig{
		GatewayAddress:         rt.cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      config.GetDuration(rt.cfg.Camunda.RequestTimeout),
	}, rt.log)
	if err != nil {
		return exitError(exitQueryFailed, "zeebe client failed: %v", err)
	}
	defer client.Close()
	rt.log.Info("Zeebe client connected successfully", map[string]interface{}{
		"broker": rt.cfg.Camunda.BrokerAddress,
	})

	handler, err := wolframalphaquery.NewHandler(wolframalphaquery.HandlerOptions{
		AppConfig: rt.cfg,
		Service:   rt.service,
		Logger:    rt.log,
	})
	if err != nil {
		return exitError(exitConfig, "failed to create %s handler: %v", wolframalphaquery.TaskType, err)
	}

	w := camunda.StartWorker(client.GetClient(), wolframalphaquery.TaskType,
		config.GetWorkerConfig(rt.cfg, wolframalphaquery.TaskType), handler, rt.log)

	rt.shutdown = append(rt.shutdown, startOpsServer(rt.cfg.Metrics.Address, newOpsMux(client.HealthCheck), rt.log))

	<-ctx.Done()
	rt.log.Info("Shutdown signal received, stopping worker...", nil)
	if w != nil {
		w.Stop()
	}
	rt.log.Info("Worker stopped gracefully", nil)
	return nil
}
