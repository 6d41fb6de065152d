package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wolfram-alpha-mcp/internal/common/config"
	"wolfram-alpha-mcp/internal/common/logger"
	"wolfram-alpha-mcp/internal/common/observability"
	wolframalphaquery "wolfram-alpha-mcp/internal/workers/knowledge/wolfram-alpha-query"
)

// runtime holds the process-wide dependencies every subcommand shares.
type runtime struct {
	cfg     *config.Config
	zap     *zap.Logger
	log     logger.Logger
	obs     *observability.Observability
	service *wolframalphaquery.Service

	shutdown []func(context.Context) error
}

func newRuntime(cmd *cobra.Command) (*runtime, error) {
	configPath, _ := cmd.Flags().GetString("config")
	logLevel, _ := cmd.Flags().GetString("log-level")

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
		return nil, exitError(exitConfig, "config load failed: %v", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	zl, err := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		return nil, exitError(exitConfig, "logger init failed: %v", err)
	}
	log := logger.NewZapAdapter(zl)

	rt := &runtime{cfg: cfg, zap: zl, log: log}

	tp, err := observability.NewTracerProvider(cmd.Context(), cfg.Tracing, cfg.App.Name, cfg.App.Version)
	if err != nil {
		return nil, exitError(exitConfig, "tracing init failed: %v", err)
	}
	rt.shutdown = append(rt.shutdown, tp.Shutdown)

	obs, err := observability.New(cfg.App.Name, observability.WithTracerProvider(tp))
	if err != nil {
		log.Warn("metrics exporter disabled", map[string]interface{}{"error": err.Error()})
	} else {
		rt.obs = obs
		rt.shutdown = append(rt.shutdown, obs.Shutdown)
	}

	svcCfg := wolframalphaquery.FromAppConfig(cfg)
	if err := svcCfg.Validate(); err != nil {
		return nil, exitError(exitConfig, "invalid wolfram_alpha config: %v", err)
	}
	rt.service = wolframalphaquery.NewService(wolframalphaquery.ServiceDependencies{
		Logger:        log,
		Observability: rt.obs,
	}, svcCfg)

	if cfg.WolframAlpha.AppID == "" {
		log.Warn(config.AppIDEnv+" is not set; every query will fail", nil)
	}

	return rt, nil
}

func (rt *runtime) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(rt.shutdown) - 1; i >= 0; i-- {
		if err := rt.shutdown[i](ctx); err != nil {
			rt.log.Warn("shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}
	_ = rt.zap.Sync()
}
