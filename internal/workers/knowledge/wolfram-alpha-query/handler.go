package wolframalphaquery

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"wolfram-alpha-mcp/internal/common/config"
	"wolfram-alpha-mcp/internal/common/errors"
	"wolfram-alpha-mcp/internal/common/logger"
	"wolfram-alpha-mcp/internal/common/metrics"
)

const (
	TaskType = "wolfram-alpha-query"

	commandTimeout = 10 * time.Second
)

// Handler runs the query adapter as a Zeebe job worker.
type Handler struct {
	config       *Config
	service      Querier
	appID        string
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

type HandlerOptions struct {
	AppConfig *config.Config
	Service   Querier
	Logger    logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	if opts.AppConfig == nil {
		return nil, fmt.Errorf("app config is required")
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}

	cfg := FromAppConfig(opts.AppConfig)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", TaskType, err)
	}

	svc := opts.Service
	if svc == nil {
		svc = NewService(ServiceDependencies{Logger: opts.Logger}, cfg)
	}

	log := opts.Logger.With(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:       cfg,
		service:      svc,
		appID:        opts.AppConfig.WolframAlpha.AppID,
		logger:       log,
		errorHandler: errors.NewErrorHandler(log),
	}, nil
}

// Config returns the resolved worker configuration.
func (h *Handler) Config() *Config {
	return h.config
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.JobTimeout)
	defer cancel()

	output, err := h.Execute(ctx, job.Variables)
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())

	// the query context may already be expired
	sendCtx, sendCancel := context.WithTimeout(context.Background(), commandTimeout)
	defer sendCancel()

	if err != nil {
		apiErr := errors.NewAPIError(err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.RootCode(apiErr))).Inc()
		h.errorHandler.HandleJobError(sendCtx, client, job, apiErr)
		return
	}

	h.completeJob(sendCtx, client, job, output)
}

// Execute decodes job variables, validates them and runs the query.
func (h *Handler) Execute(ctx context.Context, variables string) (*Output, error) {
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(variables), &args); err != nil {
		return nil, errors.NewInputParsingFailedError(err)
	}

	input, err := ParseInput(args)
	if err != nil {
		return nil, err
	}

	return h.service.Query(ctx, input.Query, h.appID)
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, errors.NewInternalError(err))
		return
	}

	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("Failed to send complete job", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.logger.Info("job completed", map[string]interface{}{
		"jobKey": job.Key,
	})
}
