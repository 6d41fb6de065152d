package server

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"wolfram-alpha-mcp/internal/common/errors"
	"wolfram-alpha-mcp/internal/common/logger"
	"wolfram-alpha-mcp/internal/common/metrics"
	wolframalphaquery "wolfram-alpha-mcp/internal/workers/knowledge/wolfram-alpha-query"
)

const (
	ToolName        = "get_wolfram_alpha_result"
	ToolDescription = "Get the result of a query from Wolfram Alpha."
)

// QueryTool exposes the query adapter as an MCP tool.
type QueryTool struct {
	querier wolframalphaquery.Querier
	appID   string
	logger  logger.Logger
}

func NewQueryTool(querier wolframalphaquery.Querier, appID string, log logger.Logger) *QueryTool {
	return &QueryTool{
		querier: querier,
		appID:   appID,
		logger:  log.With(map[string]interface{}{"tool": ToolName}),
	}
}

func (t *QueryTool) Definition() mcp.Tool {
	return mcp.NewTool(ToolName,
		mcp.WithDescription(ToolDescription),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description(wolframalphaquery.QueryDescription),
		),
	)
}

// Handle never returns a protocol error for a failed query; failures are
// reported as tool errors carrying the API error message.
func (t *QueryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := time.Now()

	out, err := t.call(ctx, req.GetArguments())
	if err != nil {
		apiErr := errors.NewAPIError(err)
		metrics.ToolCalls.WithLabelValues(ToolName, "error").Inc()
		t.logger.Error("tool call failed", map[string]interface{}{
			"errorCode":     string(apiErr.Code),
			"rootErrorCode": string(errors.RootCode(apiErr)),
			"error":         apiErr.Message,
			"durationMs":    time.Since(start).Milliseconds(),
		})
		return mcp.NewToolResultError(apiErr.Message), nil
	}

	data, err := json.Marshal(out)
	if err != nil {
		metrics.ToolCalls.WithLabelValues(ToolName, "error").Inc()
		return mcp.NewToolResultError(errors.NewAPIError(errors.NewInternalError(err)).Message), nil
	}

	metrics.ToolCalls.WithLabelValues(ToolName, "success").Inc()
	return mcp.NewToolResultText(string(data)), nil
}

func (t *QueryTool) call(ctx context.Context, args map[string]any) (*wolframalphaquery.Output, error) {
	input, err := wolframalphaquery.ParseInput(args)
	if err != nil {
		return nil, err
	}
	return t.querier.Query(ctx, input.Query, t.appID)
}
