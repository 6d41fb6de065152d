// Package server builds the MCP server that hosts the Wolfram Alpha tool.
package server

import (
	"context"
	"io"
	"log"

	"github.com/mark3labs/mcp-go/server"

	"wolfram-alpha-mcp/internal/common/config"
	"wolfram-alpha-mcp/internal/common/logger"
	wolframalphaquery "wolfram-alpha-mcp/internal/workers/knowledge/wolfram-alpha-query"
)

type Dependencies struct {
	Config  *config.Config
	Querier wolframalphaquery.Querier
	Logger  logger.Logger
}

// New creates the MCP server with every tool registered. The APPID is read
// once from the config here; an empty APPID surfaces on each call.
func New(deps Dependencies) *server.MCPServer {
	if deps.Logger == nil {
		deps.Logger = logger.NewNoOpLogger()
	}

	s := server.NewMCPServer(
		deps.Config.MCP.Name,
		deps.Config.MCP.Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	queryTool := NewQueryTool(deps.Querier, deps.Config.WolframAlpha.AppID, deps.Logger)
	s.AddTool(queryTool.Definition(), queryTool.Handle)

	return s
}

// ServeStdio runs the stdio transport until in is closed or ctx is done.
func ServeStdio(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer, errLog *log.Logger) error {
	stdio := server.NewStdioServer(s)
	if errLog != nil {
		stdio.SetErrorLogger(errLog)
	}
	return stdio.Listen(ctx, in, out)
}
