//go:build e2e

package e2e

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wolfram-alpha-mcp/internal/common/config"
	"wolfram-alpha-mcp/internal/common/logger"
	"wolfram-alpha-mcp/internal/server"
	wolframalphaquery "wolfram-alpha-mcp/internal/workers/knowledge/wolfram-alpha-query"
)

var zapLog *zap.Logger

func TestMain(m *testing.M) {
	zapLog, _ = zap.NewDevelopment()
	code := m.Run()
	_ = zapLog.Sync()
	os.Exit(code)
}

func liveConfig(t *testing.T) *config.Config {
	t.Helper()
	if os.Getenv(config.AppIDEnv) == "" {
		t.Skip(config.AppIDEnv + " not set, skipping live Wolfram Alpha test")
	}
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func newService(cfg *config.Config) *wolframalphaquery.Service {
	return wolframalphaquery.NewService(wolframalphaquery.ServiceDependencies{
		Logger: logger.NewZapAdapter(zapLog),
	}, wolframalphaquery.FromAppConfig(cfg))
}

func TestLiveQuery(t *testing.T) {
	cfg := liveConfig(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	out, err := newService(cfg).Query(ctx, "2+2", cfg.WolframAlpha.AppID)
	require.NoError(t, err)
	assert.Equal(t, "2+2", out.Result)
}

func TestLiveQuery_InvalidAppID(t *testing.T) {
	cfg := liveConfig(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// Wolfram Alpha answers an unknown appid with an error document that
	// still parses, or with a non-2xx status.
	out, err := newService(cfg).Query(ctx, "2+2", "invalid-appid")
	if err == nil {
		assert.NotEmpty(t, out.Result)
	}
}

func TestLiveToolCall(t *testing.T) {
	cfg := liveConfig(t)
	s := server.New(server.Dependencies{
		Config:  cfg,
		Querier: newService(cfg),
		Logger:  logger.NewZapAdapter(zapLog),
	})

	msg := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"` + server.ToolName +
		`","arguments":{"query":"population of France"}}}`
	resp := s.HandleMessage(context.Background(), json.RawMessage(msg))

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	var out struct {
		Result struct {
			IsError bool `json:"isError"`
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.False(t, out.Result.IsError)
	require.NotEmpty(t, out.Result.Content)
	assert.Contains(t, out.Result.Content[0].Text, "result")
}

// TestLiveWorker deploys nothing; it only checks the broker answers a
// topology request so the worker subcommand can connect.
func TestLiveWorker(t *testing.T) {
	cfg := liveConfig(t)
	if os.Getenv("ZEEBE_ADDRESS") == "" {
		t.Skip("ZEEBE_ADDRESS not set, skipping Zeebe test")
	}

	client, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
	})
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err = client.NewTopologyCommand().Send(ctx)
	require.NoError(t, err)
}
