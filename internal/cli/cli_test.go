package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs a cobra command with the given args and captures stdout/stderr.
func executeCommand(root *cobra.Command, args ...string) (stdout, stderr string, err error) {
	var outBuf, errBuf bytes.Buffer
	root.SetOut(&outBuf)
	root.SetErr(&errBuf)
	root.SetArgs(args)
	err = root.Execute()
	return outBuf.String(), errBuf.String(), err
}

func writeTestConfig(t *testing.T, endpoint string) string {
	t.Helper()
	body := fmt.Sprintf(`logging:
  level: debug
  format: console
  output: stderr
wolfram_alpha:
  appid: ${WOLFRAM_ALPHA_APPID}
  endpoint: %s
  timeout: 2000
`, endpoint)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestQueryCmd_PrintsResult(t *testing.T) {
	t.Setenv("WOLFRAM_ALPHA_APPID", "cli-appid")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "speed of light", r.URL.Query().Get("input"))
		assert.Equal(t, "cli-appid", r.URL.Query().Get("appid"))
		_, _ = w.Write([]byte(`<queryresult><pod><plaintext>299792458 m/s</plaintext></pod></queryresult>`))
	}))
	defer server.Close()

	stdout, _, err := executeCommand(NewRootCmd("test"),
		"query", "--config", writeTestConfig(t, server.URL), "speed", "of", "light")

	require.NoError(t, err)
	var out map[string]string
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "299792458 m/s", out["result"])
}

func TestQueryCmd_MissingAppID(t *testing.T) {
	t.Setenv("WOLFRAM_ALPHA_APPID", "")
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer server.Close()

	stdout, _, err := executeCommand(NewRootCmd("test"),
		"query", "--config", writeTestConfig(t, server.URL), "2+2")

	require.Error(t, err)
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, exitQueryFailed, exitErr.Code)
	assert.Equal(t, "Missing Wolfram Alpha APPID", exitErr.Message)
	assert.Empty(t, stdout)
	assert.Equal(t, 0, hits)
}

func TestQueryCmd_UpstreamFailure(t *testing.T) {
	t.Setenv("WOLFRAM_ALPHA_APPID", "cli-appid")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, _, err := executeCommand(NewRootCmd("test"),
		"query", "--config", writeTestConfig(t, server.URL), "2+2")

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Contains(t, exitErr.Message, "500")
	assert.NotContains(t, exitErr.Message, "cli-appid")
}

func TestQueryCmd_RequiresText(t *testing.T) {
	_, _, err := executeCommand(NewRootCmd("test"), "query")
	assert.Error(t, err)
}

func TestQueryCmd_BadConfigPath(t *testing.T) {
	_, _, err := executeCommand(NewRootCmd("test"),
		"query", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "2+2")

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, exitConfig, exitErr.Code)
}

func TestOpsMux(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		ready      func(context.Context) error
		wantStatus int
		wantBody   string
	}{
		{name: "health", path: "/health", wantStatus: http.StatusOK, wantBody: "healthy"},
		{name: "ready without probe", path: "/ready", wantStatus: http.StatusOK, wantBody: "ready"},
		{
			name:       "not ready",
			path:       "/ready",
			ready:      func(context.Context) error { return errors.New("zeebe health check failed") },
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "zeebe health check failed",
		},
		{name: "metrics", path: "/metrics", wantStatus: http.StatusOK, wantBody: "go_goroutines"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newOpsMux(tt.ready).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestDescribeCmd_WritesRegistry(t *testing.T) {
	regPath := filepath.Join(t.TempDir(), "activity-registry.json")

	stdout, _, err := executeCommand(NewRootCmd("test"),
		"describe", "--config", writeTestConfig(t, "https://api.wolframalpha.com/v2/query"), "--registry", regPath)
	require.NoError(t, err)

	var activity map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &activity))
	assert.Equal(t, "wolfram-alpha-query", activity["taskType"])
	assert.Equal(t, "get_wolfram_alpha_result", activity["toolName"])

	data, err := os.ReadFile(regPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"taskType": "wolfram-alpha-query"`)
}
