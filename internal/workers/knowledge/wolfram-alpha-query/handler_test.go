package wolframalphaquery

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wolfram-alpha-mcp/internal/common/config"
	"wolfram-alpha-mcp/internal/common/errors"
	"wolfram-alpha-mcp/internal/common/logger"
	"wolfram-alpha-mcp/internal/common/validation"
)

// ==========================
// Mock Service Implementation
// ==========================

type MockQuerier struct {
	mock.Mock
}

func (m *MockQuerier) Query(ctx context.Context, query, apiKey string) (*Output, error) {
	args := m.Called(ctx, query, apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Output), args.Error(1)
}

// ==========================
// Mock Job Helper
// ==========================

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)

	activatedJob := &pb.ActivatedJob{
		Key:                      key,
		Type:                     TaskType,
		ProcessInstanceKey:       key * 10,
		BpmnProcessId:            "test-process",
		ProcessDefinitionVersion: 1,
		ProcessDefinitionKey:     1,
		ElementId:                "Activity_WolframAlphaQuery",
		ElementInstanceKey:       1,
		CustomHeaders:            "{}",
		Worker:                   "test-worker",
		Retries:                  1,
		Deadline:                 0,
		Variables:                string(variablesJSON),
	}

	return entities.Job{ActivatedJob: activatedJob}
}

func createAppConfig(appID string) *config.Config {
	return &config.Config{
		WolframAlpha: config.WolframAlphaConfig{
			AppID:    appID,
			Endpoint: "http://localhost:1/v2/query",
			Timeout:  1000,
		},
		Workers: map[string]config.WorkerConfig{
			TaskType: {Enabled: true, MaxJobsActive: 3, Timeout: 2000},
		},
	}
}

func newTestHandler(t *testing.T, appID string, svc Querier) *Handler {
	t.Helper()
	h, err := NewHandler(HandlerOptions{
		AppConfig: createAppConfig(appID),
		Service:   svc,
		Logger:    logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	return h
}

// ==========================
// Handler Creation Tests
// ==========================

func TestHandler_NewHandler(t *testing.T) {
	tests := []struct {
		name    string
		opts    HandlerOptions
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid configuration",
			opts: HandlerOptions{
				AppConfig: createAppConfig(testAppID),
				Logger:    logger.NewNoOpLogger(),
			},
		},
		{
			name: "missing appid still starts",
			opts: HandlerOptions{AppConfig: createAppConfig("")},
		},
		{
			name:    "missing app config",
			opts:    HandlerOptions{},
			wantErr: true,
			errMsg:  "app config is required",
		},
		{
			name: "relative endpoint",
			opts: HandlerOptions{
				AppConfig: &config.Config{WolframAlpha: config.WolframAlphaConfig{Endpoint: "/v2/query"}},
			},
			wantErr: true,
			errMsg:  "endpoint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHandler(tt.opts)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, h)
		})
	}
}

func TestHandler_ConfigFromApp(t *testing.T) {
	h := newTestHandler(t, testAppID, &MockQuerier{})

	cfg := h.Config()
	assert.Equal(t, "http://localhost:1/v2/query", cfg.Endpoint)
	assert.Equal(t, time.Second, cfg.Timeout)
	assert.Equal(t, 2*time.Second, cfg.JobTimeout)
	assert.Equal(t, 3, cfg.MaxJobsActive)
}

func TestFromAppConfig_Defaults(t *testing.T) {
	cfg := FromAppConfig(&config.Config{})

	assert.Equal(t, config.DefaultWolframEndpoint, cfg.Endpoint)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.True(t, cfg.Enabled)
	assert.NoError(t, cfg.Validate())
}

// ==========================
// Execute Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	svc := &MockQuerier{}
	svc.On("Query", mock.Anything, "2+2", testAppID).Return(&Output{Result: "4"}, nil)

	h := newTestHandler(t, testAppID, svc)
	job := createMockJob(1, map[string]interface{}{"query": "2+2", "otherProcessVar": true})

	out, err := h.Execute(context.Background(), job.Variables)

	require.NoError(t, err)
	assert.Equal(t, "4", out.Result)
	svc.AssertExpectations(t)

	data, _ := json.Marshal(out)
	var asMap map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &asMap))
	assert.True(t, validation.ValidateInput(asMap, GetOutputSchema()).Valid)
}

func TestHandler_Execute_PassesConfiguredAppID(t *testing.T) {
	svc := &MockQuerier{}
	svc.On("Query", mock.Anything, "q", "").
		Return(nil, errors.NewConfigurationError(MissingAppIDMessage))

	h := newTestHandler(t, "", svc)

	_, err := h.Execute(context.Background(), `{"query":"q"}`)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfiguration))
	svc.AssertExpectations(t)
}

func TestHandler_Execute_InvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		variables string
		wantCode  errors.ErrorCode
	}{
		{name: "not json", variables: `not-json`, wantCode: errors.ErrCodeInputParsingFailed},
		{name: "missing query", variables: `{}`, wantCode: errors.ErrCodeValidationFailed},
		{name: "query not a string", variables: `{"query": 42}`, wantCode: errors.ErrCodeValidationFailed},
		{name: "query is null", variables: `{"query": null}`, wantCode: errors.ErrCodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockQuerier{}
			h := newTestHandler(t, testAppID, svc)

			out, err := h.Execute(context.Background(), tt.variables)

			assert.Nil(t, out)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.GetErrorCode(err))
			svc.AssertNotCalled(t, "Query", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestParseInput_EmptyQueryPassesThrough(t *testing.T) {
	input, err := ParseInput(map[string]interface{}{"query": ""})
	require.NoError(t, err)
	assert.Equal(t, "", input.Query)
}

func TestHandler_Execute_WrappedAsAPIError(t *testing.T) {
	svc := &MockQuerier{}
	svc.On("Query", mock.Anything, "q", testAppID).
		Return(nil, errors.NewInternalError(context.DeadlineExceeded))

	h := newTestHandler(t, testAppID, svc)
	_, err := h.Execute(context.Background(), `{"query":"q"}`)
	require.Error(t, err)

	apiErr := errors.NewAPIError(err)
	bpmnErr := errors.ConvertToBPMNError(apiErr)
	assert.Equal(t, "API_ERROR", bpmnErr.Code)
	assert.Equal(t, "context deadline exceeded", bpmnErr.Message)
	assert.Equal(t, 0, bpmnErr.Retries)
	assert.Equal(t, "INTERNAL_ERROR", bpmnErr.ErrorVariables["originalErrorCode"])
}
