package wolframalphaquery

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"wolfram-alpha-mcp/internal/common/errors"
	commonhttp "wolfram-alpha-mcp/internal/common/http"
	"wolfram-alpha-mcp/internal/common/logger"
	"wolfram-alpha-mcp/internal/common/metrics"
	"wolfram-alpha-mcp/internal/common/observability"
)

const SpanName = "wolframalpha.query"

// Querier answers a single free-text query with the given APPID.
type Querier interface {
	Query(ctx context.Context, query, apiKey string) (*Output, error)
}

// Service is the Wolfram Alpha query adapter. It holds no per-call state and
// is safe for concurrent use.
type Service struct {
	config *Config
	client *commonhttp.Client
	logger logger.Logger
	obs    *observability.Observability
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Service{
		config: config,
		client: commonhttp.NewClient(config.Timeout),
		logger: log,
		obs:    deps.Observability,
	}
}

// Query sends query to Wolfram Alpha and returns the first pod's plaintext.
// Errors are *errors.StandardError with code CONFIGURATION_ERROR or
// INTERNAL_ERROR.
func (s *Service) Query(ctx context.Context, query, apiKey string) (*Output, error) {
	callID := uuid.NewString()
	log := s.logger.With(map[string]interface{}{"callId": callID})

	ctx, span := s.obs.Tracer().Start(ctx, SpanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("wolframalpha.call_id", callID)),
	)
	defer span.End()

	log.Debug("querying Wolfram Alpha", map[string]interface{}{"query": query})

	start := time.Now()
	output, statusCode, err := s.execute(ctx, query, apiKey)
	duration := time.Since(start)

	outcome := outcomeOf(output, err)
	metrics.WolframQueries.WithLabelValues(outcome).Inc()
	if outcome != metrics.OutcomeConfigurationError {
		metrics.WolframQueryDuration.Observe(duration.Seconds())
	}
	s.obs.RecordQuery(ctx, outcome, duration)

	span.SetAttributes(attribute.String("wolframalpha.outcome", outcome))
	if statusCode != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", statusCode))
	}

	if err != nil {
		stdErr := errors.Normalize(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, stdErr.Message)
		log.Warn("Wolfram Alpha query failed", map[string]interface{}{
			"query":      query,
			"errorCode":  string(stdErr.Code),
			"error":      stdErr.Message,
			"durationMs": duration.Milliseconds(),
		})
		return nil, err
	}

	log.Info("Wolfram Alpha query completed", map[string]interface{}{
		"query":      query,
		"outcome":    outcome,
		"durationMs": duration.Milliseconds(),
	})
	return output, nil
}

func (s *Service) execute(ctx context.Context, query, apiKey string) (*Output, int, error) {
	if apiKey == "" {
		return nil, 0, errors.NewConfigurationError(MissingAppIDMessage)
	}

	reqURL, err := s.buildQueryURL(query, apiKey)
	if err != nil {
		return nil, 0, errors.NewInternalError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, errors.NewInternalError(s.redact(err))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, errors.NewInternalError(s.redact(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, errors.NewInternalError(
			fmt.Errorf("unexpected response from Wolfram Alpha: HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, errors.NewInternalError(s.redact(err))
	}

	text, found, err := extractFirstPodPlaintext(body)
	if err != nil {
		return nil, resp.StatusCode, errors.NewInternalError(fmt.Errorf("failed to parse Wolfram Alpha response: %w", err))
	}
	if !found {
		return &Output{Result: NoResultFound}, resp.StatusCode, nil
	}
	return &Output{Result: text}, resp.StatusCode, nil
}

// buildQueryURL sends output=json while the body is parsed as XML; the
// parameter set is kept as the upstream contract documents it.
func (s *Service) buildQueryURL(query, apiKey string) (string, error) {
	base, err := url.Parse(s.config.Endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint: %w", err)
	}
	params := url.Values{}
	params.Set("input", query)
	params.Set("format", "plaintext")
	params.Set("output", "json")
	params.Set("appid", apiKey)
	base.RawQuery = params.Encode()
	return base.String(), nil
}

// redact rewrites transport errors so the request URL, which carries the
// APPID, never reaches callers or logs.
func (s *Service) redact(err error) error {
	timedOut := stderrors.Is(err, context.DeadlineExceeded)

	var urlErr *url.Error
	if stderrors.As(err, &urlErr) {
		timedOut = timedOut || urlErr.Timeout()
		err = urlErr.Err
	}

	var te interface{ Timeout() bool }
	if stderrors.As(err, &te) && te.Timeout() {
		timedOut = true
	}

	if timedOut {
		return fmt.Errorf("request to %s timed out: %w", s.config.Endpoint, err)
	}
	return fmt.Errorf("request to %s failed: %w", s.config.Endpoint, err)
}

func outcomeOf(output *Output, err error) string {
	switch {
	case err != nil && errors.IsCode(err, errors.ErrCodeConfiguration):
		return metrics.OutcomeConfigurationError
	case err != nil:
		return metrics.OutcomeInternalError
	case output.Result == NoResultFound:
		return metrics.OutcomeNoResult
	default:
		return metrics.OutcomeSuccess
	}
}
