package wolframalphaquery

import (
	"wolfram-alpha-mcp/internal/common/errors"
	"wolfram-alpha-mcp/pkg/registry"
)

const ActivityVersion = "1.0.0"

// Activity describes the query task for the activity registry.
func Activity(cfg *Config) (registry.Activity, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	in, err := registry.SchemaMap(GetInputSchema())
	if err != nil {
		return registry.Activity{}, err
	}
	out, err := registry.SchemaMap(GetOutputSchema())
	if err != nil {
		return registry.Activity{}, err
	}

	return registry.Activity{
		ID:           TaskType,
		DisplayName:  "Wolfram Alpha Query",
		Description:  "Send a natural-language query to Wolfram Alpha and return the first pod's plaintext.",
		Category:     "knowledge",
		Version:      ActivityVersion,
		TaskType:     TaskType,
		InputSchema:  in,
		OutputSchema: out,
		ErrorCodes: []string{
			string(errors.ErrCodeAPI),
			string(errors.ErrCodeConfiguration),
			string(errors.ErrCodeInternal),
			string(errors.ErrCodeInputParsingFailed),
			string(errors.ErrCodeValidationFailed),
		},
		Timeout: cfg.JobTimeout.String(),
		Retries: 0,
		Tags:    []string{"wolfram-alpha", "knowledge", "mcp"},
	}, nil
}
