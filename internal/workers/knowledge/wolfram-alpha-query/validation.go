package wolframalphaquery

import (
	"wolfram-alpha-mcp/internal/common/errors"
	"wolfram-alpha-mcp/internal/common/validation"
)

const QueryDescription = "The query to send to Wolfram Alpha"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"query"},
		Properties: map[string]validation.Property{
			"query": {
				Type:        "string",
				Description: QueryDescription,
			},
		},
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"result"},
		Properties: map[string]validation.Property{
			"result": {
				Type:        "string",
				Description: "First pod plaintext, or \"No result found\"",
			},
		},
	}
}

// ParseInput checks args against the input schema. The query string is
// passed through untouched, empty included.
func ParseInput(args map[string]interface{}) (*Input, error) {
	result := validation.ValidateInput(args, GetInputSchema())
	if !result.Valid {
		return nil, errors.NewValidationFailedError(result.Error())
	}
	query, _ := args["query"].(string)
	return &Input{Query: query}, nil
}
