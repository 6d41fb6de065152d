package wolframalphaquery

import (
	"wolfram-alpha-mcp/internal/common/logger"
	"wolfram-alpha-mcp/internal/common/observability"
)

// NoResultFound is returned as a successful result when the response has no
// usable first pod.
const NoResultFound = "No result found"

// MissingAppIDMessage is the configuration error raised for an empty APPID.
const MissingAppIDMessage = "Missing Wolfram Alpha APPID"

type Input struct {
	Query string `json:"query"`
}

type Output struct {
	Result string `json:"result"`
}

type ServiceDependencies struct {
	Logger        logger.Logger
	Observability *observability.Observability
}
