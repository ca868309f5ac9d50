package domain

import "errors"

// Error kinds raised by the prediction pipeline. Components wrap their
// failures with one of these so the boundary can classify them with errors.Is.
var (
	ErrArtifactLoad   = errors.New("artifact load error")
	ErrSchema         = errors.New("schema error")
	ErrAssembly       = errors.New("assembly error")
	ErrEncoding       = errors.New("encoding error")
	ErrMalformedInput = errors.New("malformed input")
)

// Messages reported to callers for input problems.
const (
	MsgInvalidJSON = "Invalid JSON input"
	MsgMissingJSON = "No input JSON provided"

	// MsgPredictionFailed stands in for every other failure; the cause is logged.
	MsgPredictionFailed = "Prediction failed"
)
