package pipeline

import "errors"

// Ingest failures. Callers degrade these to an empty dataset.
var (
	ErrMalformedPayload = errors.New("upload payload is not a base64 data URL")
	ErrInvalidEncoding  = errors.New("upload body is not valid base64")
	ErrInvalidUTF8      = errors.New("upload is not valid UTF-8 text")
	ErrMalformedCSV     = errors.New("upload is not valid CSV")
)

// Request errors.
var (
	ErrUnknownColumn       = errors.New("unknown column")
	ErrOverlappingColumns  = errors.New("column cannot be both grouped and aggregated")
	ErrUnsupportedFunction = errors.New("unsupported aggregation function")
	ErrInvalidPage         = errors.New("invalid page")
)
