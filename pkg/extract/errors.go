package extract

import "errors"

var (
	// ErrParser is returned when a raw result cannot be parsed as the
	// declared format. JSON parse failures are reported inline instead.
	ErrParser = errors.New("output parser error")

	// ErrUnknownOutputType is returned by For for unsupported formats.
	ErrUnknownOutputType = errors.New("unknown output type")
)
