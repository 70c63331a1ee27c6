package render

import "errors"

var (
	// ErrTemplate is returned when a template cannot be parsed or executed,
	// including references to variables missing from the context.
	ErrTemplate = errors.New("template error")

	// ErrEncoding is returned by the base64 filters on undecodable input.
	ErrEncoding = errors.New("encoding error")

	// ErrSalt is returned when a crypt salt contains characters outside the
	// crypt alphabet.
	ErrSalt = errors.New("invalid crypt salt")
)
