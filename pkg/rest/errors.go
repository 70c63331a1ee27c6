package rest

import "errors"

var (
	// ErrUnexpectedStatus marks a snippet response other than 200 OK.
	ErrUnexpectedStatus = errors.New("unexpected response status")

	// ErrResponseTooLarge marks a response body over the size limit.
	ErrResponseTooLarge = errors.New("response body too large")
)
