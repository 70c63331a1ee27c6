package api

import "errors"

// ErrMalformedSpec marks a manifest or snippet that violates the manifest
// format.
var ErrMalformedSpec = errors.New("malformed snippet spec")
