package process

import "errors"

var (
	// ErrWorkDir is returned when the working directory does not exist.
	ErrWorkDir = errors.New("invalid working directory")
	// ErrStart is returned when the process could not be started.
	ErrStart = errors.New("starting process")
)
