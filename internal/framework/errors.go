package framework

import (
	"errors"
	"strings"
)

var (
	// ErrParseArguments is wrapped by every command-line parsing failure.
	ErrParseArguments = errors.New("framework: invalid command line arguments")

	// ErrNotLoaded is returned when a call needs settings or state that have not been read yet.
	ErrNotLoaded = errors.New("framework: not loaded")

	// ErrJobRunning is returned by StartBackgroundJob while a job is already scheduled.
	ErrJobRunning = errors.New("framework: background job already running")
)

// ArgumentError describes a rejected command line.
type ArgumentError struct {
	Args []string
	Err  error
}

func (e *ArgumentError) Error() string {
	return "parsing arguments [" + strings.Join(e.Args, " ") + "]: " + e.Err.Error()
}

// Unwrap exposes both ErrParseArguments and the parser's error.
func (e *ArgumentError) Unwrap() []error {
	return []error{ErrParseArguments, e.Err}
}
