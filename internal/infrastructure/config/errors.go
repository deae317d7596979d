package config

import (
	"errors"
	"fmt"
	"strings"
)

// Domain-specific errors for configuration handling.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrReadConfig is returned when the settings file cannot be read.
	ErrReadConfig = errors.New("config: cannot read settings file")

	// ErrParseConfig is returned when the settings file is not valid JSON/HJSON.
	ErrParseConfig = errors.New("config: cannot parse settings file")

	// ErrNotLoaded is returned when Validate or Save is called before Load.
	ErrNotLoaded = errors.New("config: settings not loaded")
)

// ValidationError names the required settings fields that are missing.
type ValidationError struct {
	Fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		return fmt.Sprintf("config: missing value for required field %s", e.Fields[0])
	}
	return fmt.Sprintf("config: missing values for required fields %s", strings.Join(e.Fields, ", "))
}
