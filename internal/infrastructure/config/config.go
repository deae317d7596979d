package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hjson/hjson-go/v4"
)

// targetHolder is satisfied by settings types that embed Targets.
type targetHolder interface {
	OutboundTargets() *Targets
}

// Validator can be implemented by settings types that need checks beyond
// `validate:"required"` tags. It is called after the tag checks pass.
type Validator interface {
	Validate() error
}

// Manager loads, validates and saves one settings file of type T.
//
// Thread Safety:
//   - A Manager is intended for single-goroutine use during startup.
type Manager[T any] struct {
	path string
	data *T
}

// NewManager returns a Manager bound to path. Nothing is read until Load.
func NewManager[T any](path string) *Manager[T] {
	return &Manager[T]{path: path}
}

// Path returns the settings file path the manager reads and writes.
func (m *Manager[T]) Path() string {
	if abs, err := filepath.Abs(m.path); err == nil {
		return abs
	}
	return m.path
}

// Data returns the loaded settings, or nil before Load.
func (m *Manager[T]) Data() *T {
	return m.data
}

// Load reads the settings file and applies environment variable overrides.
//
// The file may be plain JSON or HJSON (comments, unquoted keys and trailing
// commas allowed). The loading order is:
//  1. Zero value of T
//  2. File values
//  3. HOMENET_* environment variables for the outbound target blocks
//
// Returns:
//   - *T: Loaded settings (also kept for Validate and Save)
//   - error: ErrReadConfig or ErrParseConfig, wrapped with the cause
func (m *Manager[T]) Load() (*T, error) {
	raw, err := os.ReadFile(m.path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrReadConfig, m.path, err)
	}

	cfg := new(T)
	if err := hjson.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrParseConfig, m.path, err)
	}

	if holder, ok := any(cfg).(targetHolder); ok {
		applyEnvOverrides(holder.OutboundTargets())
	}

	m.data = cfg
	return cfg, nil
}

// Validate checks the loaded settings for missing required values.
//
// Fields tagged `validate:"required"` must hold a non-zero value (strings
// must not be blank). If T implements Validator its Validate method runs
// afterwards.
//
// Returns:
//   - error: *ValidationError naming the missing fields, the Validator's
//     error, or nil if valid
func (m *Manager[T]) Validate() error {
	if m.data == nil {
		return ErrNotLoaded
	}

	if missing := missingRequired(m.data); len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}

	if v, ok := any(m.data).(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("validating settings: %w", err)
		}
	}

	return nil
}

// Save writes data to the settings file, replacing the loaded settings.
//
// Files ending in .hjson are written as HJSON, everything else as indented
// JSON. The write goes to a temporary file first and is renamed into place.
func (m *Manager[T]) Save(data *T) error {
	if data == nil {
		data = m.data
	}
	if data == nil {
		return ErrNotLoaded
	}

	var (
		out []byte
		err error
	)
	if strings.EqualFold(filepath.Ext(m.path), ".hjson") {
		out, err = hjson.Marshal(data)
	} else {
		out, err = json.MarshalIndent(data, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	if err := writeFileAtomic(m.path, out); err != nil {
		return err
	}

	m.data = data
	return nil
}

// writeFileAtomic writes to path.tmp and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

