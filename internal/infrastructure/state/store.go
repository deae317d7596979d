package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Sentinel errors for state persistence.
var (
	// ErrNoStateFile is returned by Load when the state file does not exist.
	ErrNoStateFile = errors.New("state: no state file")

	// ErrDecodeState is returned when the state file is not valid JSON for T.
	ErrDecodeState = errors.New("state: cannot decode state")
)

// Store reads and writes one JSON state file holding a T.
type Store[T any] struct {
	path string
}

// NewStore returns a Store for path.
func NewStore[T any](path string) *Store[T] {
	return &Store[T]{path: path}
}

// Path returns the state file path.
func (s *Store[T]) Path() string {
	return s.path
}

// Load reads the state file.
//
// It always returns a usable *T: the decoded state on success, or a fresh
// zero value when the file is absent (ErrNoStateFile) or cannot be
// read or decoded (wrapped ErrDecodeState or the I/O error).
func (s *Store[T]) Load() (*T, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return new(T), fmt.Errorf("%w: %s", ErrNoStateFile, s.path)
		}
		return new(T), fmt.Errorf("reading state file %s: %w", s.path, err)
	}

	v, err := Decode[T](data)
	if err != nil {
		return new(T), fmt.Errorf("%s: %w", s.path, err)
	}
	return v, nil
}

// Save serialises v to JSON and overwrites the state file.
// Errors are returned to the caller unchanged in meaning.
func (s *Store[T]) Save(v *T) error {
	data, err := Encode(v)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating state dir: %w", err)
		}
	}

	// Atomic write
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing state file: %w", err)
	}
	return nil
}

// Encode returns the JSON form of v as written by Save.
func Encode[T any](v *T) ([]byte, error) {
	if v == nil {
		v = new(T)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding state: %w", err)
	}
	return data, nil
}

// Decode parses JSON produced by Encode (or written by hand) into a new T.
func Decode[T any](data []byte) (*T, error) {
	v := new(T)
	if err := json.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeState, err)
	}
	return v, nil
}
