package framework

import (
	"fmt"

	"github.com/nerrad567/homenet-framework/internal/infrastructure/state"
)

// ReadStateFile loads the state file into f.State.
//
// A missing or unreadable file is not an error: f.State is set to the zero
// state and the reason is logged at debug level.
func (f *Facade[A, S, St]) ReadStateFile() {
	store := state.NewStore[St](f.Args.Paths().StateFile)
	st, err := store.Load()
	if err != nil {
		f.Logger.Debug("state file not loaded, using default state", "path", store.Path(), "error", err)
	}
	f.State = st
}

// SaveStateFile writes f.State to the state file.
func (f *Facade[A, S, St]) SaveStateFile() error {
	if f.State == nil {
		return fmt.Errorf("%w: state", ErrNotLoaded)
	}
	return state.NewStore[St](f.Args.Paths().StateFile).Save(f.State)
}

// StateJSON returns f.State encoded as the state file would hold it.
func (f *Facade[A, S, St]) StateJSON() ([]byte, error) {
	return state.Encode(f.State)
}

// SetStateJSON replaces f.State with the decoded data.
func (f *Facade[A, S, St]) SetStateJSON(data []byte) error {
	st, err := state.Decode[St](data)
	if err != nil {
		return err
	}
	f.State = st
	return nil
}
