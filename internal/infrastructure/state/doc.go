// Package state persists a caller-defined program state as a JSON file.
//
// State is dynamic data that must survive restarts (counters, flags, last
// seen values). It is read once at startup and written once at shutdown.
// Unlike settings, a missing or unreadable state file is not fatal: Load
// returns the zero state together with an error describing why, and the
// caller decides whether to log it.
//
// Usage:
//
//	store := state.NewStore[MyState]("state.json")
//	st, err := store.Load()
//	if err != nil {
//	    logger.Debug("using default state", "error", err)
//	}
//	defer store.Save(st)
package state
