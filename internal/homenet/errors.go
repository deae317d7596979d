package homenet

import "errors"

var (
	// ErrInvalidURL is returned by NewClient for a URL that is not absolute http(s).
	ErrInvalidURL = errors.New("homenet: invalid server url")

	// ErrConnectionFailed is returned when the server cannot be reached.
	ErrConnectionFailed = errors.New("homenet: connection failed")

	// ErrUpdateFailed is returned when the server rejects or fails a value update.
	ErrUpdateFailed = errors.New("homenet: update failed")
)
