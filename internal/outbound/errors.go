package outbound

import "errors"

var (
	// ErrNotConfigured is reported by HealthCheck for an unconfigured target.
	ErrNotConfigured = errors.New("outbound: target not configured")

	// ErrNotConnected is returned when a target has no connection to send on.
	ErrNotConnected = errors.New("outbound: target not connected")

	// ErrSendFailed wraps every send failure, including recovered panics.
	ErrSendFailed = errors.New("outbound: send failed")
)
