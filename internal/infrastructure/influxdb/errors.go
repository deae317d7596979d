package influxdb

import "errors"

var (
	// ErrNotConnected is returned by writes and health checks after Close.
	ErrNotConnected = errors.New("influxdb: client closed")

	// ErrConnectionFailed wraps a failed or unhealthy ping during Connect.
	ErrConnectionFailed = errors.New("influxdb: server unreachable")

	// ErrWriteFailed wraps a data-object point the server did not accept.
	ErrWriteFailed = errors.New("influxdb: data-object write failed")
)
