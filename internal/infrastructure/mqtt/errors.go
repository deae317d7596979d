package mqtt

import "errors"

// Errors returned by the broker client. Check them with errors.Is.
var (
	// ErrNotConnected is returned when attempting operations on a disconnected client.
	ErrNotConnected = errors.New("mqtt: client not connected")

	// ErrConnectionFailed is returned when the connection attempt fails.
	ErrConnectionFailed = errors.New("mqtt: connection failed")

	// ErrPublishFailed wraps the broker's reason for rejecting a data-object value.
	ErrPublishFailed = errors.New("mqtt: publish failed")

	// ErrInvalidTopic is returned for an empty data-object name.
	ErrInvalidTopic = errors.New("mqtt: data-object name is empty")

	// ErrInvalidURL is returned when the broker URL cannot be parsed.
	ErrInvalidURL = errors.New("mqtt: invalid broker url")
)
