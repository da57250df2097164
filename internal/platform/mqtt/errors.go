package mqtt

import "errors"

var (
	// ErrNotConnected indicates the adaptor has no live broker connection.
	ErrNotConnected = errors.New("mqtt: not connected")

	// ErrConnectionFailed indicates the initial connection attempt failed.
	ErrConnectionFailed = errors.New("mqtt: connection failed")

	// ErrPublishFailed indicates a publish was not acknowledged in time.
	ErrPublishFailed = errors.New("mqtt: publish failed")
)
