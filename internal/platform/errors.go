package platform

import "errors"

var (
	// ErrUnknownAdaptor indicates a connection names an unregistered adaptor type.
	ErrUnknownAdaptor = errors.New("platform: unknown adaptor type")

	// ErrUnknownDriver indicates a device names an unregistered driver type.
	ErrUnknownDriver = errors.New("platform: unknown driver type")

	// ErrAdaptorMismatch indicates a driver was bound to an adaptor of the
	// wrong concrete type.
	ErrAdaptorMismatch = errors.New("platform: driver bound to incompatible adaptor")
)
