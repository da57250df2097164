package modbus

import "errors"

// ErrNotConnected indicates the bus has not been opened yet.
var ErrNotConnected = errors.New("modbus: not connected")
