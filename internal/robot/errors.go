package robot

import (
	"errors"
	"fmt"
)

// Domain errors for the robot package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, robot.ErrConnectionRef) {
//	    // handle unknown connection reference
//	}
var (
	// ErrConfiguration is returned when construction input fails validation.
	// It is surfaced before any connection or device is registered.
	ErrConfiguration = errors.New("robot: invalid configuration")

	// ErrCommandDefinition is returned when the configured command table is
	// unusable: both Commands and CommandsFunc were supplied, or CommandsFunc
	// returned no mapping.
	ErrCommandDefinition = errors.New("robot: invalid command definition")

	// ErrConnectionRef is returned when a device names a connection that does
	// not exist on its robot. The historical behaviour was a process-level
	// interrupt; it is surfaced as a returnable error instead.
	ErrConnectionRef = errors.New("robot: unknown connection")

	// ErrUnknownCommand is returned by Execute for a name that is not in the
	// command table.
	ErrUnknownCommand = errors.New("robot: unknown command")
)

// StartupError is the aggregated result of a failed start phase. It carries
// the phase that failed and the first error reported by one of its units;
// the remaining units still ran to completion before this was produced.
type StartupError struct {
	// Phase is the fan-out set that failed: "connections" or "devices".
	Phase string

	// Err is the first error reported within the phase.
	Err error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("robot: start phase %s failed: %v", e.Phase, e.Err)
}

// Unwrap allows errors.Is/As checks against the underlying unit error.
func (e *StartupError) Unwrap() error {
	return e.Err
}
