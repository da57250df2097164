package journal

import "errors"

var (
	// ErrDisabled indicates the journal is disabled in configuration.
	ErrDisabled = errors.New("journal disabled")

	// ErrInvalidEntry indicates a lifecycle event is missing required fields.
	ErrInvalidEntry = errors.New("invalid journal entry")
)
