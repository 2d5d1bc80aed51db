package pmruntime

import "errors"

var (
	// ErrOutOfRange is returned for an unknown context or an index outside
	// the range the platform supports for it.
	ErrOutOfRange = errors.New("context or index out of range")
	// ErrUnbalanced is returned when a release (or Enable) would take a
	// count below zero. The count and the hardware are left untouched.
	ErrUnbalanced = errors.New("unbalanced release")
	// ErrUnsupported is returned for an operation the context does not
	// implement on this platform.
	ErrUnsupported = errors.New("operation not supported for context")
	// ErrBusy is returned by Quiesce when the domain still has holders.
	ErrBusy = errors.New("domain still held")
)
