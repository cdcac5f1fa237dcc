package worker

import "errors"

var (
	// ErrFormatMismatch indicates a task whose type differs from the
	// format of the document it names.
	ErrFormatMismatch = errors.New("task type does not match document format")
	// ErrPanic wraps a panic recovered while handling a task.
	ErrPanic = errors.New("task panicked")
)
