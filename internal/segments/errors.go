package segments

import "errors"

var (
	ErrNotFound  = errors.New("segment not found")
	ErrDuplicate = errors.New("segment already exists")
	// ErrInvalidTarget rejects targets that are not valid UTF-8.
	ErrInvalidTarget = errors.New("segment target is not valid UTF-8")
)
