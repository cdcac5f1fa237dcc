package history

import "errors"

var (
	ErrNotFound          = errors.New("history entry not found")
	ErrDuplicate         = errors.New("history entry already exists")
	ErrInvalidChangeType = errors.New("invalid change type")
	ErrCorruptChain      = errors.New("history chain cannot be replayed")
)
