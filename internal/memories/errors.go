package memories

import "errors"

var (
	ErrNotFound         = errors.New("memory record not found")
	ErrDuplicate        = errors.New("memory record already exists")
	ErrInvalidMode      = errors.New("invalid memory mode")
	ErrInvalidThreshold = errors.New("similarity threshold must be between 0 and 1")
	ErrEmptyPair        = errors.New("memory source and target must not be empty")
)
