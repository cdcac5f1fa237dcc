package storage

import "errors"

var (
	ErrNotFound   = errors.New("source blob not found")
	ErrEmptyKey   = errors.New("storage key must not be empty")
	ErrInvalidKey = errors.New("storage key contains a \"..\" segment")
)
