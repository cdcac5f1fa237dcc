package tasks

import "errors"

var (
	ErrNotFound       = errors.New("task not found")
	ErrInvalidPayload = errors.New("invalid task payload")
)
