package documents

import "errors"

// Domain errors for document operations.
var (
	ErrNotFound      = errors.New("document not found")
	ErrDuplicate     = errors.New("document already exists")
	ErrInvalidFile   = errors.New("invalid file")
	ErrNotPending    = errors.New("document is not pending")
	ErrNotProcessing = errors.New("document is not processing")
	ErrNotSubmitable = errors.New("document cannot be submitted")
	ErrInvalidStatus = errors.New("invalid document status")
)
