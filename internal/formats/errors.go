package formats

import "errors"

var (
	ErrUnknownFormat = errors.New("unknown document format")
	ErrMalformed     = errors.New("malformed source document")
)
