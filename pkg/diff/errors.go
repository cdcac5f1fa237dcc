package diff

import "errors"

// ErrMalformed indicates an encoded diff or opcode list that cannot be applied.
var ErrMalformed = errors.New("malformed diff")
