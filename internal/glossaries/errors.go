package glossaries

import "errors"

var (
	ErrNotFound  = errors.New("glossary record not found")
	ErrDuplicate = errors.New("glossary record already exists")
	ErrEmptyTerm = errors.New("glossary source and target must not be empty")
)
