package mt

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates missing or unusable provider settings.
	ErrInvalidConfig = errors.New("invalid translation config")
	// ErrPermanent indicates a provider rejection that retrying cannot fix,
	// such as bad credentials or an unknown model.
	ErrPermanent = errors.New("permanent provider failure")
	// ErrLineCount indicates a provider reply with the wrong number of lines.
	ErrLineCount = errors.New("translation line count mismatch")
)

func errLineCount(want, got int) error {
	return fmt.Errorf("%w: want %d, got %d", ErrLineCount, want, got)
}
