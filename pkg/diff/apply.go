package diff

import (
	"fmt"
	"strings"
)

// Apply replays d against old and returns the resulting text.
// For any d produced by Compute(old, new), Apply returns new.
func Apply(old string, d Diff) (string, error) {
	src := []rune(old)
	if d.OldLen != len(src) {
		return "", fmt.Errorf("%w: old_len %d does not match input length %d", ErrMalformed, d.OldLen, len(src))
	}

	var sb strings.Builder
	sb.Grow(len(old))

	for i, op := range d.Ops {
		if op.I1 < 0 || op.I1 > op.I2 || op.I2 > len(src) {
			return "", fmt.Errorf("%w: opcode %d range [%d:%d] outside input", ErrMalformed, i, op.I1, op.I2)
		}

		switch op.Tag {
		case Equal:
			sb.WriteString(string(src[op.I1:op.I2]))
		case Replace, Insert:
			sb.WriteString(op.Text)
		case Delete:
		default:
			return "", fmt.Errorf("%w: opcode %d has unknown tag %q", ErrMalformed, i, op.Tag)
		}
	}

	return sb.String(), nil
}

// ApplyEncoded decodes an encoded diff and applies it to old.
// An empty encoding is the identity.
func ApplyEncoded(old, encoded string) (string, error) {
	if encoded == "" {
		return old, nil
	}

	d, err := Decode(encoded)
	if err != nil {
		return "", err
	}
	return Apply(old, d)
}

// Reconstruct folds Apply over diffs starting from the empty string.
// The diffs must be ordered oldest to newest.
func Reconstruct(diffs []Diff) (string, error) {
	text := ""
	for i, d := range diffs {
		next, err := Apply(text, d)
		if err != nil {
			return "", fmt.Errorf("diff %d: %w", i, err)
		}
		text = next
	}
	return text, nil
}
