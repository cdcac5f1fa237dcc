package diff

import (
	"encoding/json"
	"fmt"
)

// Encode returns the compact JSON form of d used for storage.
func (d Diff) Encode() string {
	if d.Ops == nil {
		d.Ops = []Op{}
	}
	data, _ := json.Marshal(d)
	return string(data)
}

// Decode parses an encoded diff. Invalid input returns ErrMalformed.
func Decode(encoded string) (Diff, error) {
	var raw struct {
		Ops    []Op `json:"ops"`
		OldLen *int `json:"old_len"`
	}

	if err := json.Unmarshal([]byte(encoded), &raw); err != nil {
		return Diff{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if raw.OldLen == nil || *raw.OldLen < 0 {
		return Diff{}, fmt.Errorf("%w: missing old_len", ErrMalformed)
	}

	ops := raw.Ops
	if ops == nil {
		ops = []Op{}
	}
	return Diff{Ops: ops, OldLen: *raw.OldLen}, nil
}

// MarshalJSON encodes an opcode as a positional array:
// ["=",i1,i2], ["~",i1,i2,text], ["-",i1,i2], ["+",i1,text].
func (o Op) MarshalJSON() ([]byte, error) {
	switch o.Tag {
	case Equal, Delete:
		return json.Marshal([]any{o.Tag, o.I1, o.I2})
	case Replace:
		return json.Marshal([]any{o.Tag, o.I1, o.I2, o.Text})
	case Insert:
		return json.Marshal([]any{o.Tag, o.I1, o.Text})
	default:
		return nil, fmt.Errorf("%w: unknown tag %q", ErrMalformed, o.Tag)
	}
}

// UnmarshalJSON decodes the positional array form written by MarshalJSON.
func (o *Op) UnmarshalJSON(data []byte) error {
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: empty opcode", ErrMalformed)
	}

	var tag Tag
	if err := json.Unmarshal(fields[0], &tag); err != nil {
		return fmt.Errorf("%w: opcode tag: %w", ErrMalformed, err)
	}

	var op Op
	op.Tag = tag

	switch tag {
	case Equal, Delete:
		if len(fields) != 3 {
			return fmt.Errorf("%w: %q expects 2 operands, got %d", ErrMalformed, tag, len(fields)-1)
		}
		if err := decodeInts(fields[1:], &op.I1, &op.I2); err != nil {
			return err
		}
	case Replace:
		if len(fields) != 4 {
			return fmt.Errorf("%w: %q expects 3 operands, got %d", ErrMalformed, tag, len(fields)-1)
		}
		if err := decodeInts(fields[1:3], &op.I1, &op.I2); err != nil {
			return err
		}
		if err := json.Unmarshal(fields[3], &op.Text); err != nil {
			return fmt.Errorf("%w: replacement text: %w", ErrMalformed, err)
		}
	case Insert:
		if len(fields) != 3 {
			return fmt.Errorf("%w: %q expects 2 operands, got %d", ErrMalformed, tag, len(fields)-1)
		}
		if err := decodeInts(fields[1:2], &op.I1); err != nil {
			return err
		}
		op.I2 = op.I1
		if err := json.Unmarshal(fields[2], &op.Text); err != nil {
			return fmt.Errorf("%w: inserted text: %w", ErrMalformed, err)
		}
	default:
		return fmt.Errorf("%w: unknown tag %q", ErrMalformed, tag)
	}

	*o = op
	return nil
}

func decodeInts(fields []json.RawMessage, dst ...*int) error {
	for i, f := range fields {
		if err := json.Unmarshal(f, dst[i]); err != nil {
			return fmt.Errorf("%w: operand %d: %w", ErrMalformed, i+1, err)
		}
	}
	return nil
}
