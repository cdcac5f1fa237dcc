package formats

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type txtExtractor struct{}

// Extract splits plain text into sentence-like units. A unit ends at a line
// break, at a CJK full stop, or at sentence punctuation followed by
// whitespace. Each unit records the byte offset of its first non-space rune.
func (txtExtractor) Extract(src io.Reader) ([]Unit, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}

	start := 0
	if bytes.HasPrefix(data, utf8BOM) {
		start = len(utf8BOM)
	}

	if !utf8.Valid(data[start:]) {
		return nil, fmt.Errorf("%w: text is not valid UTF-8", ErrMalformed)
	}

	text := string(data)
	units := make([]Unit, 0)

	flush := func(from, to int) {
		chunk := text[from:to]
		trimmed := strings.TrimLeftFunc(chunk, unicode.IsSpace)
		source := strings.TrimRightFunc(trimmed, unicode.IsSpace)
		if source == "" {
			return
		}
		units = append(units, Unit{
			Source:  source,
			Locator: TxtLocator{Offset: int64(from + len(chunk) - len(trimmed))},
		})
	}

	i := start
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		end := i + size

		switch {
		case r == '\n':
			flush(start, i)
			start = end
		case isWideTerminator(r):
			end = skipTerminators(text, end)
			flush(start, end)
			start = end
		case isTerminator(r):
			end = skipTerminators(text, end)
			if end >= len(text) || nextIsSpace(text, end) {
				flush(start, end)
				start = end
			}
		}
		i = end
	}
	flush(start, len(text))

	return units, nil
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '…'
}

func isWideTerminator(r rune) bool {
	return r == '。' || r == '！' || r == '？'
}

func skipTerminators(text string, i int) int {
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isTerminator(r) && !isWideTerminator(r) && r != '"' && r != '\'' && r != '»' && r != '」' {
			break
		}
		i += size
	}
	return i
}

func nextIsSpace(text string, i int) bool {
	r, _ := utf8.DecodeRuneInString(text[i:])
	return unicode.IsSpace(r)
}
