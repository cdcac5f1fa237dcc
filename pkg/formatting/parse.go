package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed is returned when content holds no JSON value decodable into
// the requested type.
var ErrParseFailed = errors.New("failed to parse response")

var fencePattern = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*\\n?(.*?)\\n?```")

const excerptLimit = 120

// Parse extracts a JSON value of type T from model output. It tries, in
// order: the whole content, the body of each markdown code fence, and the
// first JSON object or array embedded in surrounding prose.
func Parse[T any](content string) (T, error) {
	var result T
	content = strings.TrimSpace(content)

	for _, candidate := range candidates(content) {
		var v T
		if err := json.Unmarshal([]byte(candidate), &v); err == nil {
			return v, nil
		}
	}

	if v, ok := embedded[T](content); ok {
		return v, nil
	}

	return result, fmt.Errorf("%w: %s", ErrParseFailed, excerpt(content))
}

func candidates(content string) []string {
	out := []string{content}
	for _, m := range fencePattern.FindAllStringSubmatch(content, -1) {
		out = append(out, strings.TrimSpace(m[1]))
	}
	return out
}

// embedded decodes the first complete JSON value that starts at an opening
// bracket or brace. Trailing text after the value is ignored.
func embedded[T any](content string) (T, bool) {
	var zero T
	for i, r := range content {
		if r != '[' && r != '{' {
			continue
		}
		var v T
		dec := json.NewDecoder(strings.NewReader(content[i:]))
		if err := dec.Decode(&v); err == nil {
			return v, true
		}
	}
	return zero, false
}

func excerpt(s string) string {
	r := []rune(s)
	if len(r) <= excerptLimit {
		return s
	}
	return string(r[:excerptLimit]) + "..."
}
