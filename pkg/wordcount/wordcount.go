// Package wordcount counts translatable words in segment source text.
// Space-delimited scripts are counted per whitespace-separated token;
// Chinese and Japanese runs are segmented with a morphological tokenizer.
package wordcount

import (
	"strings"
	"unicode"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

const symbolPOS = "記号"

// Counter counts words in text.
type Counter struct {
	t *tokenizer.Tokenizer
}

// New creates a Counter backed by the IPA dictionary.
func New() (*Counter, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Counter{t: t}, nil
}

// Count returns the number of words in text. Tokens made only of
// punctuation or symbols do not count.
func (c *Counter) Count(text string) int {
	n := 0
	for _, field := range strings.Fields(text) {
		if hasIdeographic(field) {
			n += c.countIdeographic(field)
			continue
		}
		if hasWordRune(field) {
			n++
		}
	}
	return n
}

func (c *Counter) countIdeographic(field string) int {
	n := 0
	for _, token := range c.t.Tokenize(field) {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		if strings.TrimSpace(token.Surface) == "" {
			continue
		}

		features := token.Features()
		if len(features) > 0 && features[0] == symbolPOS {
			continue
		}
		if !hasWordRune(token.Surface) {
			continue
		}
		n++
	}
	return n
}

func hasIdeographic(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana) {
			return true
		}
	}
	return false
}

func hasWordRune(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
