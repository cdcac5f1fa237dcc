package wordcount_test

import (
	"testing"

	"github.com/JaimeStill/scribe/pkg/wordcount"
)

func TestCount(t *testing.T) {
	c, err := wordcount.New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"whitespace", "   \t\n", 0},
		{"single word", "Translation", 1},
		{"sentence", "Regional Effects are measured yearly.", 5},
		{"punctuation only tokens", "a - b — c", 3},
		{"digits", "2024 results", 2},
		{"cyrillic", "Региональные эффекты", 2},
		{"japanese", "私は学生です", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Count(tt.text); got != tt.want {
				t.Errorf("Count(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestCountJapaneseIgnoresSymbols(t *testing.T) {
	c, err := wordcount.New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	plain := c.Count("東京に行く")
	punctuated := c.Count("東京に行く。")
	if plain != punctuated {
		t.Errorf("Count with 。 = %d, without = %d; want equal", punctuated, plain)
	}
	if plain == 0 {
		t.Error("Count(東京に行く) = 0, want > 0")
	}
}
