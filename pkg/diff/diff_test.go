package diff_test

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/JaimeStill/scribe/pkg/diff"
)

var pairs = []struct {
	name string
	old  string
	new  string
}{
	{"both empty", "", ""},
	{"from empty", "", "Translation"},
	{"to empty", "Translation", ""},
	{"identical", "Regional Effects", "Regional Effects"},
	{"single replace", "the cat sat", "the dog sat"},
	{"append", "Hello", "Hello, world"},
	{"prepend", "world", "Hello world"},
	{"delete middle", "a quick brown fox", "a brown fox"},
	{"interleaved", "abcdefg", "axcyegz"},
	{"unrelated", "abc", "xyz"},
	{"cyrillic", "Региональные эффекты", "Региональный эффект"},
	{"cjk", "東京に行きました", "大阪に行きます"},
	{"emoji", "go 🚀 now", "go 🛸 later"},
	{"repeated runes", "aaaaabbbbb", "ababababab"},
}

func TestComputeApplyRoundTrip(t *testing.T) {
	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			d := diff.Compute(tt.old, tt.new)

			got, err := diff.Apply(tt.old, d)
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if got != tt.new {
				t.Errorf("Apply() = %q, want %q", got, tt.new)
			}
		})
	}
}

func TestEncodedRoundTrip(t *testing.T) {
	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			encoded := diff.Compute(tt.old, tt.new).Encode()

			got, err := diff.ApplyEncoded(tt.old, encoded)
			if err != nil {
				t.Fatalf("ApplyEncoded() error = %v", err)
			}
			if got != tt.new {
				t.Errorf("ApplyEncoded() = %q, want %q", got, tt.new)
			}
		})
	}
}

func TestComputeEmpty(t *testing.T) {
	d := diff.Compute("", "")
	if !d.Empty() {
		t.Errorf("Compute(\"\", \"\") ops = %v, want none", d.Ops)
	}
	if d.OldLen != 0 {
		t.Errorf("OldLen = %d, want 0", d.OldLen)
	}
}

func TestComputeOldLenCountsRunes(t *testing.T) {
	d := diff.Compute("héllo", "hello")
	if d.OldLen != 5 {
		t.Errorf("OldLen = %d, want 5", d.OldLen)
	}
}

func TestComputeReplacesInvalidUTF8(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
		want     string
	}{
		{"invalid new", "a", "\xffa\xfe", "\uFFFDa\uFFFD"},
		{"invalid old", "\xffa", "ab", "ab"},
		{"truncated sequence", "", "caf\xc3", "caf\uFFFD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := diff.Compute(tt.old, tt.new)
			got, err := diff.ApplyEncoded(strings.ToValidUTF8(tt.old, "\uFFFD"), d.Encode())
			if err != nil {
				t.Fatalf("ApplyEncoded: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("result %q is not valid UTF-8", got)
			}
		})
	}
}

func TestComputeOpcodes(t *testing.T) {
	tests := []struct {
		name string
		old  string
		new  string
		want []diff.Op
	}{
		{
			"identical",
			"abc", "abc",
			[]diff.Op{{Tag: diff.Equal, I1: 0, I2: 3}},
		},
		{
			"replace middle",
			"the cat sat", "the dog sat",
			[]diff.Op{
				{Tag: diff.Equal, I1: 0, I2: 4},
				{Tag: diff.Replace, I1: 4, I2: 7, Text: "dog"},
				{Tag: diff.Equal, I1: 7, I2: 11},
			},
		},
		{
			"pure insert",
			"", "new",
			[]diff.Op{{Tag: diff.Insert, I1: 0, I2: 0, Text: "new"}},
		},
		{
			"pure delete",
			"old", "",
			[]diff.Op{{Tag: diff.Delete, I1: 0, I2: 3}},
		},
		{
			"insert after prefix",
			"Hello", "Hello!",
			[]diff.Op{
				{Tag: diff.Equal, I1: 0, I2: 5},
				{Tag: diff.Insert, I1: 5, I2: 5, Text: "!"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := diff.Compute(tt.old, tt.new).Ops
			if len(got) != len(tt.want) {
				t.Fatalf("Compute() ops = %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("op %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestApplyEncodedEmptyIsIdentity(t *testing.T) {
	for _, s := range []string{"", "anything", "東京"} {
		got, err := diff.ApplyEncoded(s, "")
		if err != nil {
			t.Fatalf("ApplyEncoded(%q, \"\") error = %v", s, err)
		}
		if got != s {
			t.Errorf("ApplyEncoded(%q, \"\") = %q", s, got)
		}
	}
}

func TestReconstructChain(t *testing.T) {
	texts := []string{
		"Regional",
		"Regional Effects",
		"Региональные эффекты",
		"Региональные эффекты!",
		"",
		"Final text",
	}

	diffs := []diff.Diff{diff.Compute("", texts[0])}
	for i := 1; i < len(texts); i++ {
		diffs = append(diffs, diff.Compute(texts[i-1], texts[i]))
	}

	got, err := diff.Reconstruct(diffs)
	if err != nil {
		t.Fatalf("Reconstruct() error = %v", err)
	}
	if got != texts[len(texts)-1] {
		t.Errorf("Reconstruct() = %q, want %q", got, texts[len(texts)-1])
	}

	mid, err := diff.Reconstruct(diffs[:3])
	if err != nil {
		t.Fatalf("Reconstruct(prefix) error = %v", err)
	}
	if mid != texts[2] {
		t.Errorf("Reconstruct(prefix) = %q, want %q", mid, texts[2])
	}
}

func TestReconstructEmpty(t *testing.T) {
	got, err := diff.Reconstruct(nil)
	if err != nil {
		t.Fatalf("Reconstruct(nil) error = %v", err)
	}
	if got != "" {
		t.Errorf("Reconstruct(nil) = %q, want empty", got)
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{"not json", "{{{"},
		{"missing old_len", `{"ops":[]}`},
		{"negative old_len", `{"ops":[],"old_len":-1}`},
		{"unknown tag", `{"ops":[["?",0,1]],"old_len":1}`},
		{"short equal", `{"ops":[["=",0]],"old_len":1}`},
		{"non-numeric operand", `{"ops":[["-","a",1]],"old_len":1}`},
		{"empty opcode", `{"ops":[[]],"old_len":0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := diff.Decode(tt.encoded)
			if !errors.Is(err, diff.ErrMalformed) {
				t.Errorf("Decode() error = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestApplyRejectsMismatch(t *testing.T) {
	tests := []struct {
		name string
		old  string
		d    diff.Diff
	}{
		{
			"old_len mismatch",
			"abc",
			diff.Diff{OldLen: 5},
		},
		{
			"range past input",
			"abc",
			diff.Diff{OldLen: 3, Ops: []diff.Op{{Tag: diff.Equal, I1: 0, I2: 9}}},
		},
		{
			"inverted range",
			"abc",
			diff.Diff{OldLen: 3, Ops: []diff.Op{{Tag: diff.Delete, I1: 2, I2: 1}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := diff.Apply(tt.old, tt.d); !errors.Is(err, diff.ErrMalformed) {
				t.Errorf("Apply() error = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestEncodeFormat(t *testing.T) {
	got := diff.Compute("the cat", "the dog").Encode()
	want := `{"ops":[["=",0,4],["~",4,7,"dog"]],"old_len":7}`
	if got != want {
		t.Errorf("Encode() = %s, want %s", got, want)
	}
}
