package main

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/scribe/internal/formats"
	"github.com/JaimeStill/scribe/internal/memories"
)

func TestKindFor(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		file    string
		want    formats.Kind
		wantErr bool
	}{
		{"xlf extension", "", "guide.xlf", formats.Xliff, false},
		{"xliff extension upper", "", "GUIDE.XLIFF", formats.Xliff, false},
		{"txt extension", "", "notes.txt", formats.Txt, false},
		{"flag wins", "txt", "guide.xlf", formats.Txt, false},
		{"unknown extension", "", "slides.pptx", "", true},
		{"unknown flag", "docx", "notes.txt", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := kindFor(tt.flag, tt.file)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("kindFor(%q, %q) = %q, want error", tt.flag, tt.file, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("kindFor: %v", err)
			}
			if got != tt.want {
				t.Errorf("kindFor(%q, %q) = %q, want %q", tt.flag, tt.file, got, tt.want)
			}
		})
	}
}

func TestLanguageTag(t *testing.T) {
	got, err := languageTag("pt-br")
	if err != nil {
		t.Fatalf("languageTag: %v", err)
	}
	if got != "pt-BR" {
		t.Errorf("languageTag(pt-br) = %q, want pt-BR", got)
	}

	if _, err := languageTag("not a tag"); !errors.Is(err, errUsage) {
		t.Errorf("languageTag error = %v, want errUsage", err)
	}
}

func TestParseMemoryLinks(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	links, err := parseMemoryLinks([]string{a.String(), b.String() + ":write"})
	if err != nil {
		t.Fatalf("parseMemoryLinks: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("len = %d, want 2", len(links))
	}
	if links[0].MemoryID != a || links[0].Mode != memories.ModeRead {
		t.Errorf("links[0] = %+v, want %s read", links[0], a)
	}
	if links[1].MemoryID != b || links[1].Mode != memories.ModeWrite {
		t.Errorf("links[1] = %+v, want %s write", links[1], b)
	}

	bad := []string{
		"not-a-uuid",
		a.String() + ":append",
	}
	for _, v := range bad {
		if _, err := parseMemoryLinks([]string{v}); !errors.Is(err, errUsage) {
			t.Errorf("parseMemoryLinks(%q) error = %v, want errUsage", v, err)
		}
	}
}

func TestParseIDs(t *testing.T) {
	id := uuid.New()

	got, err := parseIDs("glossary", []string{" " + id.String() + " "})
	if err != nil {
		t.Fatalf("parseIDs: %v", err)
	}
	if len(got) != 1 || got[0] != id {
		t.Errorf("parseIDs = %v, want [%s]", got, id)
	}

	if _, err := parseIDs("glossary", []string{"x"}); !errors.Is(err, errUsage) {
		t.Errorf("parseIDs error = %v, want errUsage", err)
	}
}
