package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/JaimeStill/scribe/internal/documents"
	"github.com/JaimeStill/scribe/internal/formats"
	"github.com/JaimeStill/scribe/internal/memories"
)

var errUsage = errors.New("invalid argument")

// kindFor resolves the document format from an explicit flag value or,
// when empty, from the file extension.
func kindFor(flag, name string) (formats.Kind, error) {
	if flag != "" {
		return formats.ParseKind(strings.ToLower(flag))
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlf", ".xliff":
		return formats.Xliff, nil
	case ".txt":
		return formats.Txt, nil
	default:
		return "", fmt.Errorf("%w: cannot infer format of %q, pass --format", errUsage, name)
	}
}

// languageTag canonicalizes a BCP 47 tag.
func languageTag(s string) (string, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: language %q: %w", errUsage, s, err)
	}
	return tag.String(), nil
}

// parseMemoryLinks reads values of the form <uuid> or <uuid>:<mode>.
// The mode defaults to read.
func parseMemoryLinks(values []string) ([]documents.MemoryLink, error) {
	links := make([]documents.MemoryLink, 0, len(values))
	for _, v := range values {
		raw, mode, found := strings.Cut(v, ":")
		if !found {
			mode = string(memories.ModeRead)
		}

		id, err := parseID("memory", raw)
		if err != nil {
			return nil, err
		}

		m, err := memories.ParseMode(mode)
		if err != nil {
			return nil, fmt.Errorf("%w: memory %s: %w", errUsage, raw, err)
		}

		links = append(links, documents.MemoryLink{MemoryID: id, Mode: m})
	}
	return links, nil
}

func parseIDs(what string, values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := parseID(what, v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseID(what, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s id %q: %w", errUsage, what, s, err)
	}
	return id, nil
}
