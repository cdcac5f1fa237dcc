// Package glossaries provides exact-match terminology lookups scoped to a
// set of glossaries.
package glossaries

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// Record is one glossary term and its agreed translation.
type Record struct {
	ID         uuid.UUID `json:"id"`
	GlossaryID uuid.UUID `json:"glossary_id"`
	Source     string    `json:"source"`
	Target     string    `json:"target"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateCommand carries the data needed to add a term to a glossary.
type CreateCommand struct {
	GlossaryID uuid.UUID
	Source     string
	Target     string
}

// Normalize returns the NFC form used for stored and looked-up sources.
// Surrounding whitespace is significant: "Effects " and "Effects" are
// different terms.
func Normalize(s string) string {
	return norm.NFC.String(s)
}
