// Package memories provides translation-memory storage and lookups.
// Sources are stored NFC-normalized so exact and trigram matches compare
// canonical text.
package memories

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// Mode controls whether a document may write back to a linked memory.
type Mode string

const (
	ModeRead  Mode = "read"
	ModeWrite Mode = "write"
)

// Record is a stored source/target pair.
type Record struct {
	ID        uuid.UUID `json:"id"`
	MemoryID  uuid.UUID `json:"memory_id"`
	Source    string    `json:"source"`
	Target    string    `json:"target"`
	CreatedAt time.Time `json:"created_at"`
	ChangedAt time.Time `json:"changed_at"`
}

// Match is a fuzzy lookup result with its trigram similarity score.
type Match struct {
	Record
	Score float64 `json:"score"`
}

// UpsertCommand writes a pair into a write-mode memory. When a record with
// the same source exists it is replaced only if ChangedAt is not older.
type UpsertCommand struct {
	MemoryID  uuid.UUID
	Source    string
	Target    string
	ChangedAt time.Time
}

// Normalize returns the NFC form used for stored and looked-up sources.
// Whitespace is kept so exact lookups stay exact.
func Normalize(s string) string {
	return norm.NFC.String(s)
}
