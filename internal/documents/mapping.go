package documents

import (
	"github.com/JaimeStill/scribe/internal/formats"
	"github.com/JaimeStill/scribe/pkg/query"
	"github.com/JaimeStill/scribe/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "documents", "d").
	Project("id", "ID").
	Project("name", "Name").
	Project("format", "Format").
	Project("source_lang", "SourceLang").
	Project("target_lang", "TargetLang").
	Project("storage_key", "StorageKey").
	Project("status", "Status").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

const returning = "id, name, format, source_lang, target_lang, storage_key, status, created_at, updated_at"

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for document queries.
// Nil fields are ignored. Name uses case-insensitive contains matching.
type Filters struct {
	Status     *Status       `json:"status,omitempty"`
	Format     *formats.Kind `json:"format,omitempty"`
	Name       *string       `json:"name,omitempty"`
	TargetLang *string       `json:"target_lang,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	var status, format *string
	if f.Status != nil {
		s := string(*f.Status)
		status = &s
	}
	if f.Format != nil {
		s := string(*f.Format)
		format = &s
	}
	return b.
		WhereEquals("Status", status).
		WhereEquals("Format", format).
		WhereContains("Name", f.Name).
		WhereEquals("TargetLang", f.TargetLang)
}

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document
	err := s.Scan(
		&d.ID,
		&d.Name,
		&d.Format,
		&d.SourceLang,
		&d.TargetLang,
		&d.StorageKey,
		&d.Status,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	return d, err
}

func scanMemoryLink(s repository.Scanner) (MemoryLink, error) {
	var l MemoryLink
	err := s.Scan(&l.MemoryID, &l.Mode)
	return l, err
}
