package glossaries

import (
	"github.com/google/uuid"

	"github.com/JaimeStill/scribe/pkg/query"
	"github.com/JaimeStill/scribe/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "glossary_records", "g").
	Project("id", "ID").
	Project("glossary_id", "GlossaryID").
	Project("source", "Source").
	Project("target", "Target").
	Project("created_at", "CreatedAt")

var newestFirst = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// longestFirst ranks hints so multi-word terms precede the words they contain.
var longestFirst = query.SortField{
	Field:      "length(g.source)",
	Descending: true,
}

func scanRecord(s repository.Scanner) (Record, error) {
	var r Record
	err := s.Scan(
		&r.ID,
		&r.GlossaryID,
		&r.Source,
		&r.Target,
		&r.CreatedAt,
	)
	return r, err
}

func idArgs(ids []uuid.UUID) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
