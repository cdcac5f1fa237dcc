package memories

import (
	"github.com/google/uuid"

	"github.com/JaimeStill/scribe/pkg/query"
	"github.com/JaimeStill/scribe/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "memory_records", "m").
	Project("id", "ID").
	Project("memory_id", "MemoryID").
	Project("source", "Source").
	Project("target", "Target").
	Project("created_at", "CreatedAt").
	Project("changed_at", "ChangedAt")

var newestFirst = query.SortField{
	Field:      "ChangedAt",
	Descending: true,
}

const returning = "id, memory_id, source, target, created_at, changed_at"

func scanRecord(s repository.Scanner) (Record, error) {
	var r Record
	err := s.Scan(
		&r.ID,
		&r.MemoryID,
		&r.Source,
		&r.Target,
		&r.CreatedAt,
		&r.ChangedAt,
	)
	return r, err
}

func scanMatch(s repository.Scanner) (Match, error) {
	var m Match
	err := s.Scan(
		&m.ID,
		&m.MemoryID,
		&m.Source,
		&m.Target,
		&m.CreatedAt,
		&m.ChangedAt,
		&m.Score,
	)
	return m, err
}

func idArgs(ids []uuid.UUID) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
