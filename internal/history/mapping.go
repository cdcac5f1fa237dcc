package history

import (
	"github.com/JaimeStill/scribe/pkg/query"
	"github.com/JaimeStill/scribe/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "segment_history", "h").
	Project("id", "ID").
	Project("segment_id", "SegmentID").
	Project("diff", "Diff").
	Project("author_id", "AuthorID").
	Project("change_type", "ChangeType").
	Project("created_at", "Timestamp")

const returning = "id, segment_id, diff, author_id, change_type, created_at"

var chronological = []query.SortField{
	{Field: "Timestamp"},
	{Field: "h.seq"},
}

var newestFirst = []query.SortField{
	{Field: "Timestamp", Descending: true},
	{Field: "h.seq", Descending: true},
}

func scanEntry(s repository.Scanner) (Entry, error) {
	var e Entry
	err := s.Scan(
		&e.ID,
		&e.SegmentID,
		&e.Diff,
		&e.AuthorID,
		&e.ChangeType,
		&e.Timestamp,
	)
	return e, err
}
