package segments

import (
	"database/sql"
	"fmt"

	"github.com/JaimeStill/scribe/internal/formats"
	"github.com/JaimeStill/scribe/pkg/query"
	"github.com/JaimeStill/scribe/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "segments", "s").
	Project("id", "ID").
	Project("document_id", "DocumentID").
	Project("position", "Position").
	Project("source", "Source").
	Project("target", "Target").
	Project("approved", "Approved").
	Project("word_count", "WordCount").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Join("public", "xliff_segments", "x", "LEFT JOIN", "x.segment_id = s.id").
	Project("unit_id", "UnitID").
	Project("state", "State").
	Join("public", "txt_segments", "t", "LEFT JOIN", "t.segment_id = s.id").
	Project("byte_offset", "Offset")

var defaultSort = query.SortField{Field: "Position"}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Approved", f.Approved).
		WhereContains("Source", f.Source)
}

func scanSegment(s repository.Scanner) (Segment, error) {
	var (
		seg    Segment
		unitID sql.NullString
		state  sql.NullString
		offset sql.NullInt64
	)
	err := s.Scan(
		&seg.ID,
		&seg.DocumentID,
		&seg.Position,
		&seg.Source,
		&seg.Target,
		&seg.Approved,
		&seg.WordCount,
		&seg.CreatedAt,
		&seg.UpdatedAt,
		&unitID,
		&state,
		&offset,
	)
	if err != nil {
		return seg, err
	}

	switch {
	case unitID.Valid:
		seg.Locator = formats.XliffLocator{UnitID: unitID.String, State: state.String}
	case offset.Valid:
		seg.Locator = formats.TxtLocator{Offset: offset.Int64}
	}
	return seg, nil
}

// linkage returns the statement that stores a locator's format payload.
func linkage(loc formats.Locator) (string, []any, error) {
	switch l := loc.(type) {
	case formats.XliffLocator:
		return "INSERT INTO xliff_segments(segment_id, unit_id, state) VALUES ($1, $2, $3)",
			[]any{l.UnitID, l.State}, nil
	case formats.TxtLocator:
		return "INSERT INTO txt_segments(segment_id, byte_offset) VALUES ($1, $2)",
			[]any{l.Offset}, nil
	default:
		return "", nil, fmt.Errorf("%w: locator %T", formats.ErrUnknownFormat, loc)
	}
}
