package pagination

import (
	"fmt"
	"strings"

	"github.com/JaimeStill/scribe/pkg/query"
)

// SortFields is a sort order that can be bound to a command-line flag.
// Each Set call appends the parsed fields, so "--sort Name --sort -CreatedAt"
// and "--sort Name,-CreatedAt" are equivalent.
type SortFields []query.SortField

func (s *SortFields) String() string {
	if s == nil {
		return ""
	}
	parts := make([]string, len(*s))
	for i, f := range *s {
		if f.Descending {
			parts[i] = "-" + f.Field
		} else {
			parts[i] = f.Field
		}
	}
	return strings.Join(parts, ",")
}

func (s *SortFields) Set(value string) error {
	fields := query.ParseSortFields(value)
	if len(fields) == 0 {
		return fmt.Errorf("no sort fields in %q", value)
	}
	*s = append(*s, fields...)
	return nil
}

func (s *SortFields) Type() string {
	return "fields"
}

// PageRequest represents a request for a page of data with optional search and sorting.
type PageRequest struct {
	Page     int
	PageSize int
	Search   *string
	Sort     SortFields
}

// Normalize adjusts the request to ensure valid pagination values based on the config.
func (r *PageRequest) Normalize(cfg Config) {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = cfg.DefaultPageSize
	}
	if r.PageSize > cfg.MaxPageSize {
		r.PageSize = cfg.MaxPageSize
	}
}

// Offset calculates the number of records to skip based on page and page size.
func (r *PageRequest) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// PageResult holds a page of data along with pagination metadata.
type PageResult[T any] struct {
	Data       []T `yaml:"data"`
	Total      int `yaml:"total"`
	Page       int `yaml:"page"`
	PageSize   int `yaml:"page_size"`
	TotalPages int `yaml:"total_pages"`
}

// NewPageResult creates a PageResult with calculated total pages.
func NewPageResult[T any](data []T, total, page, pageSize int) PageResult[T] {
	totalPages := 1
	if pageSize > 0 && total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	if data == nil {
		data = []T{}
	}

	return PageResult[T]{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// Summary describes the position of this page, for example "page 2 of 5 (93 total)".
func (r PageResult[T]) Summary() string {
	return fmt.Sprintf("page %d of %d (%d total)", r.Page, r.TotalPages, r.Total)
}
