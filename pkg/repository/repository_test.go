package repository_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JaimeStill/scribe/pkg/repository"
)

var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("duplicate")
)

func TestMapError(t *testing.T) {
	other := errors.New("some other error")
	check := &pgconn.PgError{Code: "23514"}

	tests := []struct {
		name string
		err  error
		want error
		same bool
	}{
		{name: "nil", err: nil, want: nil, same: true},
		{name: "no rows", err: sql.ErrNoRows, want: errNotFound},
		{name: "wrapped no rows", err: fmt.Errorf("find: %w", sql.ErrNoRows), want: errNotFound},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: errDuplicate},
		{
			name: "foreign key violation",
			err:  &pgconn.PgError{Code: "23503", ConstraintName: "segments_document_id_fkey"},
			want: errNotFound,
		},
		{name: "lock timeout", err: &pgconn.PgError{Code: "55P03"}, want: repository.ErrLockTimeout},
		{name: "other pg error", err: check, want: check, same: true},
		{name: "plain error", err: other, want: other, same: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repository.MapError(tt.err, errNotFound, errDuplicate)
			if tt.same {
				if got != tt.want {
					t.Errorf("MapError() = %v, want %v unchanged", got, tt.want)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("MapError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapErrorLockTimeoutKeepsCause(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "55P03", Message: "canceling statement due to lock timeout"}

	got := repository.MapError(pgErr, errNotFound, errDuplicate)

	var cause *pgconn.PgError
	if !errors.As(got, &cause) || cause != pgErr {
		t.Errorf("MapError() = %v, want the PgError preserved", got)
	}
}
