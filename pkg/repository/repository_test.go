package repository_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JaimeStill/wayfarer/pkg/repository"
)

var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("duplicate")
	errInvalid   = errors.New("invalid")
)

func TestErrorsMap(t *testing.T) {
	all := repository.Errors{NotFound: errNotFound, Duplicate: errDuplicate, Invalid: errInvalid}
	other := errors.New("connection reset")

	tests := []struct {
		name   string
		errors repository.Errors
		in     error
		want   error
	}{
		{"nil", all, nil, nil},
		{"no rows", all, sql.ErrNoRows, errNotFound},
		{"wrapped no rows", all, fmt.Errorf("find: %w", sql.ErrNoRows), errNotFound},
		{"unique violation", all, &pgconn.PgError{Code: "23505"}, errDuplicate},
		{"check violation", all, &pgconn.PgError{Code: "23514"}, errInvalid},
		{"other pg error", all, &pgconn.PgError{Code: "42P01"}, nil},
		{"passthrough", all, other, other},
		{"unmapped no rows", repository.Errors{}, sql.ErrNoRows, sql.ErrNoRows},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.errors.Map(tt.in)
			want := tt.want
			if want == nil {
				want = tt.in
			}
			if !errors.Is(got, want) && got != want {
				t.Errorf("got %v, want %v", got, want)
			}
		})
	}
}
