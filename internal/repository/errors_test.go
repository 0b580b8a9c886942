package repository_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/maxviazov/catalog-service/internal/repository"
)

func TestBatchNotFoundError(t *testing.T) {
	err := &repository.BatchNotFoundError{
		SKUsFound:    []string{"S1", "S2"},
		SKUsNotFound: []string{"S3"},
		Updated:      2,
	}
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("must unwrap to ErrNotFound")
	}
	msg := err.Error()
	if !strings.Contains(msg, "2 of 3 updated") || !strings.Contains(msg, "S3") {
		t.Fatalf("message: %q", msg)
	}
}

func TestBatchConflictError(t *testing.T) {
	err := &repository.BatchConflictError{
		SKUsAlreadyExist:     []string{"S1"},
		OfferIDsAlreadyExist: []string{"42"},
	}
	if !errors.Is(err, repository.ErrAlreadyExists) {
		t.Fatalf("must unwrap to ErrAlreadyExists")
	}
	msg := err.Error()
	if !strings.Contains(msg, "S1") || !strings.Contains(msg, "42") {
		t.Fatalf("message: %q", msg)
	}
}

func TestAttributedSingleErrors(t *testing.T) {
	nf := &repository.SKUNotFoundError{SKU: "S9"}
	if !errors.Is(nf, repository.ErrNotFound) || !strings.Contains(nf.Error(), "S9") {
		t.Fatalf("not-found: %v", nf)
	}
	ex := &repository.SKUAlreadyExistsError{SKU: "S9"}
	if !errors.Is(ex, repository.ErrAlreadyExists) || !strings.Contains(ex.Error(), "S9") {
		t.Fatalf("exists: %v", ex)
	}
}

func TestMapPgError(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"unique violation", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, repository.ErrAlreadyExists},
		{"fk violation", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, repository.ErrConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := repository.MapPgError(tc.in)
			if !errors.Is(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}

	passthrough := errors.New("connection refused")
	if got := repository.MapPgError(passthrough); got != passthrough {
		t.Fatalf("unexpected mapping for unrelated error: %v", got)
	}
}
