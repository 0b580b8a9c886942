package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Domain-level errors I prefer to bubble up from repository implementations.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrConflict      = errors.New("conflict")

	// ErrCounterNotInitialized means the offer_id sequence document is missing.
	// Provisioning it is an explicit setup step (scripts/mongo-init.js), so
	// hitting this is an operator fault, not a client one.
	ErrCounterNotInitialized = errors.New("offer_id counter not initialized")
)

// BatchNotFoundError reports a bulk update where fewer entities matched than
// were submitted. Every submitted SKU lands in exactly one of the two lists;
// Updated may be 0, which means total failure.
type BatchNotFoundError struct {
	SKUsFound    []string
	SKUsNotFound []string
	Updated      int
}

func (e *BatchNotFoundError) Error() string {
	return fmt.Sprintf("%d of %d updated; not found: %s",
		e.Updated, e.Updated+len(e.SKUsNotFound), strings.Join(e.SKUsNotFound, ", "))
}

// Unwrap lets callers keep matching with errors.Is(err, ErrNotFound).
func (e *BatchNotFoundError) Unwrap() error { return ErrNotFound }

// BatchConflictError reports unique-constraint violations in a bulk write,
// partitioned by which indexed field collided.
type BatchConflictError struct {
	SKUsAlreadyExist     []string
	OfferIDsAlreadyExist []string
}

func (e *BatchConflictError) Error() string {
	var parts []string
	if len(e.SKUsAlreadyExist) > 0 {
		parts = append(parts, "sku: "+strings.Join(e.SKUsAlreadyExist, ", "))
	}
	if len(e.OfferIDsAlreadyExist) > 0 {
		parts = append(parts, "offer_id: "+strings.Join(e.OfferIDsAlreadyExist, ", "))
	}
	return "duplicate keys (" + strings.Join(parts, "; ") + ")"
}

func (e *BatchConflictError) Unwrap() error { return ErrAlreadyExists }

// SKUNotFoundError names the single missing SKU on lookup/row-level misses.
type SKUNotFoundError struct{ SKU string }

func (e *SKUNotFoundError) Error() string { return "sku " + e.SKU + ": not found" }
func (e *SKUNotFoundError) Unwrap() error { return ErrNotFound }

// SKUAlreadyExistsError names the single colliding SKU on create.
type SKUAlreadyExistsError struct{ SKU string }

func (e *SKUAlreadyExistsError) Error() string { return "sku " + e.SKU + ": already exists" }
func (e *SKUAlreadyExistsError) Unwrap() error { return ErrAlreadyExists }

// MapPgError translates common Postgres error codes to domain errors.
// I only map what I expect to handle explicitly at higher layers; everything
// else passes through as a dependency failure.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return ErrAlreadyExists
		case pgerrcode.ForeignKeyViolation:
			return ErrConflict
		}
	}
	return err
}
