// Package service holds business logic orchestration across repositories and handlers.
// Kept intentionally lean: only use-case coordination, validation and domain error shaping.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/maxviazov/catalog-service/internal/model"
	"github.com/maxviazov/catalog-service/internal/repository"
	"github.com/maxviazov/catalog-service/pkg/pagination"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// FieldError describes a single invalid field in a client request. Field is
// indexed for bulk payloads, e.g. "[2].sku".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// newInvalidInput builds an aggregated validation error if any field errors are present.
func newInvalidInput(fe []FieldError) error {
	if len(fe) == 0 { // protective case
		return nil
	}
	return &invalidInputError{fields: fe}
}

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	type feIface interface{ Fields() []FieldError }
	if v, ok := err.(feIface); ok && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// MissingProductsError rejects offers that reference SKUs absent from the
// product catalog. All missing SKUs are collected before failing, so the
// client can fix the batch in one round trip.
type MissingProductsError struct {
	SKUs []string
}

func (e *MissingProductsError) Error() string {
	return "products not found for skus: " + strings.Join(e.SKUs, ", ")
}

func (e *MissingProductsError) Unwrap() error { return repository.ErrNotFound }

// ListParams carries the raw pagination request; normalization happens in
// pagination.Compute.
type ListParams struct {
	Page     int
	PageSize int
}

// ProductService defines product use cases. Mutations return the affected
// entities plus any post-commit warnings (event publishing is best-effort,
// failures never undo a persisted change).
type ProductService interface {
	Create(ctx context.Context, products []model.Product) ([]model.Product, []string, error)
	List(ctx context.Context, f model.ProductFilters, p ListParams) ([]model.Product, pagination.Metadata, error)
	GetBySKU(ctx context.Context, sku string) (model.Product, error)
	UpdateFull(ctx context.Context, products []model.Product) ([]model.Product, []string, error)
	UpdatePartial(ctx context.Context, patches []model.ProductPatch) ([]model.Product, []string, error)
	Delete(ctx context.Context, skus []string) ([]string, []string, error)
}

// OfferService defines offer use cases. Create verifies every referenced SKU
// exists in the product catalog before persisting anything.
type OfferService interface {
	Create(ctx context.Context, offers []model.Offer) ([]model.Offer, []string, error)
	List(ctx context.Context, f model.OfferFilters, p ListParams) ([]model.Offer, pagination.Metadata, error)
	GetBySKU(ctx context.Context, sku string) (model.Offer, error)
	UpdateFull(ctx context.Context, offers []model.Offer) ([]model.Offer, []string, error)
	UpdatePartial(ctx context.Context, offers []model.Offer) ([]model.Offer, []string, error)
	Delete(ctx context.Context, skus []string) (int64, []string, error)
}
