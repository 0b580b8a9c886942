package repository

import (
	"context"

	"github.com/maxviazov/catalog-service/internal/model"
)

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
type TxFunc func(ctx context.Context) error

// TxManager abstracts transactional execution for repositories that support
// it. Bulk product mutations run under one transaction so a batch is applied
// all-or-nothing.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// ProductRepository declares persistence operations for products.
// Implementations surface the domain errors from errors.go rather than
// driver-specific codes; bulk operations are transactional.
type ProductRepository interface {
	Create(ctx context.Context, products []model.Product) ([]model.Product, error)
	List(ctx context.Context, f model.ProductFilters, p Page) ([]model.Product, error)
	GetBySKU(ctx context.Context, sku string) (model.Product, error)
	UpdateFull(ctx context.Context, products []model.Product) ([]model.Product, error)
	UpdatePartial(ctx context.Context, patches []model.ProductPatch) ([]model.Product, error)
	Delete(ctx context.Context, skus []string) ([]string, error)
	Count(ctx context.Context, f model.ProductFilters) (int, error)
}

// OfferRepository declares persistence operations for offers.
//
// Create allocates one offer_id per entity (in input order) before the bulk
// insert and reports duplicate keys as *BatchConflictError. UpdateFull and
// UpdatePartial report partial matches as *BatchNotFoundError, attributing
// every submitted SKU. Delete reports how many documents were removed plus
// which SKUs those were; unknown SKUs are skipped, not an error.
type OfferRepository interface {
	Create(ctx context.Context, offers []model.Offer) ([]model.Offer, error)
	List(ctx context.Context, f model.OfferFilters, p Page) ([]model.Offer, error)
	GetBySKU(ctx context.Context, sku string) (model.Offer, error)
	UpdateFull(ctx context.Context, offers []model.Offer) ([]model.Offer, error)
	UpdatePartial(ctx context.Context, offers []model.Offer) ([]model.Offer, error)
	Delete(ctx context.Context, skus []string) (int64, []string, error)
	Count(ctx context.Context, f model.OfferFilters) (int, error)
}
