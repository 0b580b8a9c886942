package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/maxviazov/catalog-service/internal/event"
	"github.com/maxviazov/catalog-service/internal/model"
	"github.com/maxviazov/catalog-service/internal/repository"
	"github.com/maxviazov/catalog-service/pkg/pagination"
	"github.com/rs/zerolog"
)

// productService holds product use-case logic: validation, transactional
// persistence and post-commit event publishing.
type productService struct {
	repo            repository.ProductRepository
	tx              repository.TxManager
	bus             event.Bus
	topic           string
	defaultPageSize int
	log             zerolog.Logger
}

func NewProductService(
	repo repository.ProductRepository,
	tx repository.TxManager,
	bus event.Bus,
	topic string,
	defaultPageSize int,
	logger zerolog.Logger,
) ProductService {
	l := logger.With().Str("module", "service").Str("component", "product").Logger()
	return &productService{repo: repo, tx: tx, bus: bus, topic: topic, defaultPageSize: defaultPageSize, log: l}
}

func validateProducts(products []model.Product, full bool) error {
	var ferrs []FieldError
	if len(products) == 0 {
		return newInvalidInput([]FieldError{{Field: "body", Message: "must be a non-empty array"}})
	}
	for i, p := range products {
		ferrs = requireSKU(i, p.SKU, ferrs)
		if full {
			if strings.TrimSpace(p.Title) == "" {
				ferrs = append(ferrs, FieldError{Field: fmt.Sprintf("[%d].title", i), Message: "must not be empty"})
			}
			if strings.TrimSpace(p.CategoryCode) == "" {
				ferrs = append(ferrs, FieldError{Field: fmt.Sprintf("[%d].category_code", i), Message: "must not be empty"})
			}
			if strings.TrimSpace(p.Description) == "" {
				ferrs = append(ferrs, FieldError{Field: fmt.Sprintf("[%d].description", i), Message: "must not be empty"})
			}
			if p.IsPublished == nil {
				ferrs = append(ferrs, FieldError{Field: fmt.Sprintf("[%d].is_published", i), Message: "is required"})
			}
		}
		for j, a := range p.Attributes {
			if strings.TrimSpace(a.NameCode) == "" || strings.TrimSpace(a.ValueCode) == "" {
				ferrs = append(ferrs, FieldError{
					Field:   fmt.Sprintf("[%d].attributes[%d]", i, j),
					Message: "name_code and value_code are required",
				})
			}
		}
	}
	return newInvalidInput(ferrs)
}

func (s *productService) Create(ctx context.Context, products []model.Product) ([]model.Product, []string, error) {
	start := time.Now()
	if err := validateProducts(products, true); err != nil {
		return nil, nil, err
	}

	var created []model.Product
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.repo.Create(ctx, products)
		return err
	})
	if err != nil {
		s.log.Error().Err(err).Int("batch", len(products)).Msg("create products failed")
		return nil, nil, err
	}
	s.log.Info().Dur("took", time.Since(start)).Int("created", len(created)).Msg("products created")

	warnings := s.publish(ctx, event.ProductCreated, created)
	return created, warnings, nil
}

func (s *productService) List(ctx context.Context, f model.ProductFilters, p ListParams) ([]model.Product, pagination.Metadata, error) {
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		s.log.Error().Err(err).Msg("count products failed")
		return nil, pagination.Metadata{}, err
	}
	meta, err := pagination.Compute(p.Page, p.PageSize, total, s.defaultPageSize)
	if err != nil {
		return nil, pagination.Metadata{}, newInvalidInput([]FieldError{{Field: "page", Message: err.Error()}})
	}

	items, err := s.repo.List(ctx, f, repository.Page{Limit: meta.Limit(), Offset: meta.Offset()})
	if err != nil {
		s.log.Error().Err(err).Int("page", meta.Page).Msg("list products failed")
		return nil, pagination.Metadata{}, err
	}
	meta.Count = len(items)
	return items, meta, nil
}

func (s *productService) GetBySKU(ctx context.Context, sku string) (model.Product, error) {
	if strings.TrimSpace(sku) == "" {
		return model.Product{}, newInvalidInput([]FieldError{{Field: "sku", Message: "must not be empty"}})
	}
	return s.repo.GetBySKU(ctx, sku)
}

func (s *productService) UpdateFull(ctx context.Context, products []model.Product) ([]model.Product, []string, error) {
	if err := validateProducts(products, true); err != nil {
		return nil, nil, err
	}

	var updated []model.Product
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.repo.UpdateFull(ctx, products)
		return err
	})
	if err != nil {
		s.log.Error().Err(err).Int("batch", len(products)).Msg("update products failed")
		return nil, nil, err
	}

	warnings := s.publish(ctx, event.ProductUpdated, updated)
	return updated, warnings, nil
}

func (s *productService) UpdatePartial(ctx context.Context, patches []model.ProductPatch) ([]model.Product, []string, error) {
	var ferrs []FieldError
	if len(patches) == 0 {
		return nil, nil, newInvalidInput([]FieldError{{Field: "body", Message: "must be a non-empty array"}})
	}
	for i, p := range patches {
		ferrs = requireSKU(i, p.SKU, ferrs)
	}
	if err := newInvalidInput(ferrs); err != nil {
		return nil, nil, err
	}

	var updated []model.Product
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.repo.UpdatePartial(ctx, patches)
		return err
	})
	if err != nil {
		s.log.Error().Err(err).Int("batch", len(patches)).Msg("patch products failed")
		return nil, nil, err
	}

	warnings := s.publish(ctx, event.ProductUpdated, updated)
	return updated, warnings, nil
}

func (s *productService) Delete(ctx context.Context, skus []string) ([]string, []string, error) {
	var ferrs []FieldError
	if len(skus) == 0 {
		return nil, nil, newInvalidInput([]FieldError{{Field: "body", Message: "must be a non-empty array"}})
	}
	for i, sku := range skus {
		ferrs = requireSKU(i, sku, ferrs)
	}
	if err := newInvalidInput(ferrs); err != nil {
		return nil, nil, err
	}

	var deleted []string
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = s.repo.Delete(ctx, skus)
		return err
	})
	if err != nil {
		s.log.Error().Err(err).Int("batch", len(skus)).Msg("delete products failed")
		return nil, nil, err
	}

	events := make([]event.Event, 0, len(deleted))
	now := time.Now()
	for _, sku := range deleted {
		events = append(events, event.New(sku, event.ProductDeleted, map[string]string{"sku": sku}, now))
	}
	warnings := s.publishEvents(ctx, events)
	return deleted, warnings, nil
}

// publish emits one event per product, keyed by SKU. Failures become
// warnings; the mutation already committed and is never rolled back.
func (s *productService) publish(ctx context.Context, name string, products []model.Product) []string {
	events := make([]event.Event, 0, len(products))
	now := time.Now()
	for _, p := range products {
		events = append(events, event.New(p.SKU, name, p, now))
	}
	return s.publishEvents(ctx, events)
}

func (s *productService) publishEvents(ctx context.Context, events []event.Event) []string {
	if err := s.bus.Publish(ctx, s.topic, events); err != nil {
		s.log.Warn().Err(err).Str("topic", s.topic).Msg("event publish failed after commit")
		return []string{"events could not be published: " + err.Error()}
	}
	return nil
}

var _ ProductService = (*productService)(nil)
