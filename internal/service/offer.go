package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/maxviazov/catalog-service/internal/event"
	"github.com/maxviazov/catalog-service/internal/model"
	"github.com/maxviazov/catalog-service/internal/repository"
	"github.com/maxviazov/catalog-service/pkg/pagination"
	"github.com/rs/zerolog"
)

// offerService coordinates the document store with the product catalog: an
// offer may only be created for a SKU the catalog already knows.
type offerService struct {
	repo            repository.OfferRepository
	products        repository.ProductRepository
	bus             event.Bus
	topic           string
	defaultPageSize int
	log             zerolog.Logger
}

func NewOfferService(
	repo repository.OfferRepository,
	products repository.ProductRepository,
	bus event.Bus,
	topic string,
	defaultPageSize int,
	logger zerolog.Logger,
) OfferService {
	l := logger.With().Str("module", "service").Str("component", "offer").Logger()
	return &offerService{repo: repo, products: products, bus: bus, topic: topic, defaultPageSize: defaultPageSize, log: l}
}

func validateOffers(offers []model.Offer, full bool) error {
	if len(offers) == 0 {
		return newInvalidInput([]FieldError{{Field: "body", Message: "must be a non-empty array"}})
	}
	var ferrs []FieldError
	for i, o := range offers {
		ferrs = requireSKU(i, o.SKU, ferrs)
		if full && o.IsPublished == nil {
			ferrs = append(ferrs, FieldError{Field: fmt.Sprintf("[%d].is_published", i), Message: "is required"})
		}
		ferrs = validatePrices(i, o.Prices, ferrs)
	}
	return newInvalidInput(ferrs)
}

// truncateOfferPrices normalizes every price to two decimals in place.
func truncateOfferPrices(offers []model.Offer) {
	for i := range offers {
		for j := range offers[i].Prices {
			offers[i].Prices[j].Value = truncatePrice(offers[i].Prices[j].Value)
		}
	}
}

// checkProductsExist collects every SKU absent from the product catalog. All
// offers are checked before failing; an unexpected lookup error aborts
// immediately because the result would be unreliable.
func (s *offerService) checkProductsExist(ctx context.Context, offers []model.Offer) error {
	var missing []string
	for _, o := range offers {
		_, err := s.products.GetBySKU(ctx, o.SKU)
		switch {
		case err == nil:
		case errors.Is(err, repository.ErrNotFound):
			missing = append(missing, o.SKU)
		default:
			s.log.Error().Err(err).Str("sku", o.SKU).Msg("product lookup failed")
			return err
		}
	}
	if len(missing) > 0 {
		return &MissingProductsError{SKUs: missing}
	}
	return nil
}

func (s *offerService) Create(ctx context.Context, offers []model.Offer) ([]model.Offer, []string, error) {
	start := time.Now()
	if err := validateOffers(offers, true); err != nil {
		return nil, nil, err
	}
	if err := s.checkProductsExist(ctx, offers); err != nil {
		return nil, nil, err
	}
	truncateOfferPrices(offers)

	created, err := s.repo.Create(ctx, offers)
	if err != nil {
		s.log.Error().Err(err).Int("batch", len(offers)).Msg("create offers failed")
		return nil, nil, err
	}
	s.log.Info().Dur("took", time.Since(start)).Int("created", len(created)).Msg("offers created")

	warnings := s.publish(ctx, event.OfferCreated, created)
	return created, warnings, nil
}

func (s *offerService) List(ctx context.Context, f model.OfferFilters, p ListParams) ([]model.Offer, pagination.Metadata, error) {
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		s.log.Error().Err(err).Msg("count offers failed")
		return nil, pagination.Metadata{}, err
	}
	meta, err := pagination.Compute(p.Page, p.PageSize, total, s.defaultPageSize)
	if err != nil {
		return nil, pagination.Metadata{}, newInvalidInput([]FieldError{{Field: "page", Message: err.Error()}})
	}

	items, err := s.repo.List(ctx, f, repository.Page{Limit: meta.Limit(), Offset: meta.Offset()})
	if err != nil {
		s.log.Error().Err(err).Int("page", meta.Page).Msg("list offers failed")
		return nil, pagination.Metadata{}, err
	}
	meta.Count = len(items)
	return items, meta, nil
}

func (s *offerService) GetBySKU(ctx context.Context, sku string) (model.Offer, error) {
	if strings.TrimSpace(sku) == "" {
		return model.Offer{}, newInvalidInput([]FieldError{{Field: "sku", Message: "must not be empty"}})
	}
	return s.repo.GetBySKU(ctx, sku)
}

func (s *offerService) UpdateFull(ctx context.Context, offers []model.Offer) ([]model.Offer, []string, error) {
	if err := validateOffers(offers, true); err != nil {
		return nil, nil, err
	}
	truncateOfferPrices(offers)

	updated, err := s.repo.UpdateFull(ctx, offers)
	if err != nil {
		s.log.Error().Err(err).Int("batch", len(offers)).Msg("update offers failed")
		return nil, nil, err
	}

	warnings := s.publish(ctx, event.OfferUpdated, updated)
	return updated, warnings, nil
}

func (s *offerService) UpdatePartial(ctx context.Context, offers []model.Offer) ([]model.Offer, []string, error) {
	if err := validateOffers(offers, false); err != nil {
		return nil, nil, err
	}
	truncateOfferPrices(offers)

	updated, err := s.repo.UpdatePartial(ctx, offers)
	if err != nil {
		s.log.Error().Err(err).Int("batch", len(offers)).Msg("patch offers failed")
		return nil, nil, err
	}

	warnings := s.publish(ctx, event.OfferUpdated, updated)
	return updated, warnings, nil
}

func (s *offerService) Delete(ctx context.Context, skus []string) (int64, []string, error) {
	if len(skus) == 0 {
		return 0, nil, newInvalidInput([]FieldError{{Field: "body", Message: "must be a non-empty array"}})
	}
	var ferrs []FieldError
	for i, sku := range skus {
		ferrs = requireSKU(i, sku, ferrs)
	}
	if err := newInvalidInput(ferrs); err != nil {
		return 0, nil, err
	}

	deleted, removed, err := s.repo.Delete(ctx, skus)
	if err != nil {
		s.log.Error().Err(err).Int("batch", len(skus)).Msg("delete offers failed")
		return 0, nil, err
	}

	// Consumers must never see a deletion event for an offer that was not
	// stored, so events follow the removed set, not the submitted one.
	events := make([]event.Event, 0, len(removed))
	now := time.Now()
	for _, sku := range removed {
		events = append(events, event.New(sku, event.OfferDeleted, map[string]string{"sku": sku}, now))
	}
	warnings := s.publishEvents(ctx, events)
	return deleted, warnings, nil
}

// publish emits one event per offer keyed by offer_id.
func (s *offerService) publish(ctx context.Context, name string, offers []model.Offer) []string {
	events := make([]event.Event, 0, len(offers))
	now := time.Now()
	for _, o := range offers {
		events = append(events, event.New(o.OfferID, name, o, now))
	}
	return s.publishEvents(ctx, events)
}

func (s *offerService) publishEvents(ctx context.Context, events []event.Event) []string {
	if err := s.bus.Publish(ctx, s.topic, events); err != nil {
		s.log.Warn().Err(err).Str("topic", s.topic).Msg("event publish failed after commit")
		return []string{"events could not be published: " + err.Error()}
	}
	return nil
}

var _ OfferService = (*offerService)(nil)
