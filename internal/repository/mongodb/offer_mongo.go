package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/maxviazov/catalog-service/internal/model"
	"github.com/maxviazov/catalog-service/internal/repository"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	offersCollection   = "offers"
	countersCollection = "counters"
	offerIDCounter     = "offer_id"
)

type offerDoc struct {
	OfferID     string     `bson:"offer_id"`
	SKU         string     `bson:"sku"`
	IsPublished bool       `bson:"is_published"`
	Prices      []priceDoc `bson:"prices,omitempty"`
}

type priceDoc struct {
	Currency string  `bson:"currency"`
	Type     string  `bson:"type"`
	Value    float64 `bson:"value"`
}

func toDoc(o model.Offer) offerDoc {
	d := offerDoc{OfferID: o.OfferID, SKU: o.SKU}
	if o.IsPublished != nil {
		d.IsPublished = *o.IsPublished
	}
	for _, p := range o.Prices {
		d.Prices = append(d.Prices, priceDoc(p))
	}
	return d
}

func (d offerDoc) toModel() model.Offer {
	published := d.IsPublished
	o := model.Offer{OfferID: d.OfferID, SKU: d.SKU, IsPublished: &published}
	for _, p := range d.Prices {
		o.Prices = append(o.Prices, model.Price(p))
	}
	return o
}

type offerRepository struct {
	offers   *mongo.Collection
	counters *mongo.Collection
	log      zerolog.Logger
}

func NewOfferRepository(db *mongo.Database, logger *zerolog.Logger) repository.OfferRepository {
	l := logger.With().Str("module", "repository").Str("component", "offers").Logger()
	return &offerRepository{
		offers:   db.Collection(offersCollection),
		counters: db.Collection(countersCollection),
		log:      l,
	}
}

// nextOfferID atomically increments the shared counter document and returns
// the new value as a decimal string. The counter must be provisioned up
// front; a missing document is an operator fault, not a client one.
func (r *offerRepository) nextOfferID(ctx context.Context) (string, error) {
	var counter struct {
		SequenceValue int64 `bson:"sequence_value"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": offerIDCounter},
		bson.M{"$inc": bson.M{"sequence_value": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", repository.ErrCounterNotInitialized
		}
		return "", fmt.Errorf("allocate offer_id: %w", err)
	}
	return strconv.FormatInt(counter.SequenceValue, 10), nil
}

// Create allocates offer IDs in input order, then inserts the whole batch
// unordered so one duplicate does not block the rest. Duplicate keys come
// back as *repository.BatchConflictError naming every collided key.
func (r *offerRepository) Create(ctx context.Context, offers []model.Offer) ([]model.Offer, error) {
	docs := make([]offerDoc, 0, len(offers))
	payload := make([]interface{}, 0, len(offers))
	for _, o := range offers {
		id, err := r.nextOfferID(ctx)
		if err != nil {
			return nil, err
		}
		o.OfferID = id
		d := toDoc(o)
		docs = append(docs, d)
		payload = append(payload, d)
	}

	_, err := r.offers.InsertMany(ctx, payload, options.InsertMany().SetOrdered(false))
	if err != nil {
		if conflict := conflictFromWrite(err, keysFromDocs(docs)); conflict != nil {
			return nil, conflict
		}
		return nil, fmt.Errorf("insert offers: %w", err)
	}

	r.log.Debug().Int("offers", len(docs)).Msg("Inserted offer batch")

	out := make([]model.Offer, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func buildOfferFilter(f model.OfferFilters) bson.M {
	filter := bson.M{}
	if f.SKU != "" {
		filter["sku"] = f.SKU
	}
	if f.OfferID != "" {
		filter["offer_id"] = f.OfferID
	}
	return filter
}

func (r *offerRepository) List(ctx context.Context, f model.OfferFilters, page repository.Page) ([]model.Offer, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "offer_id", Value: 1}}).
		SetSkip(int64(page.Offset)).
		SetLimit(int64(page.Limit))
	cur, err := r.offers.Find(ctx, buildOfferFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("find offers: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]model.Offer, 0, page.Limit)
	for cur.Next(ctx) {
		var d offerDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode offer: %w", err)
		}
		out = append(out, d.toModel())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate offers: %w", err)
	}
	return out, nil
}

func (r *offerRepository) GetBySKU(ctx context.Context, sku string) (model.Offer, error) {
	var d offerDoc
	err := r.offers.FindOne(ctx, bson.M{"sku": sku}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Offer{}, &repository.SKUNotFoundError{SKU: sku}
		}
		return model.Offer{}, fmt.Errorf("find offer: %w", err)
	}
	return d.toModel(), nil
}

func (r *offerRepository) Count(ctx context.Context, f model.OfferFilters) (int, error) {
	n, err := r.offers.CountDocuments(ctx, buildOfferFilter(f))
	if err != nil {
		return 0, fmt.Errorf("count offers: %w", err)
	}
	return int(n), nil
}

// UpdateFull replaces the mutable fields of each offer matched by SKU. A nil
// Prices slice clears the stored prices. Matching fewer documents than were
// submitted yields *repository.BatchNotFoundError attributing every SKU.
func (r *offerRepository) UpdateFull(ctx context.Context, offers []model.Offer) ([]model.Offer, error) {
	models := make([]mongo.WriteModel, 0, len(offers))
	for _, o := range offers {
		set := bson.M{"is_published": o.IsPublished != nil && *o.IsPublished}
		update := bson.M{}
		if o.Prices != nil {
			prices := make([]priceDoc, 0, len(o.Prices))
			for _, p := range o.Prices {
				prices = append(prices, priceDoc(p))
			}
			set["prices"] = prices
		} else {
			update["$unset"] = bson.M{"prices": ""}
		}
		update["$set"] = set
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"sku": o.SKU}).
			SetUpdate(update))
	}
	return r.bulkUpdate(ctx, offers, models)
}

// UpdatePartial writes only the fields each offer provides.
func (r *offerRepository) UpdatePartial(ctx context.Context, offers []model.Offer) ([]model.Offer, error) {
	models := make([]mongo.WriteModel, 0, len(offers))
	for _, o := range offers {
		set := bson.M{}
		if o.IsPublished != nil {
			set["is_published"] = *o.IsPublished
		}
		if o.Prices != nil {
			prices := make([]priceDoc, 0, len(o.Prices))
			for _, p := range o.Prices {
				prices = append(prices, priceDoc(p))
			}
			set["prices"] = prices
		}
		// An empty $set is rejected by the server; rewriting the immutable
		// sku keeps a sku-only patch a valid no-op.
		if len(set) == 0 {
			set["sku"] = o.SKU
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"sku": o.SKU}).
			SetUpdate(bson.M{"$set": set}))
	}
	return r.bulkUpdate(ctx, offers, models)
}

func (r *offerRepository) bulkUpdate(ctx context.Context, offers []model.Offer, models []mongo.WriteModel) ([]model.Offer, error) {
	res, err := r.offers.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		// Duplicate-key attribution comes straight from the write error and
		// takes precedence over the matched-count check below.
		if conflict := conflictFromWrite(err, keysFromOffers(offers)); conflict != nil {
			return nil, conflict
		}
		return nil, fmt.Errorf("bulk update offers: %w", err)
	}
	if int(res.MatchedCount) < len(offers) {
		return nil, r.attributeMisses(ctx, offers, res.MatchedCount)
	}
	return r.reload(ctx, offers)
}

// attributeMisses re-queries which of the submitted SKUs actually exist so
// the error can name both partitions, not just a count.
func (r *offerRepository) attributeMisses(ctx context.Context, offers []model.Offer, matched int64) error {
	skus := make([]string, 0, len(offers))
	for _, o := range offers {
		skus = append(skus, o.SKU)
	}
	existing, err := r.existingSKUs(ctx, skus)
	if err != nil {
		return err
	}
	found, notFound := partitionSKUs(skus, existing)
	return &repository.BatchNotFoundError{
		SKUsFound:    found,
		SKUsNotFound: notFound,
		Updated:      int(matched),
	}
}

// existingSKUs returns the subset of skus that have a stored offer.
func (r *offerRepository) existingSKUs(ctx context.Context, skus []string) (map[string]struct{}, error) {
	cur, err := r.offers.Find(ctx,
		bson.M{"sku": bson.M{"$in": skus}},
		options.Find().SetProjection(bson.M{"sku": 1, "_id": 0}),
	)
	if err != nil {
		return nil, fmt.Errorf("query existing skus: %w", err)
	}
	defer cur.Close(ctx)

	existing := make(map[string]struct{}, len(skus))
	for cur.Next(ctx) {
		var d struct {
			SKU string `bson:"sku"`
		}
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode sku: %w", err)
		}
		existing[d.SKU] = struct{}{}
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate skus: %w", err)
	}
	return existing, nil
}

func (r *offerRepository) reload(ctx context.Context, offers []model.Offer) ([]model.Offer, error) {
	out := make([]model.Offer, 0, len(offers))
	for _, o := range offers {
		full, err := r.GetBySKU(ctx, o.SKU)
		if err != nil {
			return nil, err
		}
		out = append(out, full)
	}
	return out, nil
}

// Delete removes every offer matched by SKU and reports the removed count
// together with the SKUs that were actually stored. Unknown SKUs simply do
// not count.
func (r *offerRepository) Delete(ctx context.Context, skus []string) (int64, []string, error) {
	existing, err := r.existingSKUs(ctx, skus)
	if err != nil {
		return 0, nil, err
	}
	removed, _ := partitionSKUs(skus, existing)
	if len(removed) == 0 {
		return 0, nil, nil
	}

	models := make([]mongo.WriteModel, 0, len(removed))
	for _, sku := range removed {
		models = append(models, mongo.NewDeleteOneModel().SetFilter(bson.M{"sku": sku}))
	}
	res, err := r.offers.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, nil, fmt.Errorf("bulk delete offers: %w", err)
	}
	return res.DeletedCount, removed, nil
}

var _ repository.OfferRepository = (*offerRepository)(nil)
