package mongodb

import (
	"errors"
	"strings"

	"github.com/maxviazov/catalog-service/internal/model"
	"github.com/maxviazov/catalog-service/internal/repository"
	"go.mongodb.org/mongo-driver/mongo"
)

const duplicateKeyCode = 11000

// bulkKey carries the two unique identities of a batch entry so a write
// error can be attributed back to whichever one collided.
type bulkKey struct {
	offerID string
	sku     string
}

func keysFromDocs(docs []offerDoc) []bulkKey {
	keys := make([]bulkKey, 0, len(docs))
	for _, d := range docs {
		keys = append(keys, bulkKey{offerID: d.OfferID, sku: d.SKU})
	}
	return keys
}

func keysFromOffers(offers []model.Offer) []bulkKey {
	keys := make([]bulkKey, 0, len(offers))
	for _, o := range offers {
		keys = append(keys, bulkKey{offerID: o.OfferID, sku: o.SKU})
	}
	return keys
}

// conflictFromWrite inspects a bulk write failure for duplicate-key write
// errors and attributes each one back to the batch entry via its index. The
// colliding index is read from the server message: "offer_id" wins over
// "sku" when both appear, matching the unique index naming. Returns nil when
// the error carries no duplicates, so the caller falls through to a generic
// failure. Inserts and updates share this path; either can trip a unique
// index.
func conflictFromWrite(err error, keys []bulkKey) *repository.BatchConflictError {
	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) {
		return nil
	}
	conflict := &repository.BatchConflictError{}
	for _, we := range bwe.WriteErrors {
		if we.Code != duplicateKeyCode || we.Index < 0 || we.Index >= len(keys) {
			continue
		}
		key := keys[we.Index]
		switch {
		case strings.Contains(we.Message, "offer_id"):
			conflict.OfferIDsAlreadyExist = append(conflict.OfferIDsAlreadyExist, key.offerID)
		case strings.Contains(we.Message, "sku"):
			conflict.SKUsAlreadyExist = append(conflict.SKUsAlreadyExist, key.sku)
		}
	}
	if len(conflict.SKUsAlreadyExist) == 0 && len(conflict.OfferIDsAlreadyExist) == 0 {
		return nil
	}
	return conflict
}

// partitionSKUs splits submitted into those present in existing and those
// missing, preserving submission order in both partitions.
func partitionSKUs(submitted []string, existing map[string]struct{}) (found, notFound []string) {
	for _, sku := range submitted {
		if _, ok := existing[sku]; ok {
			found = append(found, sku)
		} else {
			notFound = append(notFound, sku)
		}
	}
	return found, notFound
}
