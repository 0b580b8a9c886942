// Package event defines the domain events emitted after catalog mutations
// and the bus they are published on. Consumers key on event_id, which is the
// mutated aggregate's identifier (sku for products, offer_id for offers).
package event

import (
	"context"
	"time"
)

// Mutation event names.
const (
	ProductCreated = "product.created"
	ProductUpdated = "product.updated"
	ProductDeleted = "product.deleted"
	OfferCreated   = "offer.created"
	OfferUpdated   = "offer.updated"
	OfferDeleted   = "offer.deleted"
)

// Event is the envelope written to the broker. Payload carries the mutated
// entity as it was returned to the client.
type Event struct {
	EventID         string `json:"event_id"`
	EventName       string `json:"event_name"`
	EventDataFormat string `json:"event_data_format"`
	CreationDate    string `json:"creation_date"`
	Timestamp       int64  `json:"timestamp"`
	Payload         any    `json:"payload"`
}

// New builds an event envelope stamped with the given instant.
func New(id, name string, payload any, now time.Time) Event {
	return Event{
		EventID:         id,
		EventName:       name,
		EventDataFormat: "JSON",
		CreationDate:    now.UTC().Format(time.RFC3339),
		Timestamp:       now.UnixMilli(),
		Payload:         payload,
	}
}

// Bus publishes a batch of events to a topic. Implementations must not
// affect the outcome of the mutation that produced the events; a failed
// publish is reported, never rolled back.
type Bus interface {
	Publish(ctx context.Context, topic string, events []Event) error
}

// PublishError wraps a broker failure with the topic it targeted.
type PublishError struct {
	Topic string
	Err   error
}

func (e *PublishError) Error() string { return "publish to " + e.Topic + ": " + e.Err.Error() }
func (e *PublishError) Unwrap() error { return e.Err }
