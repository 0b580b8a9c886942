package mongodb

import (
	"context"

	"github.com/maxviazov/catalog-service/internal/repository"
	"go.mongodb.org/mongo-driver/mongo"
)

type pinger struct{ client *mongo.Client }

// NewPinger adapts the mongo client to the repository.Pinger interface.
func NewPinger(client *mongo.Client) repository.Pinger { return &pinger{client: client} }

func (p *pinger) Ping(ctx context.Context) error { return p.client.Ping(ctx, nil) }
