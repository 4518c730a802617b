package database

import (
	"context"
	"fmt"
	"time"

	"github.com/stwalsh4118/househunt/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	CollectionLots             = "lots"
	CollectionProperties       = "properties"
	CollectionHunts            = "hunts"
	CollectionTargetProperties = "target_properties"
)

// Mongo wraps a connected client and the application database.
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// NewMongo connects to MongoDB, pings the primary and ensures indexes.
func NewMongo(ctx context.Context, cfg config.MongoConfig) (*Mongo, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	m := &Mongo{Client: client, DB: client.Database(cfg.Database)}
	if err := m.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return m, nil
}

// EnsureIndexes creates the unique indexes backing lot and property identity.
// A null lotNumber is indexed as a value of its own, so the "no number" lot is
// unique per street as well.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	lotIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "street", Value: 1},
			{Key: "city", Value: 1},
			{Key: "province", Value: 1},
			{Key: "country", Value: 1},
			{Key: "lotNumber", Value: 1},
		},
		Options: options.Index().SetName("lots_address_key").SetUnique(true),
	}
	if _, err := m.DB.Collection(CollectionLots).Indexes().CreateOne(ctx, lotIndex); err != nil {
		return fmt.Errorf("failed to create lot index: %w", err)
	}

	propertyIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "lotId", Value: 1},
			{Key: "propertyNumber", Value: 1},
		},
		Options: options.Index().SetName("properties_lot_number_key").SetUnique(true),
	}
	if _, err := m.DB.Collection(CollectionProperties).Indexes().CreateOne(ctx, propertyIndex); err != nil {
		return fmt.Errorf("failed to create property index: %w", err)
	}

	targetIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "huntId", Value: 1}},
		Options: options.Index().SetName("target_properties_hunt_id_idx"),
	}
	if _, err := m.DB.Collection(CollectionTargetProperties).Indexes().CreateOne(ctx, targetIndex); err != nil {
		return fmt.Errorf("failed to create target index: %w", err)
	}

	return nil
}

// Ping checks that the primary is reachable.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
