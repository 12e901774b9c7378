package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"floorforge/pkg/schema"
)

// MongoStore is a MongoDB-backed document store for server deployments.
// Documents are stored in a single collection keyed by site_id; the bson
// tags on the schema types define the stored shape.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// MongoConfig configures the MongoDB connection.
type MongoConfig struct {
	URI        string // e.g. mongodb://localhost:27017
	Database   string // defaults to "floorforge"
	Collection string // defaults to "layouts"
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "floorforge"
	}
	if cfg.Collection == "" {
		cfg.Collection = "layouts"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb %s: %w", cfg.URI, err)
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, siteID string) (*schema.Document, error) {
	var doc schema.Document
	err := s.collection.FindOne(ctx, bson.M{"site_id": siteID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find layout %s: %w", siteID, err)
	}
	return &doc, nil
}

func (s *MongoStore) Put(ctx context.Context, doc *schema.Document) error {
	ensureSiteID(doc)
	_, err := s.collection.ReplaceOne(ctx,
		bson.M{"site_id": doc.SiteID},
		doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("store layout %s: %w", doc.SiteID, err)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	cursor, err := s.collection.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"site_id": 1}).SetSort(bson.M{"site_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("list layouts: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var row struct {
			SiteID string `bson:"site_id"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode layout row: %w", err)
		}
		ids = append(ids, row.SiteID)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list layouts: %w", err)
	}
	return ids, nil
}

func (s *MongoStore) Delete(ctx context.Context, siteID string) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"site_id": siteID}); err != nil {
		return fmt.Errorf("delete layout %s: %w", siteID, err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
