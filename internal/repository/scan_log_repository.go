package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/AkiliNova/in-vent/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ScanLogRepository defines the interface for the append-only scan log
type ScanLogRepository interface {
	// Append stores one scan attempt
	Append(ctx context.Context, entry *domain.ScanLogEntry) error
	// Recent retrieves the newest attempts of a tenant
	Recent(ctx context.Context, tenantID string, limit int) ([]*domain.ScanLogEntry, error)
}

// MongoScanLogRepository implements ScanLogRepository on a MongoDB collection
type MongoScanLogRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoScanLogRepository connects to MongoDB and ensures the tenant/time index
func NewMongoScanLogRepository(ctx context.Context, uri, database, collection string) (*MongoScanLogRepository, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	coll := client.Database(database).Collection(collection)
	_, err = coll.Indexes().CreateOne(connectCtx, mongo.IndexModel{
		Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "scanned_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create scan log index: %w", err)
	}

	return &MongoScanLogRepository{client: client, collection: coll}, nil
}

// Append stores one scan attempt
func (r *MongoScanLogRepository) Append(ctx context.Context, entry *domain.ScanLogEntry) error {
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// Recent retrieves the newest attempts of a tenant
func (r *MongoScanLogRepository) Recent(ctx context.Context, tenantID string, limit int) ([]*domain.ScanLogEntry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "scanned_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"tenant_id": tenantID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := make([]*domain.ScanLogEntry, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Close disconnects from MongoDB
func (r *MongoScanLogRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// NoOpScanLogRepository discards entries when the scan log is disabled
type NoOpScanLogRepository struct{}

// NewNoOpScanLogRepository creates a new NoOpScanLogRepository
func NewNoOpScanLogRepository() *NoOpScanLogRepository {
	return &NoOpScanLogRepository{}
}

// Append discards the entry
func (NoOpScanLogRepository) Append(ctx context.Context, entry *domain.ScanLogEntry) error {
	return nil
}

// Recent returns an empty list
func (NoOpScanLogRepository) Recent(ctx context.Context, tenantID string, limit int) ([]*domain.ScanLogEntry, error) {
	return []*domain.ScanLogEntry{}, nil
}
