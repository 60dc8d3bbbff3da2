package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/anarmmdv/bazar/internal/domain/models"
)

// Archive defines the interface for day-close report storage.
type Archive interface {
	SaveDailyReport(ctx context.Context, report models.DailyReport) error
}

// MongoDBArchive implements the Archive interface for MongoDB.
type MongoDBArchive struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBArchive creates a new MongoDB archive.
func NewMongoDBArchive(ctx context.Context, uri string, dbName string) (*MongoDBArchive, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBArchive{
		client:   client,
		dbName:   dbName,
		collName: "daily_reports",
	}, nil
}

// SaveDailyReport stores one day-close aggregate document.
func (r *MongoDBArchive) SaveDailyReport(ctx context.Context, report models.DailyReport) error {
	collection := r.client.Database(r.dbName).Collection(r.collName)
	_, err := collection.InsertOne(ctx, report)
	if err != nil {
		return fmt.Errorf("failed to insert daily report: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBArchive) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
