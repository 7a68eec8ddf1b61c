package db

import (
	"context"
	"fmt"
	"time"

	"github.com/ukydev/bus-maintenance/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SnapshotsCollection is the collection generated snapshots are archived in.
const SnapshotsCollection = "maintenance_snapshots"

// ConnectMongo connects to MongoDB and verifies the connection with a ping.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo uri is empty")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	// Ping to verify connection
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo.Ping error: %w", err)
	}
	return client, nil
}

// MongoSnapshotCollection wraps a MongoDB collection holding snapshots.
type MongoSnapshotCollection struct {
	Collection *mongo.Collection
}

// NewMongoSnapshotCollection returns the snapshot collection of database dbName.
func NewMongoSnapshotCollection(client *mongo.Client, dbName string) *MongoSnapshotCollection {
	return &MongoSnapshotCollection{Collection: client.Database(dbName).Collection(SnapshotsCollection)}
}

// InsertSnapshot stores a complete snapshot as a single document.
func (c *MongoSnapshotCollection) InsertSnapshot(ctx context.Context, snapshot models.Snapshot) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	_, err := c.Collection.InsertOne(ctx, snapshot)
	if err != nil {
		return fmt.Errorf("insert snapshot %s: %w", snapshot.ID, err)
	}
	return nil
}

// CountSnapshots returns how many snapshots have been archived.
func (c *MongoSnapshotCollection) CountSnapshots(ctx context.Context) (int64, error) {
	if c.Collection == nil {
		return 0, fmt.Errorf("mongo collection is nil")
	}
	return c.Collection.CountDocuments(ctx, bson.M{})
}

// DeleteAll deletes all archived snapshots.
func (c *MongoSnapshotCollection) DeleteAll(ctx context.Context) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	_, err := c.Collection.DeleteMany(ctx, bson.M{})
	return err
}
