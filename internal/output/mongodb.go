// internal/output/mongodb.go
package output

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storylens/storylens/pkg/types"
)

// MongoWriter persists records to a MongoDB collection, replacing documents
// by media_id. Records keep their native nesting; no flattening happens
// here.
type MongoWriter struct {
	client     *mongo.Client
	collection *mongo.Collection
	timeout    time.Duration
}

// MongoOptions configures a MongoWriter.
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// NewMongoWriter connects to MongoDB and prepares the target collection.
func NewMongoWriter(opts MongoOptions) (*MongoWriter, error) {
	if opts.URI == "" {
		return nil, fmt.Errorf("MongoDB URI is required")
	}
	if opts.Database == "" {
		return nil, fmt.Errorf("MongoDB database is required")
	}
	if opts.Collection == "" {
		opts.Collection = "story_records"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	collection := client.Database(opts.Database).Collection(opts.Collection)

	// Unique index on media_id backs the replace-by-identity writes.
	indexCtx, indexCancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer indexCancel()
	_, err = collection.Indexes().CreateOne(indexCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "media_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create media_id index: %w", err)
	}

	return &MongoWriter{
		client:     client,
		collection: collection,
		timeout:    opts.Timeout,
	}, nil
}

// recordDocument converts a record to a BSON document through its JSON
// form, so the snake_case field names match the rest of the pipeline.
func recordDocument(r *types.StoryRecord) (bson.M, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Write replaces one document per record, inserting new ones.
func (w *MongoWriter) Write(records []*types.StoryRecord) error {
	if len(records) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(records))
	for _, r := range records {
		doc, err := recordDocument(r)
		if err != nil {
			return fmt.Errorf("failed to encode record %s: %w", r.MediaID, err)
		}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"media_id": r.MediaID}).
			SetReplacement(doc).
			SetUpsert(true))
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	_, err := w.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("failed to bulk write records: %w", err)
	}
	return nil
}

// Flush is a no-op; writes are not buffered.
func (w *MongoWriter) Flush() error { return nil }

// Close disconnects from MongoDB.
func (w *MongoWriter) Close() error {
	if w.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	err := w.client.Disconnect(ctx)
	w.client = nil
	return err
}
