package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document is the schemaless record shape handled by the store. Handlers
// pass request bodies through as documents; the store decodes results back
// into the same shape.
type Document = map[string]any

// Store abstracts the document database. Operations address a single
// document in a named collection; there is no multi-document atomicity.
type Store interface {
	Insert(ctx context.Context, collection string, doc Document) (primitive.ObjectID, error)
	FindAll(ctx context.Context, collection string) ([]Document, error)
	FindOne(ctx context.Context, collection string, id primitive.ObjectID) (Document, error)
	// UpdateMerge applies a shallow field merge and returns the updated
	// document. The "_id" field is stripped from the payload before the
	// merge, even if supplied.
	UpdateMerge(ctx context.Context, collection string, id primitive.ObjectID, partial Document) (Document, error)
	// UpdateField sets a single field and reports how many documents matched.
	UpdateField(ctx context.Context, collection string, id primitive.ObjectID, key string, value any) (int64, error)
	Delete(ctx context.Context, collection string, id primitive.ObjectID) (int64, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// EventPublisher is the write side of the in-process event bus.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}
