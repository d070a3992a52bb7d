package database

import (
	"context"
	"errors"
	"fmt"

	"atelier/internal/domain"
	"atelier/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Insert stores a new document and returns its store-assigned identifier.
func (d *DB) Insert(ctx context.Context, collection string, doc domain.Document) (primitive.ObjectID, error) {
	res, err := d.db.Collection(collection).InsertOne(ctx, bson.M(doc))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert into %s: %w", collection, err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("insert into %s: unexpected id type %T", collection, res.InsertedID)
	}
	return id, nil
}

func (d *DB) FindAll(ctx context.Context, collection string) ([]domain.Document, error) {
	cursor, err := d.db.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find all in %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	docs := []domain.Document{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s documents: %w", collection, err)
	}
	return docs, nil
}

func (d *DB) FindOne(ctx context.Context, collection string, id primitive.ObjectID) (domain.Document, error) {
	var doc domain.Document
	err := d.db.Collection(collection).FindOne(ctx, bson.M{models.FieldID: id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find one in %s: %w", collection, err)
	}
	return doc, nil
}

// UpdateMerge shallow-merges partial into the document and returns the
// updated state. The identifier field is immutable and stripped from the
// payload first; an empty payload degrades to a plain read.
func (d *DB) UpdateMerge(ctx context.Context, collection string, id primitive.ObjectID, partial domain.Document) (domain.Document, error) {
	set := bson.M{}
	for k, v := range partial {
		if k == models.FieldID {
			continue
		}
		set[k] = v
	}

	if len(set) == 0 {
		return d.FindOne(ctx, collection, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc domain.Document
	err := d.db.Collection(collection).
		FindOneAndUpdate(ctx, bson.M{models.FieldID: id}, bson.M{"$set": set}, opts).
		Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update in %s: %w", collection, err)
	}
	return doc, nil
}

// UpdateField sets a single field and reports the match count; a zero count
// means the document does not exist.
func (d *DB) UpdateField(ctx context.Context, collection string, id primitive.ObjectID, key string, value any) (int64, error) {
	res, err := d.db.Collection(collection).UpdateOne(
		ctx,
		bson.M{models.FieldID: id},
		bson.M{"$set": bson.M{key: value}},
	)
	if err != nil {
		return 0, fmt.Errorf("update field in %s: %w", collection, err)
	}
	return res.MatchedCount, nil
}

func (d *DB) Delete(ctx context.Context, collection string, id primitive.ObjectID) (int64, error) {
	res, err := d.db.Collection(collection).DeleteOne(ctx, bson.M{models.FieldID: id})
	if err != nil {
		return 0, fmt.Errorf("delete in %s: %w", collection, err)
	}
	return res.DeletedCount, nil
}
