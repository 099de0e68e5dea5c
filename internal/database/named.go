package database

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"noteful/backend/internal/apperr"
)

// namedStore backs the user-owned collections whose documents are just a
// name unique per user: folders and tags.
type namedStore[T any] struct {
	items     *mongo.Collection
	notes     *mongo.Collection
	msgExists string
	build     func(userID primitive.ObjectID, name string, now time.Time) T
	// unlink returns the note filter and update that drop references to a
	// deleted item. The filter is narrowed to the owner by Delete.
	unlink func(id primitive.ObjectID) (bson.M, bson.M)
}

// List returns the user's items ordered by name.
func (s *namedStore[T]) List(ctx context.Context, userID primitive.ObjectID) ([]T, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.items.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]T, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Get returns (nil, nil) when the user has no such item.
func (s *namedStore[T]) Get(ctx context.Context, id, userID primitive.ObjectID) (*T, error) {
	var item T
	err := s.items.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *namedStore[T]) Create(ctx context.Context, userID primitive.ObjectID, name string) (*T, error) {
	item := s.build(userID, name, time.Now().UTC())
	if _, err := s.items.InsertOne(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Wrap(apperr.InvalidInput, s.msgExists, err)
		}
		return nil, err
	}
	return &item, nil
}

// Rename returns (nil, nil) when the user has no such item.
func (s *namedStore[T]) Rename(ctx context.Context, id, userID primitive.ObjectID, name string) (*T, error) {
	update := bson.M{"$set": bson.M{"name": name, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var item T
	err := s.items.FindOneAndUpdate(ctx, bson.M{"_id": id, "userId": userID}, update, opts).Decode(&item)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, nil
	case mongo.IsDuplicateKeyError(err):
		return nil, apperr.Wrap(apperr.InvalidInput, s.msgExists, err)
	case err != nil:
		return nil, err
	}
	return &item, nil
}

// Delete removes the item, then unlinks it from the user's notes. Notes are
// kept.
func (s *namedStore[T]) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	if _, err := s.items.DeleteOne(ctx, bson.M{"_id": id, "userId": userID}); err != nil {
		return err
	}
	filter, update := s.unlink(id)
	filter["userId"] = userID
	_, err := s.notes.UpdateMany(ctx, filter, update)
	return err
}
