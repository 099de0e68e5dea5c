package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"noteful/backend/internal/models"
)

type UserStore struct {
	users *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{users: db.Collection(UsersCollection)}
}

// Resolve finds or creates the user for a verified identity-provider UID.
func (s *UserStore) Resolve(ctx context.Context, uid, email string) (*models.User, error) {
	now := time.Now().UTC()
	filter := bson.M{"uid": uid}
	update := bson.M{
		"$set": bson.M{
			"email":     email,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{"createdAt": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var user models.User
	if err := s.users.FindOneAndUpdate(ctx, filter, update, opts).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}
