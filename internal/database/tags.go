package database

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"noteful/backend/internal/models"
)

const msgTagExists = "Tag name already exists"

// TagStore persists tags. Deleting a tag pulls its id from the user's notes.
type TagStore struct {
	namedStore[models.Tag]
}

func NewTagStore(db *mongo.Database) *TagStore {
	return &TagStore{namedStore[models.Tag]{
		items:     db.Collection(TagsCollection),
		notes:     db.Collection(NotesCollection),
		msgExists: msgTagExists,
		build: func(userID primitive.ObjectID, name string, now time.Time) models.Tag {
			return models.Tag{ID: primitive.NewObjectID(), Name: name, UserID: userID, CreatedAt: now, UpdatedAt: now}
		},
		unlink: func(id primitive.ObjectID) (bson.M, bson.M) {
			return bson.M{"tags": id}, bson.M{"$pull": bson.M{"tags": id}}
		},
	}}
}
