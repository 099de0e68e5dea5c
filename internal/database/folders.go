package database

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"noteful/backend/internal/models"
)

const msgFolderExists = "Folder name already exists"

// FolderStore persists folders. Deleting a folder unsets folderId on the
// user's notes.
type FolderStore struct {
	namedStore[models.Folder]
}

func NewFolderStore(db *mongo.Database) *FolderStore {
	return &FolderStore{namedStore[models.Folder]{
		items:     db.Collection(FoldersCollection),
		notes:     db.Collection(NotesCollection),
		msgExists: msgFolderExists,
		build: func(userID primitive.ObjectID, name string, now time.Time) models.Folder {
			return models.Folder{ID: primitive.NewObjectID(), Name: name, UserID: userID, CreatedAt: now, UpdatedAt: now}
		},
		unlink: func(id primitive.ObjectID) (bson.M, bson.M) {
			return bson.M{"folderId": id}, bson.M{"$unset": bson.M{"folderId": ""}}
		},
	}}
}
