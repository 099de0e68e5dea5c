package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User maps a verified identity-provider UID to the ObjectID that owns
// folders, tags and notes.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UID       string             `bson:"uid" json:"-"`
	Email     string             `bson:"email" json:"email"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type Folder struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type Tag struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Note is the stored form; Tags holds tag ids.
type Note struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title     string               `bson:"title" json:"title"`
	Content   string               `bson:"content,omitempty" json:"content"`
	FolderID  *primitive.ObjectID  `bson:"folderId,omitempty" json:"folderId,omitempty"`
	Tags      []primitive.ObjectID `bson:"tags" json:"tags"`
	UserID    primitive.ObjectID   `bson:"userId" json:"userId"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// PopulatedNote is a Note with its tag ids resolved to full tags.
type PopulatedNote struct {
	ID        primitive.ObjectID  `json:"id"`
	Title     string              `json:"title"`
	Content   string              `json:"content"`
	FolderID  *primitive.ObjectID `json:"folderId,omitempty"`
	Tags      []Tag               `json:"tags"`
	UserID    primitive.ObjectID  `json:"userId"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// Populate resolves n.Tags against tags, keeping the note's tag order.
// Ids with no matching tag are dropped.
func Populate(n Note, tags map[primitive.ObjectID]Tag) PopulatedNote {
	resolved := make([]Tag, 0, len(n.Tags))
	for _, id := range n.Tags {
		if tag, ok := tags[id]; ok {
			resolved = append(resolved, tag)
		}
	}
	return PopulatedNote{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		FolderID:  n.FolderID,
		Tags:      resolved,
		UserID:    n.UserID,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}
