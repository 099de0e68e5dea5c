package notes

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NoteUpdate describes a PUT, which replaces the note's editable fields.
// A nil Content or FolderID removes the stored value. A nil Title keeps the
// stored title so a note never loses it.
type NoteUpdate struct {
	Title     *string
	Content   *string
	FolderID  *primitive.ObjectID
	Tags      []primitive.ObjectID
	UpdatedAt time.Time
}

// BSON renders the update document. userId is re-asserted on every update.
func (u NoteUpdate) BSON(userID primitive.ObjectID) bson.M {
	tags := u.Tags
	if tags == nil {
		tags = []primitive.ObjectID{}
	}
	set := bson.M{
		"userId":    userID,
		"tags":      tags,
		"updatedAt": u.UpdatedAt,
	}
	unset := bson.M{}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Content != nil {
		set["content"] = *u.Content
	} else {
		unset["content"] = ""
	}
	if u.FolderID != nil {
		set["folderId"] = *u.FolderID
	} else {
		unset["folderId"] = ""
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}
