package notes

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"noteful/backend/internal/apperr"
)

// Client-facing validation messages.
const (
	MsgInvalidID       = "The `id` is not valid"
	MsgMissingTitle    = "Missing `title` in request body"
	MsgInvalidFolderID = "The `folderId` is not valid"
	MsgTagsNotArray    = "The `tags` must be an array"
	MsgInvalidTagID    = "The `tags` array contains an invalid id"
	MsgInvalidTagQuery = "The `tagId` is not valid"
	MsgNotFound        = "Not Found"
)

// IsValidID reports whether s is a well-formed ObjectID: 24 hex characters.
func IsValidID(s string) bool {
	_, err := primitive.ObjectIDFromHex(s)
	return err == nil
}

// ParseID converts a resource id, failing with InvalidInput when malformed.
func ParseID(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, apperr.New(apperr.InvalidInput, MsgInvalidID)
	}
	return id, nil
}
