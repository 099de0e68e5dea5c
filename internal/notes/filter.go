package notes

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"noteful/backend/internal/apperr"
)

// Filter selects a user's notes. Zero-valued optional fields add no clause.
type Filter struct {
	UserID     primitive.ObjectID
	SearchTerm string
	FolderID   *primitive.ObjectID
	TagID      *primitive.ObjectID
}

// BuildFilter converts list query parameters into a Filter scoped to userID.
func BuildFilter(p ListParams, userID primitive.ObjectID) (Filter, error) {
	f := Filter{UserID: userID, SearchTerm: p.SearchTerm}

	if p.FolderID != "" {
		id, err := primitive.ObjectIDFromHex(p.FolderID)
		if err != nil {
			return Filter{}, apperr.New(apperr.InvalidInput, MsgInvalidFolderID)
		}
		f.FolderID = &id
	}
	if p.TagID != "" {
		id, err := primitive.ObjectIDFromHex(p.TagID)
		if err != nil {
			return Filter{}, apperr.New(apperr.InvalidInput, MsgInvalidTagQuery)
		}
		f.TagID = &id
	}
	return f, nil
}

// BSON renders the filter as a MongoDB query document. The search term is
// matched literally, case-insensitively, against title or content.
func (f Filter) BSON() bson.M {
	filter := bson.M{"userId": f.UserID}

	if f.SearchTerm != "" {
		re := bson.M{"$regex": regexp.QuoteMeta(f.SearchTerm), "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"content": re},
		}
	}
	if f.FolderID != nil {
		filter["folderId"] = *f.FolderID
	}
	if f.TagID != nil {
		filter["tags"] = *f.TagID
	}
	return filter
}
