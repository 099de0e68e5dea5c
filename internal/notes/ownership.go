package notes

import (
	"context"
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"noteful/backend/internal/apperr"
)

// OwnershipStore counts records owned by a user. Every count is scoped by
// userID so a record owned by someone else never matches.
type OwnershipStore interface {
	CountFolders(ctx context.Context, userID, folderID primitive.ObjectID) (int64, error)
	CountTags(ctx context.Context, userID primitive.ObjectID, tagIDs []primitive.ObjectID) (int64, error)
}

// References holds the validated folder and tag ids of a note.
type References struct {
	FolderID *primitive.ObjectID
	Tags     []primitive.ObjectID
}

// Checker confirms that folder and tag references belong to the caller.
type Checker struct {
	store OwnershipStore
}

func NewChecker(store OwnershipStore) *Checker {
	return &Checker{store: store}
}

// ValidateFolder succeeds trivially when folderID is absent. An explicit null
// is not a folder id and is rejected like any other malformed value.
func (c *Checker) ValidateFolder(ctx context.Context, folderID OptionalString, userID primitive.ObjectID) (*primitive.ObjectID, error) {
	if !folderID.Set {
		return nil, nil
	}
	if folderID.Null {
		return nil, apperr.New(apperr.InvalidReference, MsgInvalidFolderID)
	}
	id, err := primitive.ObjectIDFromHex(folderID.Value)
	if err != nil {
		return nil, apperr.New(apperr.InvalidReference, MsgInvalidFolderID)
	}
	count, err := c.store.CountFolders(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, apperr.New(apperr.InvalidReference, MsgInvalidFolderID)
	}
	return &id, nil
}

// ValidateTags succeeds trivially when tags is absent, returning an empty
// list. Otherwise tags must be a JSON array of ids that all resolve to tags
// owned by userID; duplicates count as invalid because they resolve once.
func (c *Checker) ValidateTags(ctx context.Context, tags json.RawMessage, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	if tags == nil {
		return []primitive.ObjectID{}, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(tags, &elems); err != nil || elems == nil {
		return nil, apperr.New(apperr.InvalidInput, MsgTagsNotArray)
	}

	ids := make([]primitive.ObjectID, 0, len(elems))
	for _, elem := range elems {
		var s string
		if err := json.Unmarshal(elem, &s); err != nil {
			return nil, apperr.New(apperr.InvalidReference, MsgInvalidTagID)
		}
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, apperr.New(apperr.InvalidReference, MsgInvalidTagID)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return ids, nil
	}

	count, err := c.store.CountTags(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	if count != int64(len(ids)) {
		return nil, apperr.New(apperr.InvalidReference, MsgInvalidTagID)
	}
	return ids, nil
}

// ValidateReferences runs the folder and tag checks concurrently. The first
// failure cancels the other check and is returned.
func (c *Checker) ValidateReferences(ctx context.Context, in NoteInput, userID primitive.ObjectID) (References, error) {
	var refs References
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		folderID, err := c.ValidateFolder(gctx, in.FolderID, userID)
		refs.FolderID = folderID
		return err
	})
	g.Go(func() error {
		tags, err := c.ValidateTags(gctx, in.Tags, userID)
		refs.Tags = tags
		return err
	})

	if err := g.Wait(); err != nil {
		return References{}, err
	}
	return refs, nil
}
