package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"noteful/backend/internal/models"
	"noteful/backend/internal/notes"
)

// NoteStore persists notes and answers the ownership counts the notes
// service needs. Tag ids are populated with a second $in query.
type NoteStore struct {
	notes   *mongo.Collection
	folders *mongo.Collection
	tags    *mongo.Collection
}

var _ notes.Store = (*NoteStore)(nil)

func NewNoteStore(db *mongo.Database) *NoteStore {
	return &NoteStore{
		notes:   db.Collection(NotesCollection),
		folders: db.Collection(FoldersCollection),
		tags:    db.Collection(TagsCollection),
	}
}

func (s *NoteStore) CountFolders(ctx context.Context, userID, folderID primitive.ObjectID) (int64, error) {
	return s.folders.CountDocuments(ctx, bson.M{"_id": folderID, "userId": userID})
}

func (s *NoteStore) CountTags(ctx context.Context, userID primitive.ObjectID, tagIDs []primitive.ObjectID) (int64, error) {
	return s.tags.CountDocuments(ctx, bson.M{
		"_id":    bson.M{"$in": tagIDs},
		"userId": userID,
	})
}

func (s *NoteStore) FindNotes(ctx context.Context, filter notes.Filter) ([]models.PopulatedNote, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := s.notes.Find(ctx, filter.BSON(), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var found []models.Note
	if err := cursor.All(ctx, &found); err != nil {
		return nil, err
	}
	return s.populate(ctx, found)
}

func (s *NoteStore) FindNote(ctx context.Context, id, userID primitive.ObjectID) (*models.PopulatedNote, error) {
	var note models.Note
	err := s.notes.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&note)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.populateOne(ctx, note)
}

func (s *NoteStore) InsertNote(ctx context.Context, note *models.Note) error {
	if note.Tags == nil {
		note.Tags = []primitive.ObjectID{}
	}
	_, err := s.notes.InsertOne(ctx, note)
	return err
}

func (s *NoteStore) UpdateNote(ctx context.Context, id, userID primitive.ObjectID, update notes.NoteUpdate) (*models.PopulatedNote, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var note models.Note
	err := s.notes.FindOneAndUpdate(ctx, bson.M{"_id": id, "userId": userID}, update.BSON(userID), opts).Decode(&note)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.populateOne(ctx, note)
}

func (s *NoteStore) DeleteNote(ctx context.Context, id, userID primitive.ObjectID) error {
	_, err := s.notes.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	return err
}

func (s *NoteStore) populateOne(ctx context.Context, note models.Note) (*models.PopulatedNote, error) {
	populated, err := s.populate(ctx, []models.Note{note})
	if err != nil {
		return nil, err
	}
	return &populated[0], nil
}

func (s *NoteStore) populate(ctx context.Context, found []models.Note) ([]models.PopulatedNote, error) {
	seen := make(map[primitive.ObjectID]bool)
	var ids []primitive.ObjectID
	for _, n := range found {
		for _, id := range n.Tags {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	byID := make(map[primitive.ObjectID]models.Tag, len(ids))
	if len(ids) > 0 {
		cursor, err := s.tags.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		var tags []models.Tag
		if err := cursor.All(ctx, &tags); err != nil {
			return nil, err
		}
		for _, t := range tags {
			byID[t.ID] = t
		}
	}

	out := make([]models.PopulatedNote, 0, len(found))
	for _, n := range found {
		out = append(out, models.Populate(n, byID))
	}
	return out, nil
}
