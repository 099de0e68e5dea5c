// Package notes validates note requests against the caller's folders and
// tags, builds list filters, and delegates storage to a Store.
package notes

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"noteful/backend/internal/apperr"
	"noteful/backend/internal/models"
)

// Store is the persistence the service needs. Find and update methods return
// (nil, nil) when nothing matches id+userID.
type Store interface {
	OwnershipStore
	FindNotes(ctx context.Context, filter Filter) ([]models.PopulatedNote, error)
	FindNote(ctx context.Context, id, userID primitive.ObjectID) (*models.PopulatedNote, error)
	InsertNote(ctx context.Context, note *models.Note) error
	UpdateNote(ctx context.Context, id, userID primitive.ObjectID, update NoteUpdate) (*models.PopulatedNote, error)
	DeleteNote(ctx context.Context, id, userID primitive.ObjectID) error
}

type Service struct {
	store   Store
	checker *Checker
	log     *zap.Logger
	now     func() time.Time
}

func NewService(store Store, log *zap.Logger) *Service {
	return &Service{
		store:   store,
		checker: NewChecker(store),
		log:     log.Named("notes"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// List returns the caller's notes matching p, newest update first.
func (s *Service) List(ctx context.Context, userID primitive.ObjectID, p ListParams) ([]models.PopulatedNote, error) {
	filter, err := BuildFilter(p, userID)
	if err != nil {
		return nil, err
	}
	found, err := s.store.FindNotes(ctx, filter)
	if err != nil {
		return nil, err
	}
	if found == nil {
		found = make([]models.PopulatedNote, 0)
	}
	return found, nil
}

func (s *Service) Get(ctx context.Context, userID primitive.ObjectID, id string) (*models.PopulatedNote, error) {
	noteID, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	note, err := s.store.FindNote(ctx, noteID, userID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, apperr.New(apperr.NotFound, MsgNotFound)
	}
	return note, nil
}

// Create validates in and stores a new note. The returned note carries tag
// ids, not resolved tags.
func (s *Service) Create(ctx context.Context, userID primitive.ObjectID, in NoteInput) (*models.Note, error) {
	if !in.hasTitle() {
		return nil, apperr.New(apperr.InvalidInput, MsgMissingTitle)
	}

	refs, err := s.checker.ValidateReferences(ctx, in, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	note := &models.Note{
		ID:        primitive.NewObjectID(),
		Title:     in.Title.Value,
		Content:   in.Content.Value,
		FolderID:  refs.FolderID,
		Tags:      refs.Tags,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.InsertNote(ctx, note); err != nil {
		return nil, err
	}

	s.log.Debug("note created",
		zap.String("noteId", note.ID.Hex()),
		zap.String("userId", userID.Hex()),
		zap.Int("tags", len(note.Tags)),
	)
	return note, nil
}

// Update replaces the content, folder and tags of the caller's note with
// those in in. Absent content or folder is removed. Title is replaced only
// when present. There is no version check: concurrent updates overwrite each
// other.
func (s *Service) Update(ctx context.Context, userID primitive.ObjectID, id string, in NoteInput) (*models.PopulatedNote, error) {
	noteID, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	if in.Title.Set && !in.hasTitle() {
		return nil, apperr.New(apperr.InvalidInput, MsgMissingTitle)
	}

	refs, err := s.checker.ValidateReferences(ctx, in, userID)
	if err != nil {
		return nil, err
	}

	update := NoteUpdate{FolderID: refs.FolderID, Tags: refs.Tags, UpdatedAt: s.now()}
	if in.Title.Set {
		title := in.Title.Value
		update.Title = &title
	}
	if in.Content.Set && !in.Content.Null {
		content := in.Content.Value
		update.Content = &content
	}

	note, err := s.store.UpdateNote(ctx, noteID, userID, update)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, apperr.New(apperr.NotFound, MsgNotFound)
	}
	s.log.Debug("note updated", zap.String("noteId", noteID.Hex()), zap.String("userId", userID.Hex()))
	return note, nil
}

// Delete removes the caller's note. Deleting a missing note is not an error.
func (s *Service) Delete(ctx context.Context, userID primitive.ObjectID, id string) error {
	noteID, err := ParseID(id)
	if err != nil {
		return err
	}
	return s.store.DeleteNote(ctx, noteID, userID)
}
