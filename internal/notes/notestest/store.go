// Package notestest provides an in-memory notes.Store for tests.
package notestest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"noteful/backend/internal/models"
	"noteful/backend/internal/notes"
)

// Store keeps notes, folders and tags in maps and counts method calls.
// Setting Err makes every method fail with it.
type Store struct {
	mu      sync.Mutex
	notes   map[primitive.ObjectID]models.Note
	folders map[primitive.ObjectID]models.Folder
	tags    map[primitive.ObjectID]models.Tag
	calls   map[string]int

	Err error
}

var _ notes.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		notes:   make(map[primitive.ObjectID]models.Note),
		folders: make(map[primitive.ObjectID]models.Folder),
		tags:    make(map[primitive.ObjectID]models.Tag),
		calls:   make(map[string]int),
	}
}

func (s *Store) AddFolder(userID primitive.ObjectID, name string) models.Folder {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := models.Folder{ID: primitive.NewObjectID(), Name: name, UserID: userID}
	s.folders[f.ID] = f
	return f
}

func (s *Store) AddTag(userID primitive.ObjectID, name string) models.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := models.Tag{ID: primitive.NewObjectID(), Name: name, UserID: userID}
	s.tags[t.ID] = t
	return t
}

// AddNote stores n as-is, assigning an id when it has none.
func (s *Store) AddNote(n models.Note) models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	if n.Tags == nil {
		n.Tags = []primitive.ObjectID{}
	}
	s.notes[n.ID] = n
	return n
}

// Note returns the stored note with id, if any.
func (s *Store) Note(id primitive.ObjectID) (models.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[id]
	return n, ok
}

// Calls returns how many times the named method ran.
func (s *Store) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

// Writes counts InsertNote, UpdateNote and DeleteNote calls.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls["InsertNote"] + s.calls["UpdateNote"] + s.calls["DeleteNote"]
}

// Reads counts the existence and lookup queries.
func (s *Store) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls["CountFolders"] + s.calls["CountTags"] + s.calls["FindNote"] + s.calls["FindNotes"]
}

func (s *Store) enter(method string) error {
	s.calls[method]++
	return s.Err
}

func (s *Store) CountFolders(_ context.Context, userID, folderID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CountFolders"); err != nil {
		return 0, err
	}
	if f, ok := s.folders[folderID]; ok && f.UserID == userID {
		return 1, nil
	}
	return 0, nil
}

func (s *Store) CountTags(_ context.Context, userID primitive.ObjectID, tagIDs []primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CountTags"); err != nil {
		return 0, err
	}
	seen := make(map[primitive.ObjectID]bool)
	var count int64
	for _, id := range tagIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if t, ok := s.tags[id]; ok && t.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (s *Store) FindNotes(_ context.Context, f notes.Filter) ([]models.PopulatedNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("FindNotes"); err != nil {
		return nil, err
	}
	var matched []models.Note
	for _, n := range s.notes {
		if matches(f, n) {
			matched = append(matched, n)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
	})
	out := make([]models.PopulatedNote, 0, len(matched))
	for _, n := range matched {
		out = append(out, models.Populate(n, s.tags))
	}
	return out, nil
}

func matches(f notes.Filter, n models.Note) bool {
	if n.UserID != f.UserID {
		return false
	}
	if f.SearchTerm != "" {
		term := strings.ToLower(f.SearchTerm)
		if !strings.Contains(strings.ToLower(n.Title), term) && !strings.Contains(strings.ToLower(n.Content), term) {
			return false
		}
	}
	if f.FolderID != nil && (n.FolderID == nil || *n.FolderID != *f.FolderID) {
		return false
	}
	if f.TagID != nil {
		found := false
		for _, id := range n.Tags {
			if id == *f.TagID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (s *Store) FindNote(_ context.Context, id, userID primitive.ObjectID) (*models.PopulatedNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("FindNote"); err != nil {
		return nil, err
	}
	n, ok := s.notes[id]
	if !ok || n.UserID != userID {
		return nil, nil
	}
	p := models.Populate(n, s.tags)
	return &p, nil
}

func (s *Store) InsertNote(_ context.Context, note *models.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("InsertNote"); err != nil {
		return err
	}
	s.notes[note.ID] = *note
	return nil
}

func (s *Store) UpdateNote(_ context.Context, id, userID primitive.ObjectID, u notes.NoteUpdate) (*models.PopulatedNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("UpdateNote"); err != nil {
		return nil, err
	}
	n, ok := s.notes[id]
	if !ok || n.UserID != userID {
		return nil, nil
	}
	if u.Title != nil {
		n.Title = *u.Title
	}
	n.Content = ""
	if u.Content != nil {
		n.Content = *u.Content
	}
	n.FolderID = nil
	if u.FolderID != nil {
		folderID := *u.FolderID
		n.FolderID = &folderID
	}
	n.Tags = append([]primitive.ObjectID{}, u.Tags...)
	n.UserID = userID
	n.UpdatedAt = u.UpdatedAt
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = time.Now().UTC()
	}
	s.notes[id] = n
	p := models.Populate(n, s.tags)
	return &p, nil
}

func (s *Store) DeleteNote(_ context.Context, id, userID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("DeleteNote"); err != nil {
		return err
	}
	if n, ok := s.notes[id]; ok && n.UserID == userID {
		delete(s.notes, id)
	}
	return nil
}
