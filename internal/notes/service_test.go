package notes_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"noteful/backend/internal/apperr"
	"noteful/backend/internal/models"
	"noteful/backend/internal/notes"
	"noteful/backend/internal/notes/notestest"
)

func newService(store *notestest.Store) *notes.Service {
	return notes.NewService(store, zap.NewNop())
}

func TestCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	user := primitive.NewObjectID()

	t.Run("title only", func(t *testing.T) {
		store := notestest.NewStore()
		note, err := newService(store).Create(ctx, user, notes.NoteInput{Title: notes.Some("Shopping")})
		require.NoError(t, err)

		assert.Equal(t, "Shopping", note.Title)
		assert.Equal(t, user, note.UserID)
		assert.Nil(t, note.FolderID)
		assert.Empty(t, note.Tags)
		assert.False(t, note.CreatedAt.IsZero())
		assert.Equal(t, note.CreatedAt, note.UpdatedAt)

		stored, ok := store.Note(note.ID)
		require.True(t, ok)
		assert.Equal(t, "Shopping", stored.Title)
	})

	t.Run("with folder and tags", func(t *testing.T) {
		store := notestest.NewStore()
		folder := store.AddFolder(user, "Home")
		a, b := store.AddTag(user, "a"), store.AddTag(user, "b")

		note, err := newService(store).Create(ctx, user, notes.NoteInput{
			Title:    notes.Some("Plan"),
			Content:  notes.Some("details"),
			FolderID: notes.Some(folder.ID.Hex()),
			Tags:     notes.TagsArray(b.ID.Hex(), a.ID.Hex()),
		})
		require.NoError(t, err)
		assert.Equal(t, "details", note.Content)
		assert.Equal(t, folder.ID, *note.FolderID)
		assert.Equal(t, []primitive.ObjectID{b.ID, a.ID}, note.Tags)
	})

	for name, title := range map[string]notes.OptionalString{
		"missing": {},
		"empty":   notes.Some(""),
		"null":    notes.Null(),
	} {
		t.Run(name+" title writes nothing", func(t *testing.T) {
			store := notestest.NewStore()
			_, err := newService(store).Create(ctx, user, notes.NoteInput{
				Title:    title,
				FolderID: notes.Some(primitive.NewObjectID().Hex()),
			})
			assert.Equal(t, apperr.InvalidInput, apperr.CodeOf(err))
			assert.Equal(t, notes.MsgMissingTitle, apperr.MessageOf(err))
			assert.Zero(t, store.Writes())
			assert.Zero(t, store.Reads())
		})
	}

	t.Run("null folder writes nothing", func(t *testing.T) {
		store := notestest.NewStore()
		_, err := newService(store).Create(ctx, user, notes.NoteInput{Title: notes.Some("x"), FolderID: notes.Null()})
		assert.Equal(t, apperr.InvalidReference, apperr.CodeOf(err))
		assert.Equal(t, notes.MsgInvalidFolderID, apperr.MessageOf(err))
		assert.Zero(t, store.Writes())
	})

	t.Run("foreign folder writes nothing", func(t *testing.T) {
		store := notestest.NewStore()
		folder := store.AddFolder(primitive.NewObjectID(), "Theirs")
		_, err := newService(store).Create(ctx, user, notes.NoteInput{
			Title:    notes.Some("x"),
			FolderID: notes.Some(folder.ID.Hex()),
		})
		assert.Equal(t, apperr.InvalidReference, apperr.CodeOf(err))
		assert.Zero(t, store.Writes())
	})
}

func TestGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	user := primitive.NewObjectID()
	store := notestest.NewStore()
	svc := newService(store)
	tag := store.AddTag(user, "work")
	note := store.AddNote(models.Note{Title: "Mine", UserID: user, Tags: []primitive.ObjectID{tag.ID}})
	foreign := store.AddNote(models.Note{Title: "Theirs", UserID: primitive.NewObjectID()})

	got, err := svc.Get(ctx, user, note.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Mine", got.Title)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "work", got.Tags[0].Name)

	_, err = svc.Get(ctx, user, foreign.ID.Hex())
	assert.True(t, apperr.IsNotFound(err))

	reads := store.Reads()
	_, err = svc.Get(ctx, user, "bad-id")
	assert.Equal(t, apperr.InvalidInput, apperr.CodeOf(err))
	assert.Equal(t, reads, store.Reads())
}

func TestList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	user := primitive.NewObjectID()
	store := notestest.NewStore()
	svc := newService(store)

	folder := store.AddFolder(user, "Recipes")
	tag := store.AddTag(user, "dinner")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	old := store.AddNote(models.Note{Title: "Soup", Content: "Leek and potato", UserID: user, UpdatedAt: base})
	mid := store.AddNote(models.Note{Title: "Pasta", UserID: user, FolderID: &folder.ID, UpdatedAt: base.Add(time.Hour)})
	recent := store.AddNote(models.Note{Title: "Tacos", UserID: user, Tags: []primitive.ObjectID{tag.ID}, UpdatedAt: base.Add(2 * time.Hour)})
	store.AddNote(models.Note{Title: "Soup for someone else", UserID: primitive.NewObjectID(), UpdatedAt: base.Add(3 * time.Hour)})

	ids := func(ns []models.PopulatedNote) []primitive.ObjectID {
		out := make([]primitive.ObjectID, len(ns))
		for i, n := range ns {
			out[i] = n.ID
		}
		return out
	}

	all, err := svc.List(ctx, user, notes.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{recent.ID, mid.ID, old.ID}, ids(all))
	assert.Equal(t, "dinner", all[0].Tags[0].Name)

	found, err := svc.List(ctx, user, notes.ListParams{SearchTerm: "POTATO"})
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{old.ID}, ids(found))

	found, err = svc.List(ctx, user, notes.ListParams{FolderID: folder.ID.Hex()})
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{mid.ID}, ids(found))

	found, err = svc.List(ctx, user, notes.ListParams{TagID: tag.ID.Hex()})
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{recent.ID}, ids(found))

	none, err := svc.List(ctx, primitive.NewObjectID(), notes.ListParams{})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = svc.List(ctx, user, notes.ListParams{FolderID: "zzz"})
	assert.Equal(t, apperr.InvalidInput, apperr.CodeOf(err))
}

func TestUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	user := primitive.NewObjectID()

	setup := func() (*notestest.Store, *notes.Service, models.Note, models.Folder) {
		store := notestest.NewStore()
		folder := store.AddFolder(user, "Home")
		tag := store.AddTag(user, "old")
		note := store.AddNote(models.Note{
			Title:    "Before",
			Content:  "body",
			UserID:   user,
			FolderID: &folder.ID,
			Tags:     []primitive.ObjectID{tag.ID},
		})
		return store, newService(store), note, folder
	}

	t.Run("replaces every editable field", func(t *testing.T) {
		store, svc, note, _ := setup()
		folder := store.AddFolder(user, "Work")
		tag := store.AddTag(user, "new")

		got, err := svc.Update(ctx, user, note.ID.Hex(), notes.NoteInput{
			Title:    notes.Some("After"),
			Content:  notes.Some("rewritten"),
			FolderID: notes.Some(folder.ID.Hex()),
			Tags:     notes.TagsArray(tag.ID.Hex()),
		})
		require.NoError(t, err)
		assert.Equal(t, "After", got.Title)
		assert.Equal(t, "rewritten", got.Content)
		require.NotNil(t, got.FolderID)
		assert.Equal(t, folder.ID, *got.FolderID)
		require.Len(t, got.Tags, 1)
		assert.Equal(t, "new", got.Tags[0].Name)
		assert.False(t, got.UpdatedAt.IsZero())
	})

	t.Run("absent content and folder are removed", func(t *testing.T) {
		store, svc, note, _ := setup()
		got, err := svc.Update(ctx, user, note.ID.Hex(), notes.NoteInput{Title: notes.Some("After")})
		require.NoError(t, err)
		assert.Equal(t, "After", got.Title)
		assert.Empty(t, got.Content)
		assert.Nil(t, got.FolderID)

		stored, _ := store.Note(note.ID)
		assert.Empty(t, stored.Content)
		assert.Nil(t, stored.FolderID)
	})

	t.Run("absent title is kept and tags cleared", func(t *testing.T) {
		_, svc, note, _ := setup()
		got, err := svc.Update(ctx, user, note.ID.Hex(), notes.NoteInput{})
		require.NoError(t, err)
		assert.Equal(t, "Before", got.Title)
		assert.Empty(t, got.Tags)
	})

	t.Run("null folder is rejected before any write", func(t *testing.T) {
		store, svc, note, folder := setup()
		_, err := svc.Update(ctx, user, note.ID.Hex(), notes.NoteInput{Title: notes.Some("After"), FolderID: notes.Null()})
		assert.Equal(t, apperr.InvalidReference, apperr.CodeOf(err))
		assert.Equal(t, notes.MsgInvalidFolderID, apperr.MessageOf(err))
		assert.Zero(t, store.Writes())

		stored, _ := store.Note(note.ID)
		require.NotNil(t, stored.FolderID)
		assert.Equal(t, folder.ID, *stored.FolderID)
	})

	t.Run("empty title is rejected before any write", func(t *testing.T) {
		store, svc, note, _ := setup()
		_, err := svc.Update(ctx, user, note.ID.Hex(), notes.NoteInput{Title: notes.Some("")})
		assert.Equal(t, notes.MsgMissingTitle, apperr.MessageOf(err))
		assert.Zero(t, store.Writes())
	})

	t.Run("malformed id", func(t *testing.T) {
		store, svc, _, _ := setup()
		_, err := svc.Update(ctx, user, "123", notes.NoteInput{Title: notes.Some("x")})
		assert.Equal(t, notes.MsgInvalidID, apperr.MessageOf(err))
		assert.Zero(t, store.Reads())
		assert.Zero(t, store.Writes())
	})

	t.Run("tag owned by another user", func(t *testing.T) {
		store, svc, note, _ := setup()
		foreign := store.AddTag(primitive.NewObjectID(), "theirs")
		_, err := svc.Update(ctx, user, note.ID.Hex(), notes.NoteInput{Tags: notes.TagsArray(foreign.ID.Hex())})
		assert.Equal(t, apperr.InvalidReference, apperr.CodeOf(err))
		assert.Equal(t, notes.MsgInvalidTagID, apperr.MessageOf(err))
		assert.Zero(t, store.Writes())
	})

	t.Run("another user's note is not found", func(t *testing.T) {
		store, svc, note, _ := setup()
		_, err := svc.Update(ctx, primitive.NewObjectID(), note.ID.Hex(), notes.NoteInput{Title: notes.Some("hijack")})
		assert.True(t, apperr.IsNotFound(err))
		stored, _ := store.Note(note.ID)
		assert.Equal(t, "Before", stored.Title)
	})
}

func TestDeleteIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	user := primitive.NewObjectID()
	store := notestest.NewStore()
	svc := newService(store)
	note := store.AddNote(models.Note{Title: "x", UserID: user})

	require.NoError(t, svc.Delete(ctx, primitive.NewObjectID(), note.ID.Hex()))
	_, ok := store.Note(note.ID)
	assert.True(t, ok, "another user's delete must not remove the note")

	require.NoError(t, svc.Delete(ctx, user, note.ID.Hex()))
	require.NoError(t, svc.Delete(ctx, user, note.ID.Hex()))
	_, ok = store.Note(note.ID)
	assert.False(t, ok)

	err := svc.Delete(ctx, user, "nope")
	assert.Equal(t, apperr.InvalidInput, apperr.CodeOf(err))
}

func testMalformedIDsNeverReachStore(t *rapid.T) {
	bad := rapid.StringMatching(`[0-9a-z\-]{0,30}`).Filter(func(s string) bool { return !notes.IsValidID(s) }).Draw(t, "bad")
	where := rapid.SampledFrom([]string{"id", "folderId", "tag"}).Draw(t, "where")

	store := notestest.NewStore()
	svc := newService(store)
	user := primitive.NewObjectID()
	ctx := context.Background()

	var err error
	switch where {
	case "id":
		_, err = svc.Update(ctx, user, bad, notes.NoteInput{Title: notes.Some("x")})
	case "folderId":
		_, err = svc.Create(ctx, user, notes.NoteInput{Title: notes.Some("x"), FolderID: notes.Some(bad)})
	case "tag":
		raw, _ := json.Marshal([]string{bad})
		_, err = svc.Create(ctx, user, notes.NoteInput{Title: notes.Some("x"), Tags: raw})
	}

	code := apperr.CodeOf(err)
	if code != apperr.InvalidInput && code != apperr.InvalidReference {
		t.Fatalf("%s=%q: got %v", where, bad, err)
	}
	if store.Calls("CountFolders")+store.Calls("CountTags")+store.Writes() != 0 {
		t.Fatalf("%s=%q reached the store", where, bad)
	}
}

func TestMalformedIDsNeverReachStore(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testMalformedIDsNeverReachStore)
}
