package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"noteful/backend/internal/apperr"
	"noteful/backend/internal/models"
	"noteful/backend/internal/notes"
	"noteful/backend/internal/notes/notestest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type tokenVerifier map[string]string

func (v tokenVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	uid, ok := v[idToken]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return &auth.Token{UID: uid, Claims: map[string]interface{}{}}, nil
}

type userResolver map[string]primitive.ObjectID

func (r userResolver) Resolve(_ context.Context, uid, email string) (*models.User, error) {
	return &models.User{ID: r[uid], UID: uid, Email: email}, nil
}

// memNames is an in-memory FolderStore; memTags adapts it to TagStore.
type memNames struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]models.Folder
	err   error
}

func newMemNames() *memNames {
	return &memNames{items: make(map[primitive.ObjectID]models.Folder)}
}

func (m *memNames) List(_ context.Context, userID primitive.ObjectID) ([]models.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]models.Folder, 0)
	for _, f := range m.items {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memNames) Get(_ context.Context, id, userID primitive.ObjectID) (*models.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.items[id]
	if !ok || f.UserID != userID {
		return nil, nil
	}
	return &f, nil
}

func (m *memNames) Create(_ context.Context, userID primitive.ObjectID, name string) (*models.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.items {
		if f.UserID == userID && f.Name == name {
			return nil, apperr.New(apperr.InvalidInput, "Folder name already exists")
		}
	}
	f := models.Folder{ID: primitive.NewObjectID(), Name: name, UserID: userID}
	m.items[f.ID] = f
	return &f, nil
}

func (m *memNames) Rename(_ context.Context, id, userID primitive.ObjectID, name string) (*models.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.items[id]
	if !ok || f.UserID != userID {
		return nil, nil
	}
	f.Name = name
	m.items[id] = f
	return &f, nil
}

func (m *memNames) Delete(_ context.Context, id, userID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.items[id]; ok && f.UserID == userID {
		delete(m.items, id)
	}
	return nil
}

// memTags adapts memNames to TagStore.
type memTags struct{ *memNames }

func toTag(f *models.Folder) *models.Tag {
	if f == nil {
		return nil
	}
	return &models.Tag{ID: f.ID, Name: f.Name, UserID: f.UserID}
}

func (m memTags) List(ctx context.Context, userID primitive.ObjectID) ([]models.Tag, error) {
	folders, err := m.memNames.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	tags := make([]models.Tag, 0, len(folders))
	for i := range folders {
		tags = append(tags, *toTag(&folders[i]))
	}
	return tags, nil
}

func (m memTags) Get(ctx context.Context, id, userID primitive.ObjectID) (*models.Tag, error) {
	f, err := m.memNames.Get(ctx, id, userID)
	return toTag(f), err
}

func (m memTags) Create(ctx context.Context, userID primitive.ObjectID, name string) (*models.Tag, error) {
	f, err := m.memNames.Create(ctx, userID, name)
	return toTag(f), err
}

func (m memTags) Rename(ctx context.Context, id, userID primitive.ObjectID, name string) (*models.Tag, error) {
	f, err := m.memNames.Rename(ctx, id, userID, name)
	return toTag(f), err
}

type testServer struct {
	router  *gin.Engine
	store   *notestest.Store
	folders *memNames
	tags    *memNames
	alice   primitive.ObjectID
	bob     primitive.ObjectID
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		store:   notestest.NewStore(),
		folders: newMemNames(),
		tags:    newMemNames(),
		alice:   primitive.NewObjectID(),
		bob:     primitive.NewObjectID(),
	}
	ts.router = NewRouter(RouterConfig{
		Notes:          notes.NewService(ts.store, zap.NewNop()),
		Folders:        ts.folders,
		Tags:           memTags{ts.tags},
		Verifier:       tokenVerifier{"alice-token": "alice", "bob-token": "bob"},
		Users:          userResolver{"alice": ts.alice, "bob": ts.bob},
		Logger:         zap.NewNop(),
		AllowedOrigins: []string{"*"},
		RequestTimeout: time.Second,
	})
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
