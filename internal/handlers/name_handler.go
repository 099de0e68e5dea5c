package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"noteful/backend/internal/apperr"
	"noteful/backend/internal/models"
	"noteful/backend/internal/notes"
)

const MsgMissingName = "Missing `name` in request body"

// NamePayload is the body accepted when creating or renaming a folder or tag.
type NamePayload struct {
	Name string `json:"name" binding:"required"`
}

func bindName(c *gin.Context) (string, error) {
	var payload NamePayload
	err := c.ShouldBindJSON(&payload)

	var verrs validator.ValidationErrors
	switch {
	case err == nil:
		return payload.Name, nil
	case errors.Is(err, io.EOF), errors.As(err, &verrs):
		return "", apperr.New(apperr.InvalidInput, MsgMissingName)
	default:
		return "", apperr.Wrap(apperr.InvalidInput, "Invalid request body", err)
	}
}

// NameStore is the storage behind folders and tags. Get and Rename return
// (nil, nil) when the user has no such item.
type NameStore[T any] interface {
	List(ctx context.Context, userID primitive.ObjectID) ([]T, error)
	Get(ctx context.Context, id, userID primitive.ObjectID) (*T, error)
	Create(ctx context.Context, userID primitive.ObjectID, name string) (*T, error)
	Rename(ctx context.Context, id, userID primitive.ObjectID, name string) (*T, error)
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}

// FolderStore is implemented by *database.FolderStore.
type FolderStore = NameStore[models.Folder]

// TagStore is implemented by *database.TagStore.
type TagStore = NameStore[models.Tag]

// NameHandler serves the CRUD routes of a named resource.
type NameHandler[T any] struct {
	store   NameStore[T]
	idOf    func(*T) primitive.ObjectID
	timeout time.Duration
}

func NewFolderHandler(store FolderStore, timeout time.Duration) *NameHandler[models.Folder] {
	return &NameHandler[models.Folder]{
		store:   store,
		idOf:    func(f *models.Folder) primitive.ObjectID { return f.ID },
		timeout: timeout,
	}
}

func NewTagHandler(store TagStore, timeout time.Duration) *NameHandler[models.Tag] {
	return &NameHandler[models.Tag]{
		store:   store,
		idOf:    func(t *models.Tag) primitive.ObjectID { return t.ID },
		timeout: timeout,
	}
}

func (h *NameHandler[T]) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	items, err := h.store.List(ctx, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *NameHandler[T]) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := notes.ParseID(c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	item, err := h.store.Get(ctx, id, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if item == nil {
		_ = c.Error(apperr.New(apperr.NotFound, notes.MsgNotFound))
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *NameHandler[T]) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	name, err := bindName(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	item, err := h.store.Create(ctx, userID, name)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Header("Location", c.Request.URL.Path+"/"+h.idOf(item).Hex())
	c.JSON(http.StatusCreated, item)
}

// Rename handles PUT; name is the only editable field.
func (h *NameHandler[T]) Rename(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := notes.ParseID(c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	name, err := bindName(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	item, err := h.store.Rename(ctx, id, userID, name)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if item == nil {
		_ = c.Error(apperr.New(apperr.NotFound, notes.MsgNotFound))
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete answers 204 whether or not the item existed. Notes that referenced
// it are kept.
func (h *NameHandler[T]) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := notes.ParseID(c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if err := h.store.Delete(ctx, id, userID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
