package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"noteful/backend/internal/apperr"
	"noteful/backend/internal/models"
	"noteful/backend/internal/notes"
)

// NoteService is implemented by *notes.Service.
type NoteService interface {
	List(ctx context.Context, userID primitive.ObjectID, p notes.ListParams) ([]models.PopulatedNote, error)
	Get(ctx context.Context, userID primitive.ObjectID, id string) (*models.PopulatedNote, error)
	Create(ctx context.Context, userID primitive.ObjectID, in notes.NoteInput) (*models.Note, error)
	Update(ctx context.Context, userID primitive.ObjectID, id string, in notes.NoteInput) (*models.PopulatedNote, error)
	Delete(ctx context.Context, userID primitive.ObjectID, id string) error
}

type NoteHandler struct {
	notes   NoteService
	timeout time.Duration
}

func NewNoteHandler(svc NoteService, timeout time.Duration) *NoteHandler {
	return &NoteHandler{notes: svc, timeout: timeout}
}

// GetNotes lists the caller's notes, filtered by searchTerm, folderId and
// tagId query parameters.
func (h *NoteHandler) GetNotes(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var params notes.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		_ = c.Error(apperr.Wrap(apperr.InvalidInput, "Invalid query parameters", err))
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	found, err := h.notes.List(ctx, userID, params)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, found)
}

func (h *NoteHandler) GetNote(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	note, err := h.notes.Get(ctx, userID, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// CreateNote responds 201 with a Location header pointing at the new note.
// Tags in the body are ids, not populated tags.
func (h *NoteHandler) CreateNote(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var in notes.NoteInput
	if err := bindJSON(c, &in); err != nil {
		_ = c.Error(err)
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	note, err := h.notes.Create(ctx, userID, in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Header("Location", c.Request.URL.Path+"/"+note.ID.Hex())
	c.JSON(http.StatusCreated, note)
}

func (h *NoteHandler) UpdateNote(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var in notes.NoteInput
	if err := bindJSON(c, &in); err != nil {
		_ = c.Error(err)
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	note, err := h.notes.Update(ctx, userID, c.Param("id"), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// DeleteNote responds 204 whether or not the note existed.
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if err := h.notes.Delete(ctx, userID, c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
