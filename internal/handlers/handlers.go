// Package handlers exposes the notes, folders and tags resources over HTTP.
// Handlers attach failures with c.Error; middleware.ErrorHandler renders them.
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"noteful/backend/internal/apperr"
	"noteful/backend/internal/middleware"
)

const defaultTimeout = 10 * time.Second

// currentUser returns the authenticated user id, attaching a 401 when the
// auth middleware did not run.
func currentUser(c *gin.Context) (primitive.ObjectID, bool) {
	id, ok := middleware.ForContext(c.Request.Context())
	if !ok {
		_ = c.Error(apperr.New(apperr.Unauthorized, "Unauthorized"))
	}
	return id, ok
}

func requestContext(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return context.WithTimeout(c.Request.Context(), timeout)
}

// bindJSON decodes the body into obj. An empty body leaves obj untouched.
func bindJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return apperr.Wrap(apperr.InvalidInput, "Invalid request body", err)
	}
	return nil
}

// HealthCheck reports that the process is serving.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
