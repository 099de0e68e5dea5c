package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"noteful/backend/internal/apperr"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// ErrorHandler renders the last error attached with c.Error. Server errors
// are logged with their cause; the client only sees the generic message.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		status := apperr.HTTPStatus(apperr.CodeOf(err))
		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.Error(err),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", RequestID(c)),
			)
		}
		if c.Writer.Written() {
			return
		}
		c.JSON(status, ErrorBody{Status: status, Message: apperr.MessageOf(err)})
	}
}

// Recovery turns panics into a logged 500.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", RequestID(c)),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorBody{
			Status:  http.StatusInternalServerError,
			Message: apperr.MessageOf(nil),
		})
	})
}

// NotFound is the NoRoute handler.
func NotFound(c *gin.Context) {
	_ = c.Error(apperr.New(apperr.NotFound, "Not Found"))
}
