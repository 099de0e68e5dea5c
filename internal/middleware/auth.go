package middleware

import (
	"context"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"noteful/backend/internal/apperr"
	"noteful/backend/internal/models"
)

const (
	MsgMissingAuthHeader = "Authorization header is required"
	MsgInvalidToken      = "Invalid auth token"
)

// TokenVerifier is satisfied by *auth.Client.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// UserResolver maps a verified UID to the local user record.
type UserResolver interface {
	Resolve(ctx context.Context, uid, email string) (*models.User, error)
}

// A private key for context access
type contextKey string

const userContextKey = contextKey("user")

// AuthMiddleware verifies Firebase ID tokens and stores the caller's user id
// in the request context.
func AuthMiddleware(verifier TokenVerifier, users UserResolver, log *zap.Logger) gin.HandlerFunc {
	log = log.Named("auth")
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWith(c, apperr.New(apperr.Unauthorized, MsgMissingAuthHeader))
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		token, err := verifier.VerifyIDToken(c.Request.Context(), tokenString)
		if err != nil {
			log.Debug("id token rejected", zap.Error(err))
			abortWith(c, apperr.Wrap(apperr.Unauthorized, MsgInvalidToken, err))
			return
		}

		email, _ := token.Claims["email"].(string)
		user, err := users.Resolve(c.Request.Context(), token.UID, email)
		if err != nil {
			abortWith(c, err)
			return
		}

		c.Request = c.Request.WithContext(WithUser(c.Request.Context(), user.ID))
		c.Next()
	}
}

// WithUser returns a copy of ctx carrying userID.
func WithUser(ctx context.Context, userID primitive.ObjectID) context.Context {
	return context.WithValue(ctx, userContextKey, userID)
}

// ForContext finds the user id from the context.
func ForContext(ctx context.Context) (primitive.ObjectID, bool) {
	id, ok := ctx.Value(userContextKey).(primitive.ObjectID)
	return id, ok
}

func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
