package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"noteful/backend/internal/middleware"
)

// RouterConfig carries everything NewRouter wires together.
type RouterConfig struct {
	Notes          NoteService
	Folders        FolderStore
	Tags           TagStore
	Verifier       middleware.TokenVerifier
	Users          middleware.UserResolver
	Logger         *zap.Logger
	AllowedOrigins []string
	RequestTimeout time.Duration
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestLogger(cfg.Logger),
		middleware.Recovery(cfg.Logger),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.ErrorHandler(cfg.Logger),
	)
	router.NoRoute(middleware.NotFound)
	router.GET("/health", HealthCheck)

	noteHandler := NewNoteHandler(cfg.Notes, cfg.RequestTimeout)
	folderHandler := NewFolderHandler(cfg.Folders, cfg.RequestTimeout)
	tagHandler := NewTagHandler(cfg.Tags, cfg.RequestTimeout)

	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(cfg.Verifier, cfg.Users, cfg.Logger))
	{
		// NOTE ROUTES
		api.GET("/notes", noteHandler.GetNotes)
		api.GET("/notes/:id", noteHandler.GetNote)
		api.POST("/notes", noteHandler.CreateNote)
		api.PUT("/notes/:id", noteHandler.UpdateNote)
		api.DELETE("/notes/:id", noteHandler.DeleteNote)

		// FOLDER ROUTES
		api.GET("/folders", folderHandler.List)
		api.GET("/folders/:id", folderHandler.Get)
		api.POST("/folders", folderHandler.Create)
		api.PUT("/folders/:id", folderHandler.Rename)
		api.DELETE("/folders/:id", folderHandler.Delete)

		// TAG ROUTES
		api.GET("/tags", tagHandler.List)
		api.GET("/tags/:id", tagHandler.Get)
		api.POST("/tags", tagHandler.Create)
		api.PUT("/tags/:id", tagHandler.Rename)
		api.DELETE("/tags/:id", tagHandler.Delete)
	}
	return router
}
