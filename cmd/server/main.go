package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"noteful/backend/internal/auth"
	"noteful/backend/internal/config"
	"noteful/backend/internal/database"
	"noteful/backend/internal/handlers"
	"noteful/backend/internal/logger"
	"noteful/backend/internal/notes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger depends on config, so fall back to a bare production logger
		zap.Must(zap.NewProduction()).Fatal("invalid configuration", zap.Error(err))
	}

	log := logger.New(cfg.Environment, cfg.LogFilePath)
	defer func() { _ = log.Sync() }()

	if !cfg.DotenvLoaded {
		log.Info("no .env file found, relying on environment variables")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Database
	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal("failed to connect to mongodb", zap.Error(err))
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Warn("mongodb disconnect", zap.Error(err))
		}
	}()
	log.Info("connected to mongodb", zap.String("db", cfg.DBName))

	db := client.Database(cfg.DBName)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatal("failed to create indexes", zap.Error(err))
	}

	// Initialize Firebase Admin SDK from Environment Variable
	authClient, err := auth.NewClient(ctx, cfg.FirebaseKeyData)
	if err != nil {
		log.Fatal("failed to initialize firebase auth", zap.Error(err))
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Notes:          notes.NewService(database.NewNoteStore(db), log),
		Folders:        database.NewFolderStore(db),
		Tags:           database.NewTagStore(db),
		Verifier:       authClient,
		Users:          database.NewUserStore(db),
		Logger:         log,
		AllowedOrigins: cfg.AllowedOrigins(),
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Environment))
	if err := serve(ctx, srv, log); err != nil {
		// returning keeps the deferred disconnect and log sync
		log.Error("server stopped", zap.Error(err))
	}
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully. A
// listen failure is returned instead of exiting the process.
func serve(ctx context.Context, srv *http.Server, log *zap.Logger) error {
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
