package main

import (
	"context"
	"errors"
	"gymnotes/training-tracker/internal/api"
	"gymnotes/training-tracker/internal/app"
	"gymnotes/training-tracker/internal/config"
	"gymnotes/training-tracker/internal/inbox"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// @title Training Tracker API
// @version 1.0
// @description API for logging workouts and moving them in and out of spreadsheets.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting Training Tracker Server...")

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("WARN: Could not read .env: %v", err)
	}

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Printf("Configuration loaded (storage driver %q).", cfg.Storage.Driver)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage and Services ---
	application, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("FATAL: Could not initialize application: %v", err)
	}
	defer application.Close()

	if !application.Auth.Enabled() {
		log.Println("WARN: auth.password_hash is empty, the API is open to anyone who can reach it.")
	}

	// --- Background jobs ---
	var background sync.WaitGroup
	if cfg.Import.InboxDir != "" {
		watcher := inbox.NewWatcher(cfg.Import.InboxDir, application.Imports, cfg.Import.Debounce)
		background.Add(1)
		go func() {
			defer background.Done()
			if err := watcher.Run(ctx); err != nil {
				log.Printf("ERROR: Inbox watcher stopped: %v", err)
			}
		}()
	}

	if cfg.Backup.Schedule != "" {
		if application.Backups == nil {
			log.Println("WARN: backup.schedule is set but object storage is not configured, backups disabled.")
		} else if err := application.Backups.Start(cfg.Backup.Schedule); err != nil {
			log.Fatalf("FATAL: %v", err)
		}
	}

	// --- Initialize Gin Engine ---
	router := gin.Default() // Includes Logger and Recovery middleware

	log.Println("Setting up API routes...")
	api.SetupRoutes(router, api.Services{
		Auth:      application.Auth,
		Trainings: application.Trainings,
		Import:    application.Imports,
		Export:    application.Exports,
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("ERROR: Server forced to shutdown: %v", err)
	}
	background.Wait()

	log.Println("Server exiting.")
}
