// Package app wires configuration into stores and services. Both the HTTP
// server and the command line tool start from here.
package app

import (
	"context"
	"fmt"
	"gymnotes/training-tracker/internal/config"
	"gymnotes/training-tracker/internal/repository/kv"
	"gymnotes/training-tracker/internal/repository/mongo"
	"gymnotes/training-tracker/internal/service"
	"gymnotes/training-tracker/internal/storage"
	"log"
)

// Storage drivers accepted in storage.driver.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverMongo  = "mongo"
	DriverS3     = "s3"
)

// App holds the assembled services.
type App struct {
	Config config.Config

	Store       storage.Store
	FileStorage storage.FileStorage // nil unless the s3 section is filled in

	Auth      service.AuthService
	Trainings service.TrainingService
	Imports   service.ImportService
	Exports   service.ExportService
	Backups   service.BackupService // nil without object storage

	s3      *storage.S3Storage
	closers []func() error
}

// New builds an App from cfg. Call Close when done.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if cfg.Auth.Enabled() && cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwt_secret is required when auth.password_hash is set")
	}

	a := &App{Config: cfg}

	if cfg.S3.Enabled() {
		log.Println("Initializing file storage service...")
		s3Storage, err := storage.NewS3Storage(cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		a.s3 = s3Storage
		a.FileStorage = s3Storage
	}

	store, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Store = store

	trainingRepo := kv.NewTrainingRepository(store, cfg.Storage.Key)

	limits := service.Limits{
		MaxExercises: cfg.Validation.MaxExercises,
		MaxSets:      cfg.Validation.MaxSets,
		MaxReps:      cfg.Validation.MaxReps,
		MaxWeight:    cfg.Validation.MaxWeight,
	}
	pages := service.PageLimits{
		DefaultPageSize: cfg.Pagination.DefaultPageSize,
		MaxPageSize:     cfg.Pagination.MaxPageSize,
	}

	a.Auth = service.NewAuthService(cfg.Auth.PasswordHash, cfg.Auth.JWTSecret, cfg.Auth.TokenExpiration)
	a.Trainings = service.NewTrainingService(trainingRepo, limits, pages)
	a.Imports = service.NewImportService(a.Trainings)

	a.Exports = service.NewExportService(a.Trainings, a.FileStorage, service.ExportOptions{
		SheetName:  cfg.Export.SheetName,
		DateLayout: cfg.Export.DateLayout,
		URLExpiry:  cfg.Export.URLExpiry,
	})
	if a.FileStorage != nil {
		a.Backups = service.NewBackupService(a.Exports, a.FileStorage, cfg.Backup.Keep)
	}
	return a, nil
}

func (a *App) openStore(ctx context.Context) (storage.Store, error) {
	switch a.Config.Storage.Driver {
	case DriverMemory:
		log.Println("WARN: Using in-memory storage, data is lost on exit.")
		return storage.NewMemoryStore(), nil
	case DriverFile, "":
		return storage.NewFileStore(a.Config.Storage.Dir)
	case DriverMongo:
		client, err := mongo.ConnectDB(ctx, a.Config.Database.URI)
		if err != nil {
			return nil, fmt.Errorf("could not connect to MongoDB: %w", err)
		}
		a.closers = append(a.closers, func() error {
			log.Println("Disconnecting MongoDB...")
			return mongo.DisconnectDB(client)
		})
		db := client.Database(a.Config.Database.Name)
		return mongo.NewMongoKVStore(db, a.Config.Database.Collection), nil
	case DriverS3:
		if a.s3 == nil {
			return nil, fmt.Errorf("storage driver %q needs s3.bucket_name and s3.region", DriverS3)
		}
		return a.s3, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", a.Config.Storage.Driver)
}

// Close releases connections opened by New.
func (a *App) Close() {
	if a.Backups != nil {
		a.Backups.Stop()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Printf("ERROR: Shutdown: %v", err)
		}
	}
	a.closers = nil
}
