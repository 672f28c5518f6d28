package service

import (
	"bytes"
	"context"
	"fmt"
	"gymnotes/training-tracker/internal/storage"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/robfig/cron"
)

const backupPrefix = "backups/"

// BackupService periodically uploads a JSON export to object storage and
// prunes the oldest copies it wrote.
type BackupService interface {
	Start(schedule string) error
	Stop()
	RunOnce(ctx context.Context) (string, error)
}

type backupService struct {
	exportService ExportService
	fileStorage   storage.FileStorage
	keep          int
	now           func() time.Time

	run     sync.Mutex // one backup at a time
	mu      sync.Mutex
	written []string // object keys, oldest first
	cron    *cron.Cron
}

// NewBackupService creates a BackupService that keeps the newest keep backups.
func NewBackupService(exportService ExportService, fileStorage storage.FileStorage, keep int) BackupService {
	if keep <= 0 {
		keep = 1
	}
	return &backupService{
		exportService: exportService,
		fileStorage:   fileStorage,
		keep:          keep,
		now:           time.Now,
	}
}

// Start runs backups on a cron schedule until Stop is called.
func (s *backupService) Start(schedule string) error {
	c := cron.New()
	err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := s.RunOnce(ctx); err != nil {
			log.Printf("ERROR: Scheduled backup failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid backup schedule %q: %w", schedule, err)
	}

	s.mu.Lock()
	s.cron = c
	s.mu.Unlock()

	c.Start()
	log.Printf("INFO: Backups scheduled (%s), keeping %d", schedule, s.keep)
	return nil
}

func (s *backupService) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()
	if c != nil {
		c.Stop()
	}
}

// RunOnce uploads one backup and returns its object key.
func (s *backupService) RunOnce(ctx context.Context) (string, error) {
	s.run.Lock()
	defer s.run.Unlock()

	var buf bytes.Buffer
	if err := s.exportService.Export(ctx, ExportJSON, &buf); err != nil {
		return "", err
	}

	key := s.nextKey(s.now().UTC().Format("20060102T150405Z"))
	if err := s.fileStorage.PutObject(ctx, key, ExportJSON.ContentType(), buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to upload backup: %w", err)
	}
	log.Printf("INFO: Backup written to %s", key)

	s.mu.Lock()
	s.written = append(s.written, key)
	var stale []string
	if len(s.written) > s.keep {
		stale = append(stale, s.written[:len(s.written)-s.keep]...)
		s.written = append([]string(nil), s.written[len(s.written)-s.keep:]...)
	}
	s.mu.Unlock()

	for _, old := range stale {
		if err := s.fileStorage.DeleteObject(ctx, old); err != nil {
			log.Printf("WARN: Could not delete old backup %s: %v", old, err)
		}
	}
	return key, nil
}

// nextKey names a backup after its timestamp, adding a counter when an
// earlier backup from the same second is still tracked.
func (s *backupService) nextKey(stamp string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := fmt.Sprintf("%strainings-%s.json", backupPrefix, stamp)
	for n := 2; slices.Contains(s.written, key); n++ {
		key = fmt.Sprintf("%strainings-%s-%d.json", backupPrefix, stamp, n)
	}
	return key
}
