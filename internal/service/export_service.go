package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"gymnotes/training-tracker/internal/domain"
	"gymnotes/training-tracker/internal/exporter"
	"gymnotes/training-tracker/internal/storage"
	"io"
	"log"
	"time"
)

var (
	ErrPublishUnavailable = errors.New("object storage is not configured")
	ErrUnknownFormat      = errors.New("unknown export format")
)

// ExportFormat selects the exported file type.
type ExportFormat string

const (
	ExportXLSX ExportFormat = "xlsx"
	ExportJSON ExportFormat = "json"
)

// ParseExportFormat accepts "xlsx" or "json"; an empty value means xlsx.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(s) {
	case "", ExportXLSX:
		return ExportXLSX, nil
	case ExportJSON:
		return ExportJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (f ExportFormat) FileName() string {
	if f == ExportJSON {
		return exporter.JSONFileName
	}
	return exporter.WorkbookFileName
}

func (f ExportFormat) ContentType() string {
	if f == ExportJSON {
		return "application/json"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// ExportOptions carries the workbook layout and the lifetime of published links.
type ExportOptions struct {
	SheetName  string
	DateLayout string
	URLExpiry  time.Duration
}

// PublishedExport points at an uploaded export.
type PublishedExport struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ExportService interface {
	Export(ctx context.Context, format ExportFormat, w io.Writer) error
	// Publish uploads an export and returns a temporary download link.
	Publish(ctx context.Context, format ExportFormat) (*PublishedExport, error)
}

type exportService struct {
	trainingService TrainingService
	fileStorage     storage.FileStorage // nil when object storage is off
	opts            ExportOptions
	now             func() time.Time
}

// NewExportService creates an ExportService. fileStorage may be nil, in which
// case Publish returns ErrPublishUnavailable.
func NewExportService(trainingService TrainingService, fileStorage storage.FileStorage, opts ExportOptions) ExportService {
	if opts.DateLayout == "" {
		opts.DateLayout = exporter.DefaultDateLayout
	}
	if opts.URLExpiry <= 0 {
		opts.URLExpiry = storage.DefaultPresignedURLExpiry
	}
	return &exportService{
		trainingService: trainingService,
		fileStorage:     fileStorage,
		opts:            opts,
		now:             time.Now,
	}
}

func (s *exportService) Export(ctx context.Context, format ExportFormat, w io.Writer) error {
	trainings, err := s.trainingService.FetchTrainings(ctx)
	if err != nil {
		return err
	}
	return s.write(format, w, trainings)
}

func (s *exportService) write(format ExportFormat, w io.Writer, trainings []domain.Training) error {
	switch format {
	case ExportXLSX:
		return exporter.WriteWorkbook(w, trainings, exporter.WorkbookOptions{
			SheetName:  s.opts.SheetName,
			DateLayout: s.opts.DateLayout,
		})
	case ExportJSON:
		return exporter.WriteJSON(w, trainings)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

func (s *exportService) Publish(ctx context.Context, format ExportFormat) (*PublishedExport, error) {
	if s.fileStorage == nil {
		return nil, ErrPublishUnavailable
	}

	var buf bytes.Buffer
	if err := s.Export(ctx, format, &buf); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	key := fmt.Sprintf("exports/%s-%s", now.Format("20060102T150405Z"), format.FileName())
	if err := s.fileStorage.PutObject(ctx, key, format.ContentType(), buf.Bytes()); err != nil {
		log.Printf("ERROR: Uploading export %s: %v", key, err)
		return nil, fmt.Errorf("failed to upload export: %w", err)
	}

	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, key, s.opts.URLExpiry)
	if err != nil {
		log.Printf("ERROR: Presigning export %s: %v", key, err)
		return nil, fmt.Errorf("failed to generate download URL: %w", err)
	}

	log.Printf("INFO: Published export %s", key)
	return &PublishedExport{Key: key, URL: url, ExpiresAt: now.Add(s.opts.URLExpiry)}, nil
}
