package service

import (
	"context"
	"fmt"
	"gymnotes/training-tracker/internal/domain"
	"gymnotes/training-tracker/internal/importer"
	"io"
	"log"
	"strings"
	"time"
)

// ImportStatus is the outcome of one imported training.
type ImportStatus string

const (
	ImportCreated ImportStatus = "created"
	ImportSkipped ImportStatus = "skipped"
	ImportFailed  ImportStatus = "failed"
)

// ImportResult describes what happened to one candidate training.
type ImportResult struct {
	Index      int          `json:"index"`
	Name       string       `json:"name"`
	Status     ImportStatus `json:"status"`
	TrainingID string       `json:"trainingId,omitempty"`
	Error      string       `json:"error,omitempty"`
}

// ImportReport summarizes a whole file import.
type ImportReport struct {
	Format  importer.Format `json:"format"`
	Results []ImportResult  `json:"results"`
	Created int             `json:"created"`
	Skipped int             `json:"skipped"`
	Failed  int             `json:"failed"`
}

// ImportFileError means the file itself could not be read or parsed, so
// nothing was imported.
type ImportFileError struct {
	Filename string
	Err      error
}

func (e *ImportFileError) Error() string {
	return fmt.Sprintf("could not read %q: %v", e.Filename, e.Err)
}

func (e *ImportFileError) Unwrap() error {
	return e.Err
}

type ImportService interface {
	ImportFile(ctx context.Context, filename string, r io.Reader) (*ImportReport, error)
}

type importService struct {
	trainingService TrainingService
	now             func() time.Time
}

// NewImportService creates an ImportService that persists through trainingService.
func NewImportService(trainingService TrainingService) ImportService {
	return &importService{trainingService: trainingService, now: time.Now}
}

// ImportFile reads a spreadsheet, CSV or JSON file and creates one training
// per candidate. Individual failures are reported and never stop the loop.
func (s *importService) ImportFile(ctx context.Context, filename string, r io.Reader) (*ImportReport, error) {
	format := importer.DetectFormat(filename)

	candidates, err := s.readCandidates(format, r)
	if err != nil {
		log.Printf("ERROR: Import of %s failed: %v", filename, err)
		return nil, &ImportFileError{Filename: filename, Err: err}
	}

	report := &ImportReport{Format: format, Results: make([]ImportResult, 0, len(candidates))}
	for i, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		result := ImportResult{Index: i, Name: candidate.Name}
		if strings.TrimSpace(candidate.Name) == "" || candidate.Exercises == nil {
			result.Status = ImportSkipped
			report.Skipped++
			report.Results = append(report.Results, result)
			continue
		}

		created, err := s.trainingService.ImportTraining(ctx, candidate.Data())
		if err != nil {
			log.Printf("WARN: Import of training %q from %s failed: %v", candidate.Name, filename, err)
			result.Status = ImportFailed
			result.Error = err.Error()
			report.Failed++
		} else {
			result.Status = ImportCreated
			result.TrainingID = created.ID
			report.Created++
		}
		report.Results = append(report.Results, result)
	}

	log.Printf("INFO: Imported %s: %d created, %d skipped, %d failed", filename, report.Created, report.Skipped, report.Failed)
	return report, nil
}

func (s *importService) readCandidates(format importer.Format, r io.Reader) ([]domain.Training, error) {
	if !format.Tabular() {
		return importer.ReadJSON(r)
	}
	rows, err := importer.ReadRows(format, r)
	if err != nil {
		return nil, err
	}
	return importer.ProcessRows(rows, s.now()), nil
}
