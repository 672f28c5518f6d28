package service

import (
	"context"
	"errors"
	"fmt"
	"gymnotes/training-tracker/internal/domain"
	"gymnotes/training-tracker/internal/repository"
	"log"
	"sort"
	"sync"
	"time"
)

// --- Error Definitions ---
var (
	ErrTrainingNotFound = errors.New("training not found")
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrImageNotFound    = errors.New("image not found")
	ErrValidationFailed = errors.New("training validation failed")
)

// TrainingState is a snapshot of what the service last loaded, mirroring
// what a client screen needs: the list plus loading and error flags.
type TrainingState struct {
	Trainings []domain.Training `json:"trainings"`
	Loading   bool              `json:"loading"`
	Error     string            `json:"error,omitempty"`
}

// TrainingPage is one page of the training list, newest first.
type TrainingPage struct {
	Items    []domain.Training `json:"items"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
	Total    int               `json:"total"`
}

// PageLimits bounds list page sizes.
type PageLimits struct {
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultPageLimits returns the stock paging bounds.
func DefaultPageLimits() PageLimits {
	return PageLimits{DefaultPageSize: 10, MaxPageSize: 50}
}

// --- Service Interface ---
type TrainingService interface {
	FetchTrainings(ctx context.Context) ([]domain.Training, error)
	ListTrainings(ctx context.Context, page, pageSize int) (*TrainingPage, error)
	GetTrainingByID(ctx context.Context, id string) (*domain.Training, error)
	CreateTraining(ctx context.Context, data domain.CreateTrainingData) (*domain.Training, error)
	// ImportTraining stores a parsed training without the interactive limits.
	ImportTraining(ctx context.Context, data domain.CreateTrainingData) (*domain.Training, error)
	UpdateTraining(ctx context.Context, id string, data domain.CreateTrainingData) (*domain.Training, error)
	DeleteTraining(ctx context.Context, id string) error

	AddExercise(ctx context.Context, trainingID string, exercise domain.Exercise) (*domain.Training, error)
	UpdateExercise(ctx context.Context, trainingID, exerciseID string, exercise domain.Exercise) (*domain.Training, error)
	DeleteExercise(ctx context.Context, trainingID, exerciseID string) (*domain.Training, error)
	RemoveExerciseImage(ctx context.Context, trainingID, exerciseID string, index int) (*domain.Training, error)

	State() TrainingState
}

// --- Service Implementation ---

// trainingService implements the TrainingService interface.
type trainingService struct {
	trainingRepo repository.TrainingRepository
	validator    *Validator
	pages        PageLimits
	now          func() time.Time

	mu        sync.RWMutex
	trainings []domain.Training
	loading   bool
	lastErr   string
}

// NewTrainingService creates a new instance of trainingService.
func NewTrainingService(trainingRepo repository.TrainingRepository, limits Limits, pages PageLimits) TrainingService {
	if pages.DefaultPageSize <= 0 {
		pages.DefaultPageSize = DefaultPageLimits().DefaultPageSize
	}
	if pages.MaxPageSize <= 0 {
		pages.MaxPageSize = DefaultPageLimits().MaxPageSize
	}
	return &trainingService{
		trainingRepo: trainingRepo,
		validator:    NewValidator(limits),
		pages:        pages,
		now:          time.Now,
		trainings:    []domain.Training{},
	}
}

func (s *trainingService) begin() {
	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()
}

// end clears the loading flag and records err, if any, as the visible error.
func (s *trainingService) end(err error) {
	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.lastErr = err.Error()
	}
	s.mu.Unlock()
}

// State returns a copy of the cached list and flags.
func (s *trainingService) State() TrainingState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	trainings := make([]domain.Training, len(s.trainings))
	copy(trainings, s.trainings)
	return TrainingState{Trainings: trainings, Loading: s.loading, Error: s.lastErr}
}

// FetchTrainings loads every training and refreshes the cached list.
func (s *trainingService) FetchTrainings(ctx context.Context) (trainings []domain.Training, err error) {
	s.begin()
	defer func() { s.end(err) }()

	trainings, err = s.trainingRepo.GetAll(ctx)
	if err != nil {
		log.Printf("ERROR: Fetching trainings: %v", err)
		return nil, err
	}

	s.mu.Lock()
	s.trainings = trainings
	s.mu.Unlock()
	return trainings, nil
}

// ListTrainings returns one page of trainings ordered by date, newest first.
func (s *trainingService) ListTrainings(ctx context.Context, page, pageSize int) (*TrainingPage, error) {
	trainings, err := s.FetchTrainings(ctx)
	if err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = s.pages.DefaultPageSize
	}
	if pageSize > s.pages.MaxPageSize {
		pageSize = s.pages.MaxPageSize
	}

	sorted := make([]domain.Training, len(trainings))
	copy(sorted, trainings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	start := (page - 1) * pageSize
	if start > len(sorted) {
		start = len(sorted)
	}
	end := start + pageSize
	if end > len(sorted) {
		end = len(sorted)
	}

	return &TrainingPage{
		Items:    sorted[start:end],
		Page:     page,
		PageSize: pageSize,
		Total:    len(sorted),
	}, nil
}

// GetTrainingByID retrieves a single training.
func (s *trainingService) GetTrainingByID(ctx context.Context, id string) (training *domain.Training, err error) {
	s.begin()
	defer func() { s.end(err) }()

	training, err = s.trainingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if training == nil {
		return nil, ErrTrainingNotFound
	}
	return training, nil
}

// CreateTraining validates and stores a new training.
func (s *trainingService) CreateTraining(ctx context.Context, data domain.CreateTrainingData) (training *domain.Training, err error) {
	s.begin()
	defer func() { s.end(err) }()

	data, err = s.prepare(data)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, data)
}

// ImportTraining stores a training produced by the importer. Only the
// cleanup that keeps the stored shape consistent is applied.
func (s *trainingService) ImportTraining(ctx context.Context, data domain.CreateTrainingData) (training *domain.Training, err error) {
	s.begin()
	defer func() { s.end(err) }()

	if data.Date.IsZero() {
		data.Date = s.now()
	}
	data = s.validator.Sanitize(data)
	if data.Name == "" {
		return nil, invalid("training name is required")
	}
	return s.create(ctx, data)
}

func (s *trainingService) create(ctx context.Context, data domain.CreateTrainingData) (*domain.Training, error) {
	training, err := s.trainingRepo.Create(ctx, data)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.trainings = append(s.trainings, *training)
	s.mu.Unlock()
	return training, nil
}

// UpdateTraining replaces an existing training's content.
func (s *trainingService) UpdateTraining(ctx context.Context, id string, data domain.CreateTrainingData) (training *domain.Training, err error) {
	s.begin()
	defer func() { s.end(err) }()

	data, err = s.prepare(data)
	if err != nil {
		return nil, err
	}

	training, err = s.trainingRepo.Update(ctx, id, data)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainingNotFound
		}
		return nil, err
	}

	s.replaceCached(training)
	return training, nil
}

func (s *trainingService) replaceCached(training *domain.Training) {
	s.mu.Lock()
	for i := range s.trainings {
		if s.trainings[i].ID == training.ID {
			s.trainings[i] = *training
		}
	}
	s.mu.Unlock()
}

// DeleteTraining removes a training. Unknown IDs are not an error.
func (s *trainingService) DeleteTraining(ctx context.Context, id string) (err error) {
	s.begin()
	defer func() { s.end(err) }()

	if err = s.trainingRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	kept := make([]domain.Training, 0, len(s.trainings))
	for _, t := range s.trainings {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.trainings = kept
	s.mu.Unlock()
	return nil
}

func (s *trainingService) prepare(data domain.CreateTrainingData) (domain.CreateTrainingData, error) {
	if data.Date.IsZero() {
		data.Date = s.now()
	}
	return s.validator.Normalize(data)
}

// --- Exercise editing ---

// editTraining applies fn to a stored training and sanitizes the result. The
// load, edit and save happen as one repository step, so concurrent edits of
// the same training never overwrite each other. Limits are checked by fn on
// the exercise being submitted only, which keeps imported trainings editable.
func (s *trainingService) editTraining(ctx context.Context, trainingID string, fn func(t *domain.Training) error) (training *domain.Training, err error) {
	s.begin()
	defer func() { s.end(err) }()

	training, err = s.trainingRepo.Modify(ctx, trainingID, func(t *domain.Training) error {
		if err := fn(t); err != nil {
			return err
		}
		*t = s.validator.Sanitize(t.Data()).WithID(t.ID)
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainingNotFound
		}
		return nil, err
	}

	s.replaceCached(training)
	return training, nil
}

// AddExercise appends an exercise to a training.
func (s *trainingService) AddExercise(ctx context.Context, trainingID string, exercise domain.Exercise) (*domain.Training, error) {
	return s.editTraining(ctx, trainingID, func(t *domain.Training) error {
		if err := s.validator.checkExercise(exercise); err != nil {
			return err
		}
		if len(t.Exercises) >= s.validator.limits.MaxExercises {
			return invalid("a training can have at most %d exercises", s.validator.limits.MaxExercises)
		}
		exercise.ID = "" // always gets a fresh identity
		t.Exercises = append(t.Exercises, exercise)
		return nil
	})
}

// UpdateExercise replaces an exercise, keeping its ID.
func (s *trainingService) UpdateExercise(ctx context.Context, trainingID, exerciseID string, exercise domain.Exercise) (*domain.Training, error) {
	return s.editTraining(ctx, trainingID, func(t *domain.Training) error {
		i := t.FindExercise(exerciseID)
		if i < 0 {
			return ErrExerciseNotFound
		}
		if err := s.validator.checkExercise(exercise); err != nil {
			return err
		}
		exercise.ID = exerciseID
		t.Exercises[i] = exercise
		return nil
	})
}

// DeleteExercise drops an exercise from a training.
func (s *trainingService) DeleteExercise(ctx context.Context, trainingID, exerciseID string) (*domain.Training, error) {
	return s.editTraining(ctx, trainingID, func(t *domain.Training) error {
		i := t.FindExercise(exerciseID)
		if i < 0 {
			return ErrExerciseNotFound
		}
		t.Exercises = append(t.Exercises[:i], t.Exercises[i+1:]...)
		return nil
	})
}

// RemoveExerciseImage drops the image at index from an exercise.
func (s *trainingService) RemoveExerciseImage(ctx context.Context, trainingID, exerciseID string, index int) (*domain.Training, error) {
	return s.editTraining(ctx, trainingID, func(t *domain.Training) error {
		i := t.FindExercise(exerciseID)
		if i < 0 {
			return ErrExerciseNotFound
		}
		images := t.Exercises[i].Images
		if index < 0 || index >= len(images) {
			return fmt.Errorf("%w: index %d", ErrImageNotFound, index)
		}
		kept := make([]string, 0, len(images)-1)
		kept = append(kept, images[:index]...)
		kept = append(kept, images[index+1:]...)
		t.Exercises[i].Images = kept
		return nil
	})
}
