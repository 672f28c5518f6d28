// internal/repository/kv/training_repo.go
package kv

import (
	"context"
	"encoding/json"
	"gymnotes/training-tracker/internal/domain"
	"gymnotes/training-tracker/internal/repository"
	"gymnotes/training-tracker/internal/storage"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// DefaultTrainingsKey is the store key holding the JSON array of trainings.
const DefaultTrainingsKey = "gym-app-trainings"

// trainingRepository implements repository.TrainingRepository by reading and
// rewriting the whole collection under one key.
type trainingRepository struct {
	store storage.Store
	key   string
	newID func() string

	// Serializes read-modify-write cycles; the store itself only guarantees
	// single-call atomicity.
	mu sync.Mutex
}

// NewTrainingRepository creates a training repository over the given store.
func NewTrainingRepository(store storage.Store, key string) repository.TrainingRepository {
	if key == "" {
		key = DefaultTrainingsKey
	}
	return &trainingRepository{
		store: store,
		key:   key,
		newID: uuid.NewString,
	}
}

func (r *trainingRepository) load(ctx context.Context) ([]domain.Training, error) {
	raw, found, err := r.store.Get(ctx, r.key)
	if err != nil {
		return nil, err
	}
	if !found || strings.TrimSpace(raw) == "" {
		return []domain.Training{}, nil
	}

	var trainings []domain.Training
	if err := json.Unmarshal([]byte(raw), &trainings); err != nil {
		return nil, &repository.ParseError{Key: r.key, Err: err}
	}
	if trainings == nil { // stored "null"
		trainings = []domain.Training{}
	}
	return trainings, nil
}

func (r *trainingRepository) save(ctx context.Context, trainings []domain.Training) error {
	data, err := json.Marshal(trainings)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, r.key, string(data))
}

// GetAll returns every stored training in insertion order.
func (r *trainingRepository) GetAll(ctx context.Context) ([]domain.Training, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// GetByID scans the collection for id.
func (r *trainingRepository) GetByID(ctx context.Context, id string) (*domain.Training, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	trainings, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range trainings {
		if trainings[i].ID == id {
			return &trainings[i], nil
		}
	}
	return nil, nil
}

// Create assigns a fresh ID, appends and rewrites the collection.
func (r *trainingRepository) Create(ctx context.Context, data domain.CreateTrainingData) (*domain.Training, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	trainings, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	training := data.WithID(r.newID())
	trainings = append(trainings, training)
	if err := r.save(ctx, trainings); err != nil {
		return nil, err
	}
	return &training, nil
}

// Update replaces the training in place, keeping its ID.
func (r *trainingRepository) Update(ctx context.Context, id string, data domain.CreateTrainingData) (*domain.Training, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	trainings, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	index := -1
	for i := range trainings {
		if trainings[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, repository.ErrNotFound
	}

	updated := data.WithID(id)
	trainings[index] = updated
	if err := r.save(ctx, trainings); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Modify runs fn on the stored training and rewrites the collection, all
// under one lock.
func (r *trainingRepository) Modify(ctx context.Context, id string, fn func(t *domain.Training) error) (*domain.Training, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	trainings, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range trainings {
		if trainings[i].ID != id {
			continue
		}
		edited := trainings[i]
		edited.Exercises = append([]domain.Exercise(nil), trainings[i].Exercises...)
		if err := fn(&edited); err != nil {
			return nil, err
		}
		edited.ID = id

		trainings[i] = edited
		if err := r.save(ctx, trainings); err != nil {
			return nil, err
		}
		return &edited, nil
	}
	return nil, repository.ErrNotFound
}

// Delete removes the training if present.
func (r *trainingRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	trainings, err := r.load(ctx)
	if err != nil {
		return err
	}

	kept := trainings[:0]
	for _, t := range trainings {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(trainings) {
		return nil
	}
	return r.save(ctx, kept)
}
