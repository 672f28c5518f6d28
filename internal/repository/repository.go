package repository

import (
	"context"
	"fmt"
	"gymnotes/training-tracker/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound = RepositoryError("not found")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// ParseError reports a stored value that is not valid JSON. It is never
// recovered from: callers see it and decide what to tell the user.
type ParseError struct {
	Key string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("stored data under %q is not valid JSON: %v", e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// TrainingRepository defines the CRUD contract over the persisted training collection.
type TrainingRepository interface {
	GetAll(ctx context.Context) ([]domain.Training, error)
	// GetByID returns nil and no error when the ID is unknown.
	GetByID(ctx context.Context, id string) (*domain.Training, error)
	Create(ctx context.Context, data domain.CreateTrainingData) (*domain.Training, error)
	// Update returns ErrNotFound when the ID is unknown.
	Update(ctx context.Context, id string, data domain.CreateTrainingData) (*domain.Training, error)
	// Modify loads the training, lets fn edit it and saves the result while
	// holding the same lock as every other write. It returns ErrNotFound when
	// the ID is unknown and saves nothing when fn fails.
	Modify(ctx context.Context, id string, fn func(t *domain.Training) error) (*domain.Training, error)
	// Delete is a no-op for unknown IDs.
	Delete(ctx context.Context, id string) error
}
