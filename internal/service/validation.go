package service

import (
	"fmt"
	"gymnotes/training-tracker/internal/domain"
	"strings"

	"github.com/google/uuid"
)

// Limits caps what a single training may contain.
type Limits struct {
	MaxExercises int
	MaxSets      int
	MaxReps      int
	MaxWeight    float64
}

// DefaultLimits returns the stock validation limits.
func DefaultLimits() Limits {
	return Limits{MaxExercises: 20, MaxSets: 10, MaxReps: 1000, MaxWeight: 1000}
}

// Validator checks and normalizes training payloads before they are stored.
type Validator struct {
	limits Limits
	newID  func() string
}

// NewValidator builds a Validator; zero limits fall back to the defaults.
func NewValidator(limits Limits) *Validator {
	def := DefaultLimits()
	if limits.MaxExercises <= 0 {
		limits.MaxExercises = def.MaxExercises
	}
	if limits.MaxSets <= 0 {
		limits.MaxSets = def.MaxSets
	}
	if limits.MaxReps <= 0 {
		limits.MaxReps = def.MaxReps
	}
	if limits.MaxWeight <= 0 {
		limits.MaxWeight = def.MaxWeight
	}
	return &Validator{limits: limits, newID: uuid.NewString}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, fmt.Sprintf(format, args...))
}

// Normalize validates data against the limits and returns the Sanitize'd copy.
// Interactive create and update go through here.
func (v *Validator) Normalize(data domain.CreateTrainingData) (domain.CreateTrainingData, error) {
	if strings.TrimSpace(data.Name) == "" {
		return data, invalid("training name is required")
	}
	if len(data.Exercises) > v.limits.MaxExercises {
		return data, invalid("a training can have at most %d exercises", v.limits.MaxExercises)
	}
	if data.Duration != nil && *data.Duration < 0 {
		return data, invalid("duration cannot be negative")
	}
	for i, ex := range data.Exercises {
		if err := v.checkExercise(ex); err != nil {
			return data, fmt.Errorf("exercise %d: %w", i+1, err)
		}
	}
	return v.Sanitize(data), nil
}

func (v *Validator) checkExercise(ex domain.Exercise) error {
	if strings.TrimSpace(ex.Name) == "" {
		return invalid("exercise name is required")
	}
	if !ex.Type.Valid() {
		return invalid("exercise type must be %q or %q", domain.ExerciseWeight, domain.ExerciseCardio)
	}
	if ex.Sets < 1 || ex.Sets > v.limits.MaxSets {
		return invalid("sets must be between 1 and %d", v.limits.MaxSets)
	}
	if ex.Reps < 1 || ex.Reps > v.limits.MaxReps {
		return invalid("reps must be between 1 and %d", v.limits.MaxReps)
	}
	if ex.IsCardio() {
		if ex.Time != nil && *ex.Time < 0 {
			return invalid("time cannot be negative")
		}
	} else if ex.Weight != nil && (*ex.Weight < 0 || *ex.Weight > v.limits.MaxWeight) {
		return invalid("weight must be between 0 and %g", v.limits.MaxWeight)
	}
	for _, img := range ex.Images {
		if !strings.HasPrefix(img, "data:") {
			return invalid("images must be data URIs")
		}
	}
	return nil
}

// Sanitize cleans data without enforcing any limit: names trimmed, exercise
// IDs assigned and deduplicated, unknown types inferred, counts below one
// raised to one, and the measurement that does not apply to an exercise's
// type cleared. Imports store whatever the parser produced this way.
func (v *Validator) Sanitize(data domain.CreateTrainingData) domain.CreateTrainingData {
	data.Name = strings.TrimSpace(data.Name)

	exercises := make([]domain.Exercise, len(data.Exercises))
	seen := make(map[string]bool, len(data.Exercises))
	for i, ex := range data.Exercises {
		ex = sanitizeExercise(ex)
		if ex.ID == "" || seen[ex.ID] {
			ex.ID = v.newID()
		}
		seen[ex.ID] = true
		exercises[i] = ex
	}
	data.Exercises = exercises
	return data
}

func sanitizeExercise(ex domain.Exercise) domain.Exercise {
	ex.Name = strings.TrimSpace(ex.Name)
	if !ex.Type.Valid() {
		ex.Type = domain.ExerciseWeight
		if ex.Time != nil && ex.Weight == nil {
			ex.Type = domain.ExerciseCardio
		}
	}
	if ex.Sets < 1 {
		ex.Sets = 1
	}
	if ex.Reps < 1 {
		ex.Reps = 1
	}
	if ex.IsCardio() {
		ex.Weight = nil
	} else {
		ex.Time = nil
	}
	return ex
}
