// internal/domain/training.go
package domain

import "time"

// Training is one logged workout session.
type Training struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Date      time.Time  `json:"date"`
	Exercises []Exercise `json:"exercises"`
	Notes     string     `json:"notes,omitempty"`
	Duration  *float64   `json:"duration,omitempty"` // Optional session length in minutes
}

// CreateTrainingData is the payload accepted by create and update. The ID is
// always assigned (or kept) by the storage layer.
type CreateTrainingData struct {
	Name      string     `json:"name"`
	Date      time.Time  `json:"date"`
	Exercises []Exercise `json:"exercises"`
	Notes     string     `json:"notes,omitempty"`
	Duration  *float64   `json:"duration,omitempty"`
}

// Data strips the identity from a training.
func (t *Training) Data() CreateTrainingData {
	return CreateTrainingData{
		Name:      t.Name,
		Date:      t.Date,
		Exercises: t.Exercises,
		Notes:     t.Notes,
		Duration:  t.Duration,
	}
}

// WithID builds a Training from create data and an identity.
func (d CreateTrainingData) WithID(id string) Training {
	return Training{
		ID:        id,
		Name:      d.Name,
		Date:      d.Date,
		Exercises: d.Exercises,
		Notes:     d.Notes,
		Duration:  d.Duration,
	}
}

// FindExercise returns the index of the exercise with the given ID, or -1.
func (t *Training) FindExercise(exerciseID string) int {
	for i := range t.Exercises {
		if t.Exercises[i].ID == exerciseID {
			return i
		}
	}
	return -1
}
