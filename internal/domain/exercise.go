// internal/domain/exercise.go
package domain

// ExerciseType distinguishes resistance work from cardio work.
type ExerciseType string

// Exercise types
const (
	ExerciseWeight ExerciseType = "weight"
	ExerciseCardio ExerciseType = "cardio"
)

// Valid reports whether t is one of the known exercise types.
func (t ExerciseType) Valid() bool {
	return t == ExerciseWeight || t == ExerciseCardio
}

// Exercise is one movement inside a Training. It is owned by its parent
// Training and never shared between trainings.
type Exercise struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Type   ExerciseType `json:"type"`
	Sets   int          `json:"sets"`
	Reps   int          `json:"reps"`
	Weight *float64     `json:"weight,omitempty"` // Only for weight exercises (kg)
	Time   *float64     `json:"time,omitempty"`   // Only for cardio exercises (minutes)
	Notes  string       `json:"notes,omitempty"`
	Images []string     `json:"images,omitempty"` // data: URIs
}

// IsCardio is a small helper used by the parser and the exporters.
func (e *Exercise) IsCardio() bool {
	return e.Type == ExerciseCardio
}

// Float returns a pointer to v, handy for the optional numeric fields.
func Float(v float64) *float64 {
	return &v
}
