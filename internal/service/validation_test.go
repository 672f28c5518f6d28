package service

import (
	"gymnotes/training-tracker/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRejects(t *testing.T) {
	weight := func(mut func(*domain.Exercise)) domain.CreateTrainingData {
		ex := domain.Exercise{Name: "Supino", Type: domain.ExerciseWeight, Sets: 3, Reps: 10}
		mut(&ex)
		return domain.CreateTrainingData{Name: "A", Date: time.Now(), Exercises: []domain.Exercise{ex}}
	}

	tooMany := domain.CreateTrainingData{Name: "A"}
	for i := 0; i < 21; i++ {
		tooMany.Exercises = append(tooMany.Exercises, domain.Exercise{Name: "x", Type: domain.ExerciseWeight, Sets: 1, Reps: 1})
	}

	tests := []struct {
		name string
		data domain.CreateTrainingData
	}{
		{"empty name", domain.CreateTrainingData{Name: ""}},
		{"too many exercises", tooMany},
		{"negative duration", domain.CreateTrainingData{Name: "A", Duration: domain.Float(-1)}},
		{"exercise without name", weight(func(e *domain.Exercise) { e.Name = " " })},
		{"unknown type", weight(func(e *domain.Exercise) { e.Type = "yoga" })},
		{"zero sets", weight(func(e *domain.Exercise) { e.Sets = 0 })},
		{"too many sets", weight(func(e *domain.Exercise) { e.Sets = 11 })},
		{"too many reps", weight(func(e *domain.Exercise) { e.Reps = 1001 })},
		{"heavy weight", weight(func(e *domain.Exercise) { e.Weight = domain.Float(1000.5) })},
		{"negative weight", weight(func(e *domain.Exercise) { e.Weight = domain.Float(-2) })},
		{"remote image", weight(func(e *domain.Exercise) { e.Images = []string{"https://example.com/a.png"} })},
	}

	v := NewValidator(DefaultLimits())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Normalize(tt.data)
			assert.ErrorIs(t, err, ErrValidationFailed)
		})
	}
}

func TestNormalizeCleansExercises(t *testing.T) {
	v := NewValidator(DefaultLimits())
	ids := []string{"new-1", "new-2"}
	v.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	data, err := v.Normalize(domain.CreateTrainingData{
		Name: "  Treino A  ",
		Exercises: []domain.Exercise{
			{ID: "dup", Name: "Esteira", Type: domain.ExerciseCardio, Sets: 1, Reps: 1, Weight: domain.Float(10), Time: domain.Float(20)},
			{ID: "dup", Name: "Supino", Type: domain.ExerciseWeight, Sets: 3, Reps: 10, Weight: domain.Float(40), Time: domain.Float(5)},
			{Name: "Remada", Type: domain.ExerciseWeight, Sets: 3, Reps: 10},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Treino A", data.Name)
	assert.Equal(t, "dup", data.Exercises[0].ID)
	assert.Equal(t, "new-1", data.Exercises[1].ID)
	assert.Equal(t, "new-2", data.Exercises[2].ID)

	assert.Nil(t, data.Exercises[0].Weight)
	assert.Equal(t, 20.0, *data.Exercises[0].Time)
	assert.Nil(t, data.Exercises[1].Time)
	assert.Equal(t, 40.0, *data.Exercises[1].Weight)
}

func TestNewValidatorFillsZeroLimits(t *testing.T) {
	v := NewValidator(Limits{MaxSets: 3})
	assert.Equal(t, 3, v.limits.MaxSets)
	assert.Equal(t, DefaultLimits().MaxReps, v.limits.MaxReps)
}

func TestSanitizeHasNoUpperBounds(t *testing.T) {
	v := NewValidator(DefaultLimits())

	data := v.Sanitize(domain.CreateTrainingData{
		Name: " Treino ",
		Exercises: []domain.Exercise{
			{Name: "Rosca", Type: domain.ExerciseWeight, Sets: 11, Reps: 2000, Weight: domain.Float(1500)},
			{Name: "  ", Type: domain.ExerciseWeight, Sets: 0, Reps: 0},
			{Name: "Bike", Type: "", Time: domain.Float(30)},
			{Name: "Prancha", Type: "yoga", Weight: domain.Float(5), Time: domain.Float(1)},
		},
	})

	assert.Equal(t, "Treino", data.Name)
	require.Len(t, data.Exercises, 4)
	assert.Equal(t, 11, data.Exercises[0].Sets)
	assert.Equal(t, 2000, data.Exercises[0].Reps)
	assert.Equal(t, 1500.0, *data.Exercises[0].Weight)

	assert.Equal(t, "", data.Exercises[1].Name)
	assert.Equal(t, 1, data.Exercises[1].Sets)
	assert.Equal(t, 1, data.Exercises[1].Reps)

	assert.Equal(t, domain.ExerciseCardio, data.Exercises[2].Type)
	assert.Equal(t, domain.ExerciseWeight, data.Exercises[3].Type)
	assert.Nil(t, data.Exercises[3].Time)

	for _, ex := range data.Exercises {
		assert.NotEmpty(t, ex.ID)
	}
}
