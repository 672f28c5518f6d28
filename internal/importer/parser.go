package importer

import (
	"gymnotes/training-tracker/internal/domain"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ordinalPrefix matches list numbering such as "1) " in front of exercise names.
var ordinalPrefix = regexp.MustCompile(`^\d+\)\s*`)

// ProcessRows groups spreadsheet rows into trainings in a single pass.
//
// A row with one meaningful cell opens a new training named after it. A row
// with two meaningful cells adds an exercise (name + descriptor) to the open
// training. Empty rows are spacers; anything else is ignored. Every training
// is dated now.
func ProcessRows(rows []Row, now time.Time) []domain.Training {
	var (
		trainings []domain.Training
		current   *domain.Training
	)

	for _, row := range rows {
		cells := row.Meaningful()

		switch len(cells) {
		case 0:
			continue
		case 1:
			if current != nil {
				trainings = append(trainings, *current)
			}
			current = &domain.Training{
				ID:        uuid.NewString(),
				Name:      strings.TrimSpace(cells[0].Value),
				Date:      now,
				Exercises: []domain.Exercise{},
			}
		case 2:
			if current == nil {
				continue
			}
			name, descriptor := splitExerciseCells(cells)
			current.Exercises = append(current.Exercises, BuildExercise(name, descriptor))
		}
	}

	if current != nil {
		trainings = append(trainings, *current)
	}
	return trainings
}

// splitExerciseCells picks the exercise name and the descriptor out of a
// two-cell row: the name is the first cell under a real header, the
// descriptor is the other one.
func splitExerciseCells(cells []Cell) (name, descriptor string) {
	nameIdx := 0
	for i, c := range cells {
		if c.Key != EmptyKey {
			nameIdx = i
			break
		}
	}
	return cells[nameIdx].Value, cells[1-nameIdx].Value
}

// BuildExercise turns an exercise name and its raw descriptor into an Exercise.
func BuildExercise(rawName, descriptor string) domain.Exercise {
	name := strings.TrimSpace(ordinalPrefix.ReplaceAllString(strings.TrimSpace(rawName), ""))
	d := ParseDescriptor(descriptor)

	ex := domain.Exercise{
		ID:     uuid.NewString(),
		Name:   name,
		Sets:   d.Sets,
		Reps:   d.Reps,
		Notes:  descriptor,
		Images: []string{},
	}

	if d.Cardio || strings.Contains(strings.ToLower(name), "cardio") {
		ex.Type = domain.ExerciseCardio
		ex.Time = domain.Float(DefaultCardioTime)
		if d.Time != nil {
			ex.Time = domain.Float(*d.Time)
		}
		return ex
	}

	ex.Type = domain.ExerciseWeight
	ex.Weight = domain.Float(0)
	return ex
}
