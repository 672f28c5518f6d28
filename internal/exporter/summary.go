package exporter

import (
	"fmt"
	"gymnotes/training-tracker/internal/domain"
	"strconv"
	"strings"
)

// Default names of the downloadable files.
const (
	WorkbookFileName = "treinos.xlsx"
	JSONFileName     = "treinos.json"
)

// DefaultDateLayout is day/month/year, the way the workbook is read by its users.
const DefaultDateLayout = "02/01/2006"

// SummaryHeader is the first row of the exported workbook.
var SummaryHeader = []string{"Nome do Treino", "Data", "Exercícios"}

// SummaryRow flattens one training for the workbook.
type SummaryRow struct {
	Name      string
	Date      string
	Exercises string
}

// Values returns the row in header order.
func (r SummaryRow) Values() []interface{} {
	return []interface{}{r.Name, r.Date, r.Exercises}
}

// SummaryRows flattens trainings into one row each.
func SummaryRows(trainings []domain.Training, dateLayout string) []SummaryRow {
	if dateLayout == "" {
		dateLayout = DefaultDateLayout
	}
	rows := make([]SummaryRow, len(trainings))
	for i, t := range trainings {
		rows[i] = SummaryRow{
			Name:      t.Name,
			Date:      t.Date.Format(dateLayout),
			Exercises: DescribeExercises(t.Exercises),
		}
	}
	return rows
}

// DescribeExercises renders "Supino (4X12); Esteira (30min)".
func DescribeExercises(exercises []domain.Exercise) string {
	parts := make([]string, len(exercises))
	for i := range exercises {
		parts[i] = fmt.Sprintf("%s (%s)", exercises[i].Name, describeVolume(&exercises[i]))
	}
	return strings.Join(parts, "; ")
}

func describeVolume(ex *domain.Exercise) string {
	if ex.IsCardio() {
		minutes := 0.0
		if ex.Time != nil {
			minutes = *ex.Time
		}
		return strconv.FormatFloat(minutes, 'f', -1, 64) + "min"
	}
	return fmt.Sprintf("%dX%d", ex.Sets, ex.Reps)
}
