package exporter

import (
	"bytes"
	"encoding/json"
	"gymnotes/training-tracker/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleTrainings() []domain.Training {
	return []domain.Training{
		{
			ID:   "t1",
			Name: "Treino A",
			Date: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			Exercises: []domain.Exercise{
				{ID: "e1", Name: "Supino", Type: domain.ExerciseWeight, Sets: 4, Reps: 12, Weight: domain.Float(40)},
				{ID: "e2", Name: "Esteira", Type: domain.ExerciseCardio, Sets: 1, Reps: 1, Time: domain.Float(25.5)},
			},
		},
		{
			ID:        "t2",
			Name:      "Treino <B> & C",
			Date:      time.Date(2024, 12, 24, 0, 0, 0, 0, time.UTC),
			Exercises: []domain.Exercise{},
		},
	}
}

func TestSummaryRows(t *testing.T) {
	rows := SummaryRows(sampleTrainings(), "")

	require.Len(t, rows, 2)
	assert.Equal(t, SummaryRow{Name: "Treino A", Date: "01/05/2024", Exercises: "Supino (4X12); Esteira (25.5min)"}, rows[0])
	assert.Equal(t, "24/12/2024", rows[1].Date)
	assert.Equal(t, "", rows[1].Exercises)

	rows = SummaryRows(sampleTrainings(), "2006-01-02")
	assert.Equal(t, "2024-05-01", rows[0].Date)
}

func TestDescribeExercisesCardioWithoutTime(t *testing.T) {
	got := DescribeExercises([]domain.Exercise{{Name: "Bike", Type: domain.ExerciseCardio}})
	assert.Equal(t, "Bike (0min)", got)
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, sampleTrainings(), WorkbookOptions{}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{DefaultSheetName}, f.GetSheetList())
	rows, err := f.GetRows(DefaultSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, SummaryHeader, rows[0])
	assert.Equal(t, []string{"Treino A", "01/05/2024", "Supino (4X12); Esteira (25.5min)"}, rows[1])
	assert.Equal(t, []string{"Treino <B> & C", "24/12/2024"}, rows[2])
}

func TestWriteWorkbookCustomSheet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, nil, WorkbookOptions{SheetName: "Export"}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Export"}, f.GetSheetList())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleTrainings()))

	assert.Contains(t, buf.String(), "\n  {\n    \"id\": \"t1\"")
	assert.Contains(t, buf.String(), "Treino <B> & C")

	var back []domain.Training
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, sampleTrainings()[0], back[0])
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}
