package service

import (
	"bytes"
	"context"
	"errors"
	"gymnotes/training-tracker/internal/importer"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportSpreadsheet(t *testing.T) {
	ctx := context.Background()
	trainings := newTestTrainingService()
	svc := NewImportService(trainings)

	file := workbook(t, [][]interface{}{
		{"Modelo"},
		{"Treino A"},
		{"1) Supino", "4X12"},
		{"Esteira", "25min"},
		{"Treino B"},
		{"Remada", "3X10"},
	})

	report, err := svc.ImportFile(ctx, "plan.xlsx", file)
	require.NoError(t, err)
	assert.Equal(t, importer.FormatSpreadsheet, report.Format)
	assert.Equal(t, 2, report.Created)
	assert.Zero(t, report.Failed)

	all, err := trainings.FetchTrainings(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	a := all[0]
	require.Len(t, a.Exercises, 2)
	assert.Equal(t, "Supino", a.Exercises[0].Name)
	assert.Equal(t, 4, a.Exercises[0].Sets)
	assert.Equal(t, 12, a.Exercises[0].Reps)
	assert.True(t, a.Exercises[1].IsCardio())
	assert.Equal(t, 25.0, *a.Exercises[1].Time)
}

func TestImportJSONReportsEachItem(t *testing.T) {
	ctx := context.Background()
	svc := NewImportService(newTestTrainingService())

	body := `[
		{"name": "Ok", "date": "2024-05-01", "exercises": [{"name": "Supino", "type": "weight", "sets": 3, "reps": 10}]},
		{"name": "", "exercises": []},
		{"name": "No list"},
		{"name": "Heavy", "exercises": [{"name": "Supino", "type": "weight", "sets": 99, "reps": 10}]},
		{"name": "Also ok", "exercises": []}
	]`

	report, err := svc.ImportFile(ctx, "backup.json", strings.NewReader(body))
	require.NoError(t, err)

	assert.Equal(t, 3, report.Created)
	assert.Equal(t, 2, report.Skipped)
	assert.Zero(t, report.Failed)

	statuses := make([]ImportStatus, len(report.Results))
	for i, r := range report.Results {
		statuses[i] = r.Status
	}
	assert.Equal(t, []ImportStatus{ImportCreated, ImportSkipped, ImportSkipped, ImportCreated, ImportCreated}, statuses)
	assert.NotEmpty(t, report.Results[0].TrainingID)
}

func TestImportKeepsLongSetSchemes(t *testing.T) {
	ctx := context.Background()
	trainings := newTestTrainingService()
	svc := NewImportService(trainings)

	csv := "Modelo;\nTreino A;\n1) Supino;12X10\n2) Rosca;20 - 18 - 16 - 14 - 12 - 10 - 8 - 6 - 4 - 2 - 1\n"
	report, err := svc.ImportFile(ctx, "plan.csv", strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	assert.Zero(t, report.Failed)

	all, err := trainings.FetchTrainings(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Len(t, all[0].Exercises, 2)
	assert.Equal(t, 12, all[0].Exercises[0].Sets)
	assert.Equal(t, 10, all[0].Exercises[0].Reps)
	assert.Equal(t, 11, all[0].Exercises[1].Sets)
	assert.Equal(t, 20, all[0].Exercises[1].Reps)
}

func TestImportReportsStorageFailures(t *testing.T) {
	boom := errors.New("disk full")
	svc := NewImportService(NewTrainingService(brokenRepo{err: boom}, DefaultLimits(), DefaultPageLimits()))

	body := `[{"name": "Ok", "exercises": []}, {"name": "Also ok", "exercises": []}]`
	report, err := svc.ImportFile(context.Background(), "backup.json", strings.NewReader(body))
	require.NoError(t, err)

	assert.Zero(t, report.Created)
	assert.Equal(t, 2, report.Failed)
	assert.Equal(t, ImportFailed, report.Results[1].Status)
	assert.Equal(t, "disk full", report.Results[1].Error)
}

func TestImportUnreadableFile(t *testing.T) {
	svc := NewImportService(newTestTrainingService())

	_, err := svc.ImportFile(context.Background(), "broken.json", strings.NewReader("{nope"))
	var fileErr *ImportFileError
	require.True(t, errors.As(err, &fileErr))
	assert.Equal(t, "broken.json", fileErr.Filename)

	_, err = svc.ImportFile(context.Background(), "legacy.xls", strings.NewReader("not a zip"))
	assert.True(t, errors.As(err, &fileErr))
}
