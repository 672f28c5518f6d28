package service

import (
	"context"
	"errors"
	"gymnotes/training-tracker/internal/domain"
	"gymnotes/training-tracker/internal/repository"
	"gymnotes/training-tracker/internal/repository/kv"
	"gymnotes/training-tracker/internal/storage"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenRepo fails every call with err.
type brokenRepo struct{ err error }

func (r brokenRepo) GetAll(context.Context) ([]domain.Training, error) { return nil, r.err }
func (r brokenRepo) GetByID(context.Context, string) (*domain.Training, error) {
	return nil, r.err
}
func (r brokenRepo) Create(context.Context, domain.CreateTrainingData) (*domain.Training, error) {
	return nil, r.err
}
func (r brokenRepo) Update(context.Context, string, domain.CreateTrainingData) (*domain.Training, error) {
	return nil, r.err
}
func (r brokenRepo) Modify(context.Context, string, func(*domain.Training) error) (*domain.Training, error) {
	return nil, r.err
}
func (r brokenRepo) Delete(context.Context, string) error { return r.err }

// slowStore widens the gap between reading and writing the collection.
type slowStore struct {
	*storage.MemoryStore
	delay time.Duration
}

func (s slowStore) Get(ctx context.Context, key string) (string, bool, error) {
	time.Sleep(s.delay)
	return s.MemoryStore.Get(ctx, key)
}

var _ repository.TrainingRepository = brokenRepo{}

func newTestTrainingService() TrainingService {
	repo := kv.NewTrainingRepository(storage.NewMemoryStore(), "")
	return NewTrainingService(repo, DefaultLimits(), DefaultPageLimits())
}

func legDay(name string, date time.Time) domain.CreateTrainingData {
	return domain.CreateTrainingData{
		Name: name,
		Date: date,
		Exercises: []domain.Exercise{
			{Name: "Agachamento", Type: domain.ExerciseWeight, Sets: 4, Reps: 12, Weight: domain.Float(60)},
			{Name: "Esteira", Type: domain.ExerciseCardio, Sets: 1, Reps: 1, Time: domain.Float(20)},
		},
	}
}

func TestCreateTrainingUpdatesState(t *testing.T) {
	ctx := context.Background()
	svc := newTestTrainingService()

	created, err := svc.CreateTraining(ctx, legDay("Treino A", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Len(t, created.Exercises, 2)
	assert.NotEmpty(t, created.Exercises[0].ID)
	assert.NotEqual(t, created.Exercises[0].ID, created.Exercises[1].ID)

	state := svc.State()
	assert.False(t, state.Loading)
	assert.Empty(t, state.Error)
	require.Len(t, state.Trainings, 1)
	assert.Equal(t, created.ID, state.Trainings[0].ID)
}

func TestCreateTrainingDefaultsDate(t *testing.T) {
	repo := kv.NewTrainingRepository(storage.NewMemoryStore(), "")
	svc := NewTrainingService(repo, DefaultLimits(), DefaultPageLimits()).(*trainingService)
	fixed := time.Date(2024, 7, 4, 9, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	created, err := svc.CreateTraining(context.Background(), legDay("Sem data", time.Time{}))
	require.NoError(t, err)
	assert.True(t, fixed.Equal(created.Date))
}

func TestCreateTrainingValidation(t *testing.T) {
	svc := newTestTrainingService()

	_, err := svc.CreateTraining(context.Background(), legDay("  ", time.Now()))
	require.ErrorIs(t, err, ErrValidationFailed)

	state := svc.State()
	assert.NotEmpty(t, state.Error)
	assert.Empty(t, state.Trainings)
}

func TestFetchTrainingsErrorKeepsList(t *testing.T) {
	boom := errors.New("storage offline")
	svc := NewTrainingService(brokenRepo{err: boom}, DefaultLimits(), DefaultPageLimits())

	_, err := svc.FetchTrainings(context.Background())
	assert.ErrorIs(t, err, boom)

	state := svc.State()
	assert.Equal(t, "storage offline", state.Error)
	assert.False(t, state.Loading)
	assert.Empty(t, state.Trainings)
}

func TestGetTrainingByID(t *testing.T) {
	ctx := context.Background()
	svc := newTestTrainingService()

	created, err := svc.CreateTraining(ctx, legDay("Treino A", time.Now()))
	require.NoError(t, err)

	got, err := svc.GetTrainingByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)

	_, err = svc.GetTrainingByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrTrainingNotFound)
}

func TestUpdateAndDeleteTraining(t *testing.T) {
	ctx := context.Background()
	svc := newTestTrainingService()

	a, err := svc.CreateTraining(ctx, legDay("A", time.Now()))
	require.NoError(t, err)
	b, err := svc.CreateTraining(ctx, legDay("B", time.Now()))
	require.NoError(t, err)

	updated, err := svc.UpdateTraining(ctx, b.ID, legDay("B2", time.Now()))
	require.NoError(t, err)
	assert.Equal(t, b.ID, updated.ID)
	assert.Equal(t, "B2", svc.State().Trainings[1].Name)

	_, err = svc.UpdateTraining(ctx, "missing", legDay("C", time.Now()))
	assert.ErrorIs(t, err, ErrTrainingNotFound)

	require.NoError(t, svc.DeleteTraining(ctx, a.ID))
	require.NoError(t, svc.DeleteTraining(ctx, "missing"))

	state := svc.State()
	require.Len(t, state.Trainings, 1)
	assert.Equal(t, b.ID, state.Trainings[0].ID)
}

func TestListTrainingsNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc := newTestTrainingService()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		_, err := svc.CreateTraining(ctx, legDay(string(rune('A'+i)), base.AddDate(0, 0, i)))
		require.NoError(t, err)
	}

	page, err := svc.ListTrainings(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "E", page.Items[0].Name)
	assert.Equal(t, "D", page.Items[1].Name)

	page, err = svc.ListTrainings(ctx, 3, 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "A", page.Items[0].Name)

	page, err = svc.ListTrainings(ctx, 9, 2)
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	page, err = svc.ListTrainings(ctx, 0, 500)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 50, page.PageSize)
}

func TestExerciseEditing(t *testing.T) {
	ctx := context.Background()
	svc := newTestTrainingService()

	training, err := svc.CreateTraining(ctx, legDay("A", time.Now()))
	require.NoError(t, err)

	training, err = svc.AddExercise(ctx, training.ID, domain.Exercise{
		ID: training.Exercises[0].ID, Name: "Supino", Type: domain.ExerciseWeight, Sets: 3, Reps: 10,
		Images: []string{"data:image/png;base64,AAAA", "data:image/png;base64,BBBB"},
	})
	require.NoError(t, err)
	require.Len(t, training.Exercises, 3)
	added := training.Exercises[2]
	assert.NotEqual(t, training.Exercises[0].ID, added.ID)

	added.Reps = 8
	training, err = svc.UpdateExercise(ctx, training.ID, added.ID, added)
	require.NoError(t, err)
	assert.Equal(t, 8, training.Exercises[2].Reps)
	assert.Equal(t, added.ID, training.Exercises[2].ID)

	training, err = svc.RemoveExerciseImage(ctx, training.ID, added.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"data:image/png;base64,BBBB"}, training.Exercises[2].Images)

	_, err = svc.RemoveExerciseImage(ctx, training.ID, added.ID, 5)
	assert.ErrorIs(t, err, ErrImageNotFound)

	training, err = svc.DeleteExercise(ctx, training.ID, added.ID)
	require.NoError(t, err)
	assert.Len(t, training.Exercises, 2)

	_, err = svc.DeleteExercise(ctx, training.ID, "missing")
	assert.ErrorIs(t, err, ErrExerciseNotFound)
	_, err = svc.AddExercise(ctx, "missing", added)
	assert.ErrorIs(t, err, ErrTrainingNotFound)
}

func TestConcurrentExerciseEditsAreKept(t *testing.T) {
	ctx := context.Background()
	repo := kv.NewTrainingRepository(slowStore{MemoryStore: storage.NewMemoryStore(), delay: 2 * time.Millisecond}, "")
	svc := NewTrainingService(repo, DefaultLimits(), DefaultPageLimits())

	training, err := svc.CreateTraining(ctx, legDay("A", time.Now()))
	require.NoError(t, err)

	const workers = 15
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.AddExercise(ctx, training.ID, domain.Exercise{
				Name: "Rosca", Type: domain.ExerciseWeight, Sets: 3, Reps: 10 + i,
			})
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	stored, err := svc.GetTrainingByID(ctx, training.ID)
	require.NoError(t, err)
	require.Len(t, stored.Exercises, 2+workers)

	ids := make(map[string]bool)
	for _, ex := range stored.Exercises {
		ids[ex.ID] = true
	}
	assert.Len(t, ids, 2+workers)
}

func TestExerciseEditRespectsLimits(t *testing.T) {
	ctx := context.Background()
	svc := newTestTrainingService()

	training, err := svc.CreateTraining(ctx, legDay("A", time.Now()))
	require.NoError(t, err)

	_, err = svc.AddExercise(ctx, training.ID, domain.Exercise{Name: "Rosca", Type: domain.ExerciseWeight, Sets: 50, Reps: 10})
	require.ErrorIs(t, err, ErrValidationFailed)

	stored, err := svc.GetTrainingByID(ctx, training.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Exercises, 2, "a rejected edit must not be saved")
}

func TestImportTrainingSkipsLimits(t *testing.T) {
	ctx := context.Background()
	svc := newTestTrainingService()

	data := domain.CreateTrainingData{Name: " Treino longo "}
	for i := 0; i < 25; i++ {
		data.Exercises = append(data.Exercises, domain.Exercise{Name: "Supino", Type: domain.ExerciseWeight, Sets: 12, Reps: 10, Weight: domain.Float(0)})
	}
	data.Exercises[0].Name = ""

	created, err := svc.ImportTraining(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, "Treino longo", created.Name)
	assert.False(t, created.Date.IsZero())
	require.Len(t, created.Exercises, 25)
	assert.Equal(t, 12, created.Exercises[0].Sets)
	assert.NotEmpty(t, created.Exercises[0].ID)
	assert.Len(t, svc.State().Trainings, 1)

	_, err = svc.ImportTraining(ctx, domain.CreateTrainingData{Name: "  "})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestImportedTrainingStaysEditable(t *testing.T) {
	ctx := context.Background()
	svc := newTestTrainingService()

	imported, err := svc.ImportTraining(ctx, domain.CreateTrainingData{
		Name: "Treino A",
		Exercises: []domain.Exercise{
			{Name: "Supino", Type: domain.ExerciseWeight, Sets: 12, Reps: 10, Weight: domain.Float(0)},
		},
	})
	require.NoError(t, err)

	edited, err := svc.AddExercise(ctx, imported.ID, domain.Exercise{Name: "Rosca", Type: domain.ExerciseWeight, Sets: 3, Reps: 10})
	require.NoError(t, err)
	require.Len(t, edited.Exercises, 2)
	assert.Equal(t, 12, edited.Exercises[0].Sets)

	first := edited.Exercises[0]
	first.Sets = 11
	_, err = svc.UpdateExercise(ctx, imported.ID, first.ID, first)
	assert.ErrorIs(t, err, ErrValidationFailed)
}
