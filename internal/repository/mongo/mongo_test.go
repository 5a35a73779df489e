package mongo

import (
	"alcyxob/gymtracker/internal/domain"
	"alcyxob/gymtracker/internal/repository"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

// newTestDatabase connects to TEST_MONGO_URI and returns a throwaway database
// with indexes in place. The test is skipped when the variable is unset.
func newTestDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}
	client, err := ConnectDB(uri)
	require.NoError(t, err)

	name := "gymtracker_test_" + strings.ReplaceAll(repository.NewID(), "-", "")
	db := client.Database(name)
	require.NoError(t, EnsureIndexes(context.Background(), db))

	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = DisconnectDB(client)
	})
	return db
}

func TestNormalizeSession(t *testing.T) {
	session := domain.WorkoutSession{
		CompletedExercises: []domain.CompletedExercise{{ExerciseName: "Plank"}},
	}
	normalizeSession(&session)
	require.Len(t, session.CompletedExercises, 1)
	assert.NotNil(t, session.CompletedExercises[0].Sets)

	empty := domain.WorkoutSession{}
	normalizeSession(&empty)
	assert.NotNil(t, empty.CompletedExercises)
	assert.Empty(t, empty.CompletedExercises)
}

func TestMongoUsersAndExercises(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	users := NewMongoUserRepository(db)
	defs := NewMongoExerciseRepository(db)

	require.NoError(t, users.Create(ctx, &domain.User{Username: "alice", Password: "h"}))
	assert.ErrorIs(t, users.Create(ctx, &domain.User{Username: "alice", Password: "x"}), repository.ErrConflict)
	_, err := users.GetByUsername(ctx, "bob")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, defs.Create(ctx, &domain.ExerciseDefinition{UserID: "u1", Name: "Squat"}))
	require.NoError(t, defs.Create(ctx, &domain.ExerciseDefinition{UserID: "u1", Name: "Bench"}))
	require.NoError(t, defs.Create(ctx, &domain.ExerciseDefinition{UserID: "u2", Name: "Squat"}))
	assert.ErrorIs(t, defs.Create(ctx, &domain.ExerciseDefinition{UserID: "u1", Name: "Squat"}), repository.ErrConflict)

	list, err := defs.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Bench", list[0].Name)
	assert.Equal(t, "Squat", list[1].Name)
}

func TestMongoTemplates(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	defs := NewMongoExerciseRepository(db)
	templates := NewMongoTemplateRepository(db)

	squat := &domain.ExerciseDefinition{UserID: "u1", Name: "Squat"}
	foreign := &domain.ExerciseDefinition{UserID: "u2", Name: "Row"}
	require.NoError(t, defs.Create(ctx, squat))
	require.NoError(t, defs.Create(ctx, foreign))

	tmpl := &domain.Template{UserID: "u1", Name: "Legs", ExerciseIDs: []string{squat.ID, foreign.ID, "dangling"}}
	require.NoError(t, templates.Create(ctx, tmpl))

	got, err := templates.GetByID(ctx, "u1", tmpl.ID)
	require.NoError(t, err)
	require.Len(t, got.Exercises, 1)
	assert.Equal(t, "Squat", got.Exercises[0].Name)

	got.ExerciseIDs = nil
	got.Name = "Empty"
	require.NoError(t, templates.Update(ctx, got))
	list, err := templates.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Empty", list[0].Name)
	assert.NotNil(t, list[0].Exercises)
	assert.Empty(t, list[0].Exercises)

	assert.ErrorIs(t, templates.Delete(ctx, "u2", tmpl.ID), repository.ErrNotFound)
	require.NoError(t, templates.Delete(ctx, "u1", tmpl.ID))
	_, err = templates.GetByID(ctx, "u1", tmpl.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMongoWorkouts(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	workouts := NewMongoWorkoutRepository(db)

	day := func(n int) time.Time { return time.Date(2024, time.May, n, 7, 0, 0, 0, time.UTC) }
	older := &domain.WorkoutSession{UserID: "u1", Date: day(1), CompletedExercises: []domain.CompletedExercise{
		{ExerciseDefinitionID: "squat", ExerciseName: "Squat", Sets: []domain.Set{{Reps: 5, Weight: 100}}},
	}}
	newer := &domain.WorkoutSession{UserID: "u1", Date: day(9), CompletedExercises: []domain.CompletedExercise{
		{ExerciseDefinitionID: "squat", ExerciseName: "Squat", Sets: []domain.Set{{Reps: 3, Weight: 120}, {Reps: 2, Weight: 125}}},
		{ExerciseDefinitionID: "squat", ExerciseName: "Squat", Sets: []domain.Set{{Reps: 1, Weight: 140}}},
	}}
	empty := &domain.WorkoutSession{UserID: "u1", Date: day(5)}
	for _, s := range []*domain.WorkoutSession{older, newer, empty} {
		require.NoError(t, workouts.Create(ctx, s))
	}

	list, err := workouts.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, empty.ID, list[1].ID)
	assert.NotNil(t, list[1].CompletedExercises)
	assert.Empty(t, list[1].CompletedExercises)

	last, err := workouts.LastPerformance(ctx, "u1", "squat")
	require.NoError(t, err)
	assert.True(t, day(9).Equal(last.Date))
	require.Len(t, last.Sets, 2)
	assert.Equal(t, 120.0, last.Sets[0].Weight)

	_, err = workouts.GetByID(ctx, "u2", newer.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, workouts.Delete(ctx, "u2", newer.ID), repository.ErrNotFound)
	require.NoError(t, workouts.Delete(ctx, "u1", newer.ID))

	last, err = workouts.LastPerformance(ctx, "u1", "squat")
	require.NoError(t, err)
	assert.True(t, day(1).Equal(last.Date))
}
