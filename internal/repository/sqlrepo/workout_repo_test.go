package sqlrepo

import (
	"alcyxob/gymtracker/internal/domain"
	"alcyxob/gymtracker/internal/repository"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2024, time.March, n, 18, 30, 0, 0, time.UTC)
}

// sessionExercise builds a completed exercise from alternating reps/weight values.
func sessionExercise(defID, name string, repsWeight ...float64) domain.CompletedExercise {
	ex := domain.CompletedExercise{ExerciseDefinitionID: defID, ExerciseName: name}
	for i := 0; i+1 < len(repsWeight); i += 2 {
		ex.Sets = append(ex.Sets, domain.Set{Reps: int(repsWeight[i]), Weight: repsWeight[i+1]})
	}
	return ex
}

func newSession(userID string, date time.Time, exercises ...domain.CompletedExercise) *domain.WorkoutSession {
	return &domain.WorkoutSession{UserID: userID, Date: date, CompletedExercises: exercises}
}

func TestWorkoutRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	workouts := NewWorkoutRepository(db)

	session := newSession("u1", day(3),
		sessionExercise("def-squat", "Squat", 5, 100, 3, 110.5),
		sessionExercise("def-bench", "Bench", 8, 60, 6, 65),
	)
	require.NoError(t, workouts.Create(ctx, session))
	require.NotEmpty(t, session.ID)

	got, err := workouts.GetByID(ctx, "u1", session.ID)
	require.NoError(t, err)
	assert.True(t, day(3).Equal(got.Date))
	require.Len(t, got.CompletedExercises, 2)

	squat, bench := got.CompletedExercises[0], got.CompletedExercises[1]
	assert.Equal(t, "Squat", squat.ExerciseName)
	assert.Equal(t, "def-squat", squat.ExerciseDefinitionID)
	assert.Equal(t, "Bench", bench.ExerciseName)
	require.Len(t, squat.Sets, 2)
	assert.Equal(t, 5, squat.Sets[0].Reps)
	assert.Equal(t, 100.0, squat.Sets[0].Weight)
	assert.Equal(t, 3, squat.Sets[1].Reps)
	assert.Equal(t, 110.5, squat.Sets[1].Weight)
	require.Len(t, bench.Sets, 2)
	assert.Equal(t, 8, bench.Sets[0].Reps)
	assert.Equal(t, 6, bench.Sets[1].Reps)

	// Nested ids are generated and distinct.
	ids := map[string]bool{got.ID: true}
	for _, ex := range got.CompletedExercises {
		ids[ex.ID] = true
		for _, s := range ex.Sets {
			ids[s.ID] = true
		}
	}
	assert.Len(t, ids, 7)

	require.NoError(t, workouts.Delete(ctx, "u1", session.ID))
	assert.Equal(t, 0, countRows(t, db, "workout_sessions"))
	assert.Equal(t, 0, countRows(t, db, "completed_exercises"))
	assert.Equal(t, 0, countRows(t, db, "exercise_sets"))
}

func TestWorkoutRepositoryCollapsesEmptyChildren(t *testing.T) {
	ctx := context.Background()
	workouts := NewWorkoutRepository(newTestDB(t))

	empty := newSession("u1", day(1))
	require.NoError(t, workouts.Create(ctx, empty))
	noSets := newSession("u1", day(2), sessionExercise("def-plank", "Plank"))
	require.NoError(t, workouts.Create(ctx, noSets))

	got, err := workouts.GetByID(ctx, "u1", empty.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.CompletedExercises)
	assert.Empty(t, got.CompletedExercises)

	got, err = workouts.GetByID(ctx, "u1", noSets.ID)
	require.NoError(t, err)
	require.Len(t, got.CompletedExercises, 1)
	assert.NotNil(t, got.CompletedExercises[0].Sets)
	assert.Empty(t, got.CompletedExercises[0].Sets)
}

func TestWorkoutRepositoryListOrder(t *testing.T) {
	ctx := context.Background()
	workouts := NewWorkoutRepository(newTestDB(t))

	for _, d := range []int{2, 9, 5} {
		require.NoError(t, workouts.Create(ctx, newSession("u1", day(d), sessionExercise("def", "Row", 10, 40))))
	}
	require.NoError(t, workouts.Create(ctx, newSession("u2", day(20))))

	list, err := workouts.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.True(t, day(9).Equal(list[0].Date))
	assert.True(t, day(5).Equal(list[1].Date))
	assert.True(t, day(2).Equal(list[2].Date))
	for _, s := range list {
		assert.Equal(t, "u1", s.UserID)
		require.Len(t, s.CompletedExercises, 1)
		assert.Len(t, s.CompletedExercises[0].Sets, 1)
	}

	none, err := workouts.ListByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestWorkoutRepositoryOwnerIsolation(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	workouts := NewWorkoutRepository(db)

	session := newSession("owner", day(1), sessionExercise("def", "Squat", 5, 100))
	require.NoError(t, workouts.Create(ctx, session))

	_, err := workouts.GetByID(ctx, "intruder", session.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, workouts.Delete(ctx, "intruder", session.ID), repository.ErrNotFound)
	assert.Equal(t, 1, countRows(t, db, "exercise_sets"), "a rejected delete removes nothing")

	_, err = workouts.LastPerformance(ctx, "intruder", "def")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = workouts.GetByID(ctx, "owner", "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWorkoutRepositoryLastPerformance(t *testing.T) {
	ctx := context.Background()
	workouts := NewWorkoutRepository(newTestDB(t))

	_, err := workouts.LastPerformance(ctx, "u1", "def-squat")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, workouts.Create(ctx, newSession("u1", day(1), sessionExercise("def-squat", "Squat", 5, 100))))
	require.NoError(t, workouts.Create(ctx, newSession("u1", day(8),
		sessionExercise("def-bench", "Bench", 8, 60),
		sessionExercise("def-squat", "Squat", 5, 120, 4, 125),
		sessionExercise("def-squat", "Squat", 1, 140),
	)))
	// Older by date even though it is inserted last.
	require.NoError(t, workouts.Create(ctx, newSession("u1", day(4), sessionExercise("def-squat", "Squat", 5, 110))))
	// Newer, but not the caller's.
	require.NoError(t, workouts.Create(ctx, newSession("u2", day(20), sessionExercise("def-squat", "Squat", 1, 999))))

	last, err := workouts.LastPerformance(ctx, "u1", "def-squat")
	require.NoError(t, err)
	assert.True(t, day(8).Equal(last.Date))
	require.Len(t, last.Sets, 2, "first occurrence within the session wins")
	assert.Equal(t, 120.0, last.Sets[0].Weight)
	assert.Equal(t, 125.0, last.Sets[1].Weight)

	// Equal dates resolve to the later-created session.
	require.NoError(t, workouts.Create(ctx, newSession("u1", day(8), sessionExercise("def-squat", "Squat", 2, 130))))
	last, err = workouts.LastPerformance(ctx, "u1", "def-squat")
	require.NoError(t, err)
	require.Len(t, last.Sets, 1)
	assert.Equal(t, 130.0, last.Sets[0].Weight)

	// An occurrence with no sets still reports its date.
	require.NoError(t, workouts.Create(ctx, newSession("u1", day(15), sessionExercise("def-squat", "Squat"))))
	last, err = workouts.LastPerformance(ctx, "u1", "def-squat")
	require.NoError(t, err)
	assert.True(t, day(15).Equal(last.Date))
	assert.NotNil(t, last.Sets)
	assert.Empty(t, last.Sets)
}

func TestWorkoutCreateRollsBackOnSetFailure(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	workouts := NewWorkoutRepository(db)

	before := newSession("u1", day(1), sessionExercise("def", "Squat", 5, 100))
	require.NoError(t, workouts.Create(ctx, before))

	_, err := db.Exec(`CREATE TRIGGER fail_set_insert BEFORE INSERT ON exercise_sets
		WHEN NEW.reps = 999 BEGIN SELECT RAISE(ABORT, 'forced set failure'); END`)
	require.NoError(t, err)

	failing := newSession("u1", day(2),
		sessionExercise("def", "Squat", 5, 100, 999, 100),
		sessionExercise("def", "Squat", 5, 100),
	)
	err = workouts.Create(ctx, failing)
	require.Error(t, err)

	list, err := workouts.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, before.ID, list[0].ID)
	assert.Equal(t, 1, countRows(t, db, "workout_sessions"))
	assert.Equal(t, 1, countRows(t, db, "completed_exercises"))
	assert.Equal(t, 1, countRows(t, db, "exercise_sets"))
}

func TestWorkoutCreateRollsBackWithMock(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	workouts := NewWorkoutRepository(sqlx.NewDb(mockDB, "sqlmock"))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO workout_sessions").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO completed_exercises").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO exercise_sets").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO exercise_sets").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err = workouts.Create(context.Background(), newSession("u1", day(1), sessionExercise("def", "Squat", 5, 100, 5, 105)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTemplateUpdateMissingRollsBackWithMock(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	templates := NewTemplateRepository(sqlx.NewDb(mockDB, "sqlmock"))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE templates").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = templates.Update(context.Background(), &domain.Template{ID: "t1", UserID: "u1", Name: "x", ExerciseIDs: []string{"a"}})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
