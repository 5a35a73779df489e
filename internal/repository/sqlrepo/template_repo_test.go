package sqlrepo

import (
	"alcyxob/gymtracker/internal/domain"
	"alcyxob/gymtracker/internal/repository"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseNames(t domain.Template) []string {
	names := []string{}
	for _, ex := range t.Exercises {
		names = append(names, ex.Name)
	}
	return names
}

func TestTemplateRepositoryMaterializesExercises(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	defs := NewExerciseDefinitionRepository(db)
	templates := NewTemplateRepository(db)

	squat := newDefinition("u1", "Squat")
	bench := newDefinition("u1", "Bench")
	foreign := newDefinition("u2", "Row")
	for _, d := range []*domain.ExerciseDefinition{squat, bench, foreign} {
		require.NoError(t, defs.Create(ctx, d))
	}

	tmpl := &domain.Template{
		UserID:      "u1",
		Name:        "Leg day",
		ExerciseIDs: []string{squat.ID, "dangling-id", foreign.ID, bench.ID},
	}
	require.NoError(t, templates.Create(ctx, tmpl))
	require.NotEmpty(t, tmpl.ID)

	got, err := templates.GetByID(ctx, "u1", tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "Leg day", got.Name)
	assert.Equal(t, []string{"Bench", "Squat"}, exerciseNames(*got), "dangling and foreign refs are dropped")
	assert.ElementsMatch(t, tmpl.ExerciseIDs, got.ExerciseIDs)
	assert.Equal(t, "Squat description", got.Exercises[1].Description)

	// Full replacement leaves none of the old references behind.
	got.Name = "Push day"
	got.ExerciseIDs = []string{bench.ID}
	require.NoError(t, templates.Update(ctx, got))

	updated, err := templates.GetByID(ctx, "u1", tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "Push day", updated.Name)
	assert.Equal(t, []string{"Bench"}, exerciseNames(*updated))
	assert.Equal(t, []string{bench.ID}, updated.ExerciseIDs)
	assert.Equal(t, 1, countRows(t, db, "template_exercises"))

	updated.ExerciseIDs = nil
	require.NoError(t, templates.Update(ctx, updated))
	cleared, err := templates.GetByID(ctx, "u1", tmpl.ID)
	require.NoError(t, err)
	assert.NotNil(t, cleared.Exercises)
	assert.Empty(t, cleared.Exercises)
}

func TestTemplateRepositoryListOrderAndEmpty(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	defs := NewExerciseDefinitionRepository(db)
	templates := NewTemplateRepository(db)

	squat := newDefinition("u1", "Squat")
	require.NoError(t, defs.Create(ctx, squat))

	require.NoError(t, templates.Create(ctx, &domain.Template{UserID: "u1", Name: "Zeta", ExerciseIDs: []string{squat.ID}}))
	require.NoError(t, templates.Create(ctx, &domain.Template{UserID: "u1", Name: "Alpha"}))
	require.NoError(t, templates.Create(ctx, &domain.Template{UserID: "u1", Name: "Mid", ExerciseIDs: []string{"gone"}}))
	require.NoError(t, templates.Create(ctx, &domain.Template{UserID: "u2", Name: "Other"}))

	list, err := templates.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Alpha", list[0].Name)
	assert.Equal(t, "Mid", list[1].Name)
	assert.Equal(t, "Zeta", list[2].Name)

	assert.Empty(t, list[0].Exercises)
	assert.NotNil(t, list[0].Exercises)
	assert.Empty(t, list[1].Exercises)
	assert.Equal(t, []string{"Squat"}, exerciseNames(list[2]))

	none, err := templates.ListByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestTemplateRepositoryOwnerIsolation(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	templates := NewTemplateRepository(db)

	tmpl := &domain.Template{UserID: "owner", Name: "Mine", ExerciseIDs: []string{"a", "b"}}
	require.NoError(t, templates.Create(ctx, tmpl))

	_, err := templates.GetByID(ctx, "intruder", tmpl.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	hijack := &domain.Template{ID: tmpl.ID, UserID: "intruder", Name: "Stolen", ExerciseIDs: []string{"c"}}
	assert.ErrorIs(t, templates.Update(ctx, hijack), repository.ErrNotFound)
	assert.ErrorIs(t, templates.Delete(ctx, "intruder", tmpl.ID), repository.ErrNotFound)

	// The failed update must not have touched the owner's links.
	got, err := templates.GetByID(ctx, "owner", tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", got.Name)
	assert.ElementsMatch(t, []string{"a", "b"}, got.ExerciseIDs)

	require.NoError(t, templates.Delete(ctx, "owner", tmpl.ID))
	assert.Equal(t, 0, countRows(t, db, "templates"))
	assert.Equal(t, 0, countRows(t, db, "template_exercises"))

	assert.ErrorIs(t, templates.Delete(ctx, "owner", tmpl.ID), repository.ErrNotFound)
	_, err = templates.GetByID(ctx, "owner", tmpl.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
