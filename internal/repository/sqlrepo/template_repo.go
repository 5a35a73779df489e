package sqlrepo

import (
	"alcyxob/gymtracker/internal/domain"
	"alcyxob/gymtracker/internal/repository"
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Definitions are joined on the template owner as well as the id, so a
// reference to another user's definition reads as dangling.
const selectTemplates = `SELECT t.id, t.user_id, t.name, t.created_at, t.updated_at,
	te.exercise_definition_id AS ref_id,
	ed.id AS exercise_id, ed.name AS exercise_name,
	ed.description AS exercise_description, ed.created_at AS exercise_created_at
FROM templates t
LEFT JOIN template_exercises te ON te.template_id = t.id
LEFT JOIN exercise_definitions ed ON ed.id = te.exercise_definition_id AND ed.user_id = t.user_id
WHERE t.user_id = ? %s
ORDER BY t.name ASC, t.id ASC, ed.name ASC, te.exercise_definition_id ASC`

type templateRow struct {
	ID                  string         `db:"id"`
	UserID              string         `db:"user_id"`
	Name                string         `db:"name"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
	RefID               sql.NullString `db:"ref_id"`
	ExerciseID          sql.NullString `db:"exercise_id"`
	ExerciseName        sql.NullString `db:"exercise_name"`
	ExerciseDescription sql.NullString `db:"exercise_description"`
	ExerciseCreatedAt   sql.NullTime   `db:"exercise_created_at"`
}

// sqlTemplateRepository implements repository.TemplateRepository
type sqlTemplateRepository struct {
	db *sqlx.DB
}

// NewTemplateRepository creates a template repository backed by a SQL database.
func NewTemplateRepository(db *sqlx.DB) repository.TemplateRepository {
	return &sqlTemplateRepository{db: db}
}

// Create inserts the template row and one link row per exercise reference
// in a single transaction.
func (r *sqlTemplateRepository) Create(ctx context.Context, template *domain.Template) error {
	now := utc(time.Now())
	template.ID = repository.NewID()
	template.CreatedAt = now
	template.UpdatedAt = now

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := tx.Rebind(`INSERT INTO templates (id, user_id, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`)
		if _, err := tx.ExecContext(ctx, query, template.ID, template.UserID, template.Name, template.CreatedAt, template.UpdatedAt); err != nil {
			return fmt.Errorf("insert template: %w", err)
		}
		return insertTemplateRefs(ctx, tx, template.ID, template.ExerciseIDs)
	})
}

func (r *sqlTemplateRepository) GetByID(ctx context.Context, userID, id string) (*domain.Template, error) {
	templates, err := r.query(ctx, "AND t.id = ?", userID, id)
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, repository.ErrNotFound
	}
	return &templates[0], nil
}

func (r *sqlTemplateRepository) ListByUser(ctx context.Context, userID string) ([]domain.Template, error) {
	return r.query(ctx, "", userID)
}

// Update replaces the name and the whole reference set. When no template
// matches (id, owner) the transaction is rolled back and ErrNotFound returned.
func (r *sqlTemplateRepository) Update(ctx context.Context, template *domain.Template) error {
	template.UpdatedAt = utc(time.Now())

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := tx.Rebind(`UPDATE templates SET name = ?, updated_at = ? WHERE id = ? AND user_id = ?`)
		res, err := tx.ExecContext(ctx, query, template.Name, template.UpdatedAt, template.ID, template.UserID)
		if err != nil {
			return fmt.Errorf("update template: %w", err)
		}
		if err := requireAffected(res); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM template_exercises WHERE template_id = ?`), template.ID); err != nil {
			return fmt.Errorf("clear template exercises: %w", err)
		}
		return insertTemplateRefs(ctx, tx, template.ID, template.ExerciseIDs)
	})
}

func (r *sqlTemplateRepository) Delete(ctx context.Context, userID, id string) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := tx.Rebind(`DELETE FROM template_exercises
			WHERE template_id IN (SELECT id FROM templates WHERE id = ? AND user_id = ?)`)
		if _, err := tx.ExecContext(ctx, query, id, userID); err != nil {
			return fmt.Errorf("delete template exercises: %w", err)
		}

		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM templates WHERE id = ? AND user_id = ?`), id, userID)
		if err != nil {
			return fmt.Errorf("delete template: %w", err)
		}
		return requireAffected(res)
	})
}

func (r *sqlTemplateRepository) query(ctx context.Context, filter string, args ...interface{}) ([]domain.Template, error) {
	var rows []templateRow
	query := r.db.Rebind(fmt.Sprintf(selectTemplates, filter))
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select templates: %w", err)
	}
	return foldTemplates(rows), nil
}

// foldTemplates groups joined rows into templates. A template without links,
// or whose links all dangle, still yields one row of NULL exercise columns;
// that row contributes nothing to Exercises.
func foldTemplates(rows []templateRow) []domain.Template {
	templates := []domain.Template{}
	for _, row := range rows {
		if len(templates) == 0 || templates[len(templates)-1].ID != row.ID {
			templates = append(templates, domain.Template{
				ID:          row.ID,
				UserID:      row.UserID,
				Name:        row.Name,
				ExerciseIDs: []string{},
				Exercises:   []domain.ExerciseDefinition{},
				CreatedAt:   row.CreatedAt,
				UpdatedAt:   row.UpdatedAt,
			})
		}
		t := &templates[len(templates)-1]

		if row.RefID.Valid {
			t.ExerciseIDs = append(t.ExerciseIDs, row.RefID.String)
		}
		if !row.ExerciseID.Valid {
			continue
		}
		t.Exercises = append(t.Exercises, domain.ExerciseDefinition{
			ID:          row.ExerciseID.String,
			UserID:      row.UserID,
			Name:        row.ExerciseName.String,
			Description: row.ExerciseDescription.String,
			CreatedAt:   row.ExerciseCreatedAt.Time,
		})
	}
	return templates
}

// insertTemplateRefs writes one parameterized row per reference.
func insertTemplateRefs(ctx context.Context, tx *sqlx.Tx, templateID string, exerciseIDs []string) error {
	if len(exerciseIDs) == 0 {
		return nil
	}
	stmt, err := tx.PreparexContext(ctx, tx.Rebind(`INSERT INTO template_exercises (template_id, exercise_definition_id) VALUES (?, ?)`))
	if err != nil {
		return fmt.Errorf("prepare template exercise insert: %w", err)
	}
	defer stmt.Close()

	for _, exerciseID := range exerciseIDs {
		if _, err := stmt.ExecContext(ctx, templateID, exerciseID); err != nil {
			return fmt.Errorf("insert template exercise: %w", err)
		}
	}
	return nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
