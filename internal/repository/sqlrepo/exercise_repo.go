package sqlrepo

import (
	"alcyxob/gymtracker/internal/domain"
	"alcyxob/gymtracker/internal/repository"
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// sqlExerciseRepository implements repository.ExerciseDefinitionRepository
type sqlExerciseRepository struct {
	db *sqlx.DB
}

// NewExerciseDefinitionRepository creates an exercise catalog repository
// backed by a SQL database.
func NewExerciseDefinitionRepository(db *sqlx.DB) repository.ExerciseDefinitionRepository {
	return &sqlExerciseRepository{db: db}
}

func (r *sqlExerciseRepository) Create(ctx context.Context, def *domain.ExerciseDefinition) error {
	def.ID = repository.NewID()
	def.CreatedAt = utc(time.Now())

	query := r.db.Rebind(`INSERT INTO exercise_definitions (id, user_id, name, description, created_at)
		VALUES (?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query, def.ID, def.UserID, def.Name, def.Description, def.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("insert exercise definition: %w", err)
	}
	return nil
}

func (r *sqlExerciseRepository) ListByUser(ctx context.Context, userID string) ([]domain.ExerciseDefinition, error) {
	defs := []domain.ExerciseDefinition{}
	query := r.db.Rebind(`SELECT id, user_id, name, description, created_at
		FROM exercise_definitions WHERE user_id = ? ORDER BY name ASC, id ASC`)
	if err := r.db.SelectContext(ctx, &defs, query, userID); err != nil {
		return nil, fmt.Errorf("list exercise definitions: %w", err)
	}
	return defs, nil
}
