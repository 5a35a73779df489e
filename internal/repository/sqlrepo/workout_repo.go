package sqlrepo

import (
	"alcyxob/gymtracker/internal/domain"
	"alcyxob/gymtracker/internal/repository"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const selectSessions = `SELECT s.id AS session_id, s.user_id, s.date, s.created_at,
	ce.id AS exercise_id, ce.exercise_definition_id, ce.exercise_name,
	es.id AS set_id, es.reps, es.weight
FROM workout_sessions s
LEFT JOIN completed_exercises ce ON ce.session_id = s.id
LEFT JOIN exercise_sets es ON es.completed_exercise_id = ce.id
WHERE s.user_id = ? %s
ORDER BY s.date DESC, s.id DESC, ce.seq ASC, es.seq ASC`

type sessionRow struct {
	SessionID            string          `db:"session_id"`
	UserID               string          `db:"user_id"`
	Date                 time.Time       `db:"date"`
	CreatedAt            time.Time       `db:"created_at"`
	ExerciseID           sql.NullString  `db:"exercise_id"`
	ExerciseDefinitionID sql.NullString  `db:"exercise_definition_id"`
	ExerciseName         sql.NullString  `db:"exercise_name"`
	SetID                sql.NullString  `db:"set_id"`
	Reps                 sql.NullInt64   `db:"reps"`
	Weight               sql.NullFloat64 `db:"weight"`
}

// sqlWorkoutRepository implements repository.WorkoutRepository
type sqlWorkoutRepository struct {
	db *sqlx.DB
}

// NewWorkoutRepository creates a workout session repository backed by a SQL database.
func NewWorkoutRepository(db *sqlx.DB) repository.WorkoutRepository {
	return &sqlWorkoutRepository{db: db}
}

// Create writes the session, then each completed exercise and each of its
// sets in input order. Any failure rolls back the whole session.
func (r *sqlWorkoutRepository) Create(ctx context.Context, session *domain.WorkoutSession) error {
	session.ID = repository.NewID()
	session.Date = utc(session.Date)
	session.CreatedAt = utc(time.Now())
	if session.CompletedExercises == nil {
		session.CompletedExercises = []domain.CompletedExercise{}
	}
	for i := range session.CompletedExercises {
		ex := &session.CompletedExercises[i]
		ex.ID = repository.NewID()
		if ex.Sets == nil {
			ex.Sets = []domain.Set{}
		}
		for j := range ex.Sets {
			ex.Sets[j].ID = repository.NewID()
		}
	}

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := tx.Rebind(`INSERT INTO workout_sessions (id, user_id, date, created_at) VALUES (?, ?, ?, ?)`)
		if _, err := tx.ExecContext(ctx, query, session.ID, session.UserID, session.Date, session.CreatedAt); err != nil {
			return fmt.Errorf("insert session: %w", err)
		}

		insertExercise := tx.Rebind(`INSERT INTO completed_exercises (id, session_id, exercise_definition_id, exercise_name, seq)
			VALUES (?, ?, ?, ?, ?)`)
		insertSet := tx.Rebind(`INSERT INTO exercise_sets (id, completed_exercise_id, reps, weight, seq) VALUES (?, ?, ?, ?, ?)`)

		for i, ex := range session.CompletedExercises {
			if _, err := tx.ExecContext(ctx, insertExercise, ex.ID, session.ID, ex.ExerciseDefinitionID, ex.ExerciseName, i); err != nil {
				return fmt.Errorf("insert completed exercise %d: %w", i, err)
			}
			for j, set := range ex.Sets {
				if _, err := tx.ExecContext(ctx, insertSet, set.ID, ex.ID, set.Reps, set.Weight, j); err != nil {
					return fmt.Errorf("insert set %d of exercise %d: %w", j, i, err)
				}
			}
		}
		return nil
	})
}

func (r *sqlWorkoutRepository) GetByID(ctx context.Context, userID, id string) (*domain.WorkoutSession, error) {
	sessions, err := r.query(ctx, "AND s.id = ?", userID, id)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, repository.ErrNotFound
	}
	return &sessions[0], nil
}

func (r *sqlWorkoutRepository) ListByUser(ctx context.Context, userID string) ([]domain.WorkoutSession, error) {
	return r.query(ctx, "", userID)
}

// Delete removes sets, completed exercises and the session itself in one
// transaction. Nothing is removed unless the session belongs to userID.
func (r *sqlWorkoutRepository) Delete(ctx context.Context, userID, id string) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := tx.Rebind(`DELETE FROM exercise_sets WHERE completed_exercise_id IN (
			SELECT ce.id FROM completed_exercises ce
			JOIN workout_sessions s ON s.id = ce.session_id
			WHERE s.id = ? AND s.user_id = ?)`)
		if _, err := tx.ExecContext(ctx, query, id, userID); err != nil {
			return fmt.Errorf("delete sets: %w", err)
		}

		query = tx.Rebind(`DELETE FROM completed_exercises WHERE session_id IN (
			SELECT id FROM workout_sessions WHERE id = ? AND user_id = ?)`)
		if _, err := tx.ExecContext(ctx, query, id, userID); err != nil {
			return fmt.Errorf("delete completed exercises: %w", err)
		}

		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM workout_sessions WHERE id = ? AND user_id = ?`), id, userID)
		if err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		return requireAffected(res)
	})
}

// LastPerformance picks the newest session referencing the definition. Equal
// dates fall back to the session id, which is time-ordered, and within the
// session the first matching exercise wins.
func (r *sqlWorkoutRepository) LastPerformance(ctx context.Context, userID, exerciseDefinitionID string) (*domain.LastPerformance, error) {
	var latest struct {
		ExerciseID string    `db:"exercise_id"`
		Date       time.Time `db:"date"`
	}
	query := r.db.Rebind(`SELECT ce.id AS exercise_id, s.date
		FROM completed_exercises ce
		JOIN workout_sessions s ON s.id = ce.session_id
		WHERE s.user_id = ? AND ce.exercise_definition_id = ?
		ORDER BY s.date DESC, s.id DESC, ce.seq ASC
		LIMIT 1`)
	if err := r.db.GetContext(ctx, &latest, query, userID, exerciseDefinitionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find last performance: %w", err)
	}

	sets := []domain.Set{}
	query = r.db.Rebind(`SELECT id, reps, weight FROM exercise_sets WHERE completed_exercise_id = ? ORDER BY seq ASC`)
	if err := r.db.SelectContext(ctx, &sets, query, latest.ExerciseID); err != nil {
		return nil, fmt.Errorf("select last performance sets: %w", err)
	}
	return &domain.LastPerformance{Sets: sets, Date: latest.Date}, nil
}

func (r *sqlWorkoutRepository) query(ctx context.Context, filter string, args ...interface{}) ([]domain.WorkoutSession, error) {
	var rows []sessionRow
	query := r.db.Rebind(fmt.Sprintf(selectSessions, filter))
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select sessions: %w", err)
	}
	return foldSessions(rows), nil
}

// foldSessions rebuilds the nested sessions from the flat join, which arrives
// grouped by session, then exercise, then set. LEFT JOINs produce NULL child
// columns for a session without exercises or an exercise without sets; those
// rows are collapsed into empty slices rather than placeholder entries.
func foldSessions(rows []sessionRow) []domain.WorkoutSession {
	sessions := []domain.WorkoutSession{}
	for _, row := range rows {
		if len(sessions) == 0 || sessions[len(sessions)-1].ID != row.SessionID {
			sessions = append(sessions, domain.WorkoutSession{
				ID:                 row.SessionID,
				UserID:             row.UserID,
				Date:               row.Date,
				CompletedExercises: []domain.CompletedExercise{},
				CreatedAt:          row.CreatedAt,
			})
		}
		session := &sessions[len(sessions)-1]
		if !row.ExerciseID.Valid {
			continue
		}

		exercises := session.CompletedExercises
		if len(exercises) == 0 || exercises[len(exercises)-1].ID != row.ExerciseID.String {
			session.CompletedExercises = append(exercises, domain.CompletedExercise{
				ID:                   row.ExerciseID.String,
				ExerciseDefinitionID: row.ExerciseDefinitionID.String,
				ExerciseName:         row.ExerciseName.String,
				Sets:                 []domain.Set{},
			})
		}
		if !row.SetID.Valid {
			continue
		}

		exercise := &session.CompletedExercises[len(session.CompletedExercises)-1]
		exercise.Sets = append(exercise.Sets, domain.Set{
			ID:     row.SetID.String,
			Reps:   int(row.Reps.Int64),
			Weight: row.Weight.Float64,
		})
	}
	return sessions
}
