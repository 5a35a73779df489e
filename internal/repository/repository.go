package repository

import (
	"alcyxob/gymtracker/internal/domain"
	"context"

	"github.com/google/uuid"
)

// Error constants for the repository layer. Backends translate their
// driver-specific errors into these.
var (
	ErrNotFound = RepositoryError("not found")
	ErrConflict = RepositoryError("conflict")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// NewID returns a fresh time-ordered identifier. Every backend uses it so
// ids sort by creation time, which the session tie-break relies on.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	// Create assigns ID/CreatedAt and returns ErrConflict for a taken username.
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// ExerciseDefinitionRepository defines the interface for a user's exercise catalog.
type ExerciseDefinitionRepository interface {
	// Create returns ErrConflict when the owner already has a definition with that name.
	Create(ctx context.Context, def *domain.ExerciseDefinition) error
	// ListByUser returns the owner's definitions ordered by name.
	ListByUser(ctx context.Context, userID string) ([]domain.ExerciseDefinition, error)
}

// TemplateRepository defines the interface for workout templates.
// Every method is scoped by owner: another user's template is ErrNotFound.
type TemplateRepository interface {
	// Create stores the template row and its exercise references atomically.
	Create(ctx context.Context, template *domain.Template) error
	GetByID(ctx context.Context, userID, id string) (*domain.Template, error)
	// ListByUser returns templates ordered by name with exercises materialized.
	ListByUser(ctx context.Context, userID string) ([]domain.Template, error)
	// Update replaces the name and the whole reference set atomically.
	Update(ctx context.Context, template *domain.Template) error
	Delete(ctx context.Context, userID, id string) error
}

// WorkoutRepository defines the interface for logged workout sessions.
// Every method is scoped by owner: another user's session is ErrNotFound.
type WorkoutRepository interface {
	// Create stores the session, its completed exercises and their sets as
	// one atomic unit, generating fresh ids for every nested entity.
	Create(ctx context.Context, session *domain.WorkoutSession) error
	GetByID(ctx context.Context, userID, id string) (*domain.WorkoutSession, error)
	// ListByUser returns sessions most recent first.
	ListByUser(ctx context.Context, userID string) ([]domain.WorkoutSession, error)
	// Delete removes the session and all nested rows atomically.
	Delete(ctx context.Context, userID, id string) error
	// LastPerformance finds the latest session containing the exercise
	// definition and returns that occurrence's sets.
	LastPerformance(ctx context.Context, userID, exerciseDefinitionID string) (*domain.LastPerformance, error)
}

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
