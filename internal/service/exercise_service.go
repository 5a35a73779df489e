package service

import (
	"alcyxob/gymtracker/internal/domain"
	"alcyxob/gymtracker/internal/repository"
	"context"
	"errors"
	"fmt"
)

// --- Error Definitions ---
var (
	// ErrValidationFailed is the parent of every missing-field error; handlers
	// map anything wrapping it to 400.
	ErrValidationFailed  = errors.New("validation failed")
	ErrExerciseNameEmpty = fmt.Errorf("%w: exercise name is required", ErrValidationFailed)
	ErrExerciseNameTaken = errors.New("exercise with this name already exists")
)

// --- Service Interface ---
type ExerciseService interface {
	CreateDefinition(ctx context.Context, userID, name, description string) (*domain.ExerciseDefinition, error)
	ListDefinitions(ctx context.Context, userID string) ([]domain.ExerciseDefinition, error)
}

// --- Service Implementation ---

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseDefinitionRepository
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseDefinitionRepository) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
	}
}

// CreateDefinition adds an exercise to the user's catalog. Description may be empty.
func (s *exerciseService) CreateDefinition(ctx context.Context, userID, name, description string) (*domain.ExerciseDefinition, error) {
	if name == "" {
		return nil, ErrExerciseNameEmpty
	}

	def := &domain.ExerciseDefinition{
		UserID:      userID,
		Name:        name,
		Description: description,
	}
	if err := s.exerciseRepo.Create(ctx, def); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrExerciseNameTaken
		}
		return nil, err
	}
	return def, nil
}

// ListDefinitions returns the user's catalog ordered by name.
func (s *exerciseService) ListDefinitions(ctx context.Context, userID string) ([]domain.ExerciseDefinition, error) {
	return s.exerciseRepo.ListByUser(ctx, userID)
}
