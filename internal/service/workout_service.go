package service

import (
	"alcyxob/gymtracker/internal/domain"
	"alcyxob/gymtracker/internal/metrics"
	"alcyxob/gymtracker/internal/repository"
	"alcyxob/gymtracker/internal/storage"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// --- Error Definitions ---
var (
	ErrWorkoutNotFound         = errors.New("workout session not found")
	ErrNoPerformanceFound      = errors.New("no previous performance found for this exercise")
	ErrWorkoutDateRequired     = fmt.Errorf("%w: date is required", ErrValidationFailed)
	ErrWorkoutExercisesMissing = fmt.Errorf("%w: completedExercises is required", ErrValidationFailed)
	ErrExportUnavailable       = errors.New("workout export is not configured")
)

const exportContentType = "application/json"

// --- Service Interface ---
type WorkoutService interface {
	// CreateWorkout logs a session. A nil exercises slice means the field was
	// absent; an empty one is a valid session with no exercises.
	CreateWorkout(ctx context.Context, userID string, date time.Time, exercises []domain.CompletedExercise) (*domain.WorkoutSession, error)
	GetWorkout(ctx context.Context, userID, sessionID string) (*domain.WorkoutSession, error)
	ListWorkouts(ctx context.Context, userID string) ([]domain.WorkoutSession, error)
	DeleteWorkout(ctx context.Context, userID, sessionID string) error
	LastPerformance(ctx context.Context, userID, exerciseDefinitionID string) (*domain.LastPerformance, error)
	// ExportWorkouts writes all of the user's sessions to object storage and
	// returns a presigned download link.
	ExportWorkouts(ctx context.Context, userID string) (*domain.Export, error)
}

// --- Service Implementation ---

// workoutService implements the WorkoutService interface.
type workoutService struct {
	workoutRepo repository.WorkoutRepository
	fileStorage storage.FileStorage // nil disables exports
	urlExpiry   time.Duration
	now         func() time.Time
}

// NewWorkoutService creates a new instance of workoutService. fileStorage may
// be nil when no bucket is configured.
func NewWorkoutService(workoutRepo repository.WorkoutRepository, fileStorage storage.FileStorage, urlExpiry time.Duration) WorkoutService {
	if urlExpiry <= 0 {
		urlExpiry = storage.DefaultPresignedURLExpiry
	}
	return &workoutService{
		workoutRepo: workoutRepo,
		fileStorage: fileStorage,
		urlExpiry:   urlExpiry,
		now:         time.Now,
	}
}

func (s *workoutService) CreateWorkout(ctx context.Context, userID string, date time.Time, exercises []domain.CompletedExercise) (*domain.WorkoutSession, error) {
	if date.IsZero() {
		return nil, ErrWorkoutDateRequired
	}
	if exercises == nil {
		return nil, ErrWorkoutExercisesMissing
	}

	// Client-supplied ids are never trusted; the repository assigns fresh ones.
	session := &domain.WorkoutSession{
		UserID:             userID,
		Date:               date,
		CompletedExercises: make([]domain.CompletedExercise, len(exercises)),
	}
	for i, ex := range exercises {
		sets := make([]domain.Set, len(ex.Sets))
		for j, set := range ex.Sets {
			sets[j] = domain.Set{Reps: set.Reps, Weight: set.Weight}
		}
		session.CompletedExercises[i] = domain.CompletedExercise{
			ExerciseDefinitionID: ex.ExerciseDefinitionID,
			ExerciseName:         ex.ExerciseName,
			Sets:                 sets,
		}
	}

	err := s.workoutRepo.Create(ctx, session)
	metrics.RecordStoreWrite("workout", "create", err)
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *workoutService) GetWorkout(ctx context.Context, userID, sessionID string) (*domain.WorkoutSession, error) {
	session, err := s.workoutRepo.GetByID(ctx, userID, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return session, nil
}

func (s *workoutService) ListWorkouts(ctx context.Context, userID string) ([]domain.WorkoutSession, error) {
	return s.workoutRepo.ListByUser(ctx, userID)
}

func (s *workoutService) DeleteWorkout(ctx context.Context, userID, sessionID string) error {
	err := s.workoutRepo.Delete(ctx, userID, sessionID)
	metrics.RecordStoreWrite("workout", "delete", err)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrWorkoutNotFound
	}
	return err
}

func (s *workoutService) LastPerformance(ctx context.Context, userID, exerciseDefinitionID string) (*domain.LastPerformance, error) {
	last, err := s.workoutRepo.LastPerformance(ctx, userID, exerciseDefinitionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoPerformanceFound
		}
		return nil, err
	}
	return last, nil
}

type exportDocument struct {
	UserID     string                  `json:"userId"`
	ExportedAt time.Time               `json:"exportedAt"`
	Sessions   []domain.WorkoutSession `json:"sessions"`
}

func (s *workoutService) ExportWorkouts(ctx context.Context, userID string) (*domain.Export, error) {
	if s.fileStorage == nil {
		return nil, ErrExportUnavailable
	}

	sessions, err := s.workoutRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	body, err := json.Marshal(exportDocument{UserID: userID, ExportedAt: now, Sessions: sessions})
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}

	objectKey := fmt.Sprintf("exports/%s/%s.json", userID, uuid.NewString())
	if err := s.fileStorage.PutObject(ctx, objectKey, exportContentType, body); err != nil {
		return nil, fmt.Errorf("upload export: %w", err)
	}

	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, objectKey, s.urlExpiry)
	if err != nil {
		// Remove the upload nobody can reach.
		_ = s.fileStorage.DeleteObject(ctx, objectKey)
		return nil, fmt.Errorf("presign export: %w", err)
	}

	return &domain.Export{
		ObjectKey:    objectKey,
		URL:          url,
		SessionCount: len(sessions),
		ExpiresAt:    now.Add(s.urlExpiry),
	}, nil
}
