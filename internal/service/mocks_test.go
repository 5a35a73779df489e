package service

import (
	"alcyxob/gymtracker/internal/domain"
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

type mockExerciseRepo struct{ mock.Mock }

func (m *mockExerciseRepo) Create(ctx context.Context, def *domain.ExerciseDefinition) error {
	return m.Called(ctx, def).Error(0)
}

func (m *mockExerciseRepo) ListByUser(ctx context.Context, userID string) ([]domain.ExerciseDefinition, error) {
	args := m.Called(ctx, userID)
	defs, _ := args.Get(0).([]domain.ExerciseDefinition)
	return defs, args.Error(1)
}

type mockTemplateRepo struct{ mock.Mock }

func (m *mockTemplateRepo) Create(ctx context.Context, template *domain.Template) error {
	return m.Called(ctx, template).Error(0)
}

func (m *mockTemplateRepo) GetByID(ctx context.Context, userID, id string) (*domain.Template, error) {
	args := m.Called(ctx, userID, id)
	t, _ := args.Get(0).(*domain.Template)
	return t, args.Error(1)
}

func (m *mockTemplateRepo) ListByUser(ctx context.Context, userID string) ([]domain.Template, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]domain.Template)
	return list, args.Error(1)
}

func (m *mockTemplateRepo) Update(ctx context.Context, template *domain.Template) error {
	return m.Called(ctx, template).Error(0)
}

func (m *mockTemplateRepo) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

type mockWorkoutRepo struct{ mock.Mock }

func (m *mockWorkoutRepo) Create(ctx context.Context, session *domain.WorkoutSession) error {
	return m.Called(ctx, session).Error(0)
}

func (m *mockWorkoutRepo) GetByID(ctx context.Context, userID, id string) (*domain.WorkoutSession, error) {
	args := m.Called(ctx, userID, id)
	s, _ := args.Get(0).(*domain.WorkoutSession)
	return s, args.Error(1)
}

func (m *mockWorkoutRepo) ListByUser(ctx context.Context, userID string) ([]domain.WorkoutSession, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]domain.WorkoutSession)
	return list, args.Error(1)
}

func (m *mockWorkoutRepo) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *mockWorkoutRepo) LastPerformance(ctx context.Context, userID, exerciseDefinitionID string) (*domain.LastPerformance, error) {
	args := m.Called(ctx, userID, exerciseDefinitionID)
	last, _ := args.Get(0).(*domain.LastPerformance)
	return last, args.Error(1)
}

type mockStorage struct{ mock.Mock }

func (m *mockStorage) PutObject(ctx context.Context, objectKey, contentType string, body []byte) error {
	return m.Called(ctx, objectKey, contentType, body).Error(0)
}

func (m *mockStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	args := m.Called(ctx, objectKey, expires)
	return args.String(0), args.Error(1)
}

func (m *mockStorage) DeleteObject(ctx context.Context, objectKey string) error {
	return m.Called(ctx, objectKey).Error(0)
}
