package service

import (
	"alcyxob/gymtracker/internal/domain"
	"alcyxob/gymtracker/internal/metrics"
	"alcyxob/gymtracker/internal/repository"
	"context"
	"errors"
	"fmt"
)

// --- Error Definitions ---
var (
	ErrTemplateNotFound     = errors.New("template not found")
	ErrTemplateNameRequired = fmt.Errorf("%w: template name is required", ErrValidationFailed)
)

// --- Service Interface ---
type TemplateService interface {
	CreateTemplate(ctx context.Context, userID, name string, exerciseIDs []string) (*domain.Template, error)
	GetTemplate(ctx context.Context, userID, templateID string) (*domain.Template, error)
	ListTemplates(ctx context.Context, userID string) ([]domain.Template, error)
	UpdateTemplate(ctx context.Context, userID, templateID, name string, exerciseIDs []string) (*domain.Template, error)
	DeleteTemplate(ctx context.Context, userID, templateID string) error
}

// --- Service Implementation ---

// templateService implements the TemplateService interface.
type templateService struct {
	templateRepo repository.TemplateRepository
}

// NewTemplateService creates a new instance of templateService.
func NewTemplateService(templateRepo repository.TemplateRepository) TemplateService {
	return &templateService{
		templateRepo: templateRepo,
	}
}

// CreateTemplate stores a template and returns it with exercises materialized.
func (s *templateService) CreateTemplate(ctx context.Context, userID, name string, exerciseIDs []string) (*domain.Template, error) {
	if name == "" {
		return nil, ErrTemplateNameRequired
	}

	template := &domain.Template{
		UserID:      userID,
		Name:        name,
		ExerciseIDs: uniqueIDs(exerciseIDs),
	}
	err := s.templateRepo.Create(ctx, template)
	metrics.RecordStoreWrite("template", "create", err)
	if err != nil {
		return nil, err
	}
	return s.GetTemplate(ctx, userID, template.ID)
}

// GetTemplate returns one of the user's templates. Another user's template
// is reported as not found.
func (s *templateService) GetTemplate(ctx context.Context, userID, templateID string) (*domain.Template, error) {
	template, err := s.templateRepo.GetByID(ctx, userID, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return template, nil
}

// ListTemplates returns the user's templates ordered by name.
func (s *templateService) ListTemplates(ctx context.Context, userID string) ([]domain.Template, error) {
	return s.templateRepo.ListByUser(ctx, userID)
}

// UpdateTemplate replaces the name and the whole exercise set.
func (s *templateService) UpdateTemplate(ctx context.Context, userID, templateID, name string, exerciseIDs []string) (*domain.Template, error) {
	if name == "" {
		return nil, ErrTemplateNameRequired
	}

	template := &domain.Template{
		ID:          templateID,
		UserID:      userID,
		Name:        name,
		ExerciseIDs: uniqueIDs(exerciseIDs),
	}
	err := s.templateRepo.Update(ctx, template)
	metrics.RecordStoreWrite("template", "update", err)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return s.GetTemplate(ctx, userID, templateID)
}

// DeleteTemplate removes the template and its exercise links.
func (s *templateService) DeleteTemplate(ctx context.Context, userID, templateID string) error {
	err := s.templateRepo.Delete(ctx, userID, templateID)
	metrics.RecordStoreWrite("template", "delete", err)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTemplateNotFound
	}
	return err
}

// uniqueIDs drops empty and repeated ids, keeping first-seen order. The
// reference list is a set.
func uniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
