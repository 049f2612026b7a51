package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Dias221467/Habit_Manager/internal/models"
	"github.com/Dias221467/Habit_Manager/pkg/dateutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TemplateService struct {
	repo   TemplateStore
	habits *HabitService
}

func NewTemplateService(repo TemplateStore, habits *HabitService) *TemplateService {
	return &TemplateService{
		repo:   repo,
		habits: habits,
	}
}

// CreateTemplate creates a new habit template
func (s *TemplateService) CreateTemplate(ctx context.Context, userID string, template *models.HabitTemplate) (*models.HabitTemplate, error) {
	template.Title = strings.TrimSpace(template.Title)
	for i := range template.Milestones {
		template.Milestones[i].Goal = strings.TrimSpace(template.Milestones[i].Goal)
	}
	if err := validate.Struct(template); err != nil {
		return nil, validationError(err)
	}

	template.ID = primitive.NilObjectID
	template.UserID = userID
	created, err := s.repo.CreateTemplate(ctx, template)
	if err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	return created, nil
}

// GetTemplateByID retrieves a template the user owns or that is public
func (s *TemplateService) GetTemplateByID(ctx context.Context, userID string, id primitive.ObjectID) (*models.HabitTemplate, error) {
	template, err := s.repo.GetTemplateByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch template: %w", err)
	}
	if !template.Public && template.UserID != userID {
		return nil, fmt.Errorf("failed to fetch template: %w", ErrNotFound)
	}
	return template, nil
}

// CopyTemplateToHabit creates a habit from a template, starting today
func (s *TemplateService) CopyTemplateToHabit(ctx context.Context, userID string, id primitive.ObjectID, today dateutil.Date) (*models.Habit, error) {
	template, err := s.GetTemplateByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.habits.CreateHabit(ctx, userID, template.Draft(), today)
}

func (s *TemplateService) GetTemplatesByUser(ctx context.Context, userID string) ([]models.HabitTemplate, error) {
	return s.repo.GetTemplatesByUser(ctx, userID)
}

func (s *TemplateService) GetPublicTemplates(ctx context.Context) ([]models.HabitTemplate, error) {
	return s.repo.GetPublicTemplates(ctx)
}
