package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dias221467/Habit_Manager/internal/models"
	"github.com/Dias221467/Habit_Manager/pkg/logger"
)

type SuggestionService struct {
	client Suggester
}

func NewSuggestionService(client Suggester) *SuggestionService {
	return &SuggestionService{client: client}
}

// Suggest proposes milestones and achievements for a goal. Nothing is
// persisted; the caller turns an accepted suggestion into a habit draft.
func (s *SuggestionService) Suggest(ctx context.Context, goal string) (*models.Suggestion, error) {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return nil, invalid("goal is required")
	}

	suggestion, err := s.client.Suggest(ctx, goal)
	if err != nil {
		logger.Log.WithError(err).Warn("Milestone suggestion failed")
		if errors.Is(err, ErrSuggestionUnavailable) || errors.Is(err, ErrMalformedSuggestion) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrSuggestionUnavailable, err)
	}
	if suggestion == nil {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedSuggestion)
	}

	if err := validate.Struct(suggestion); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSuggestion, err)
	}
	return suggestion, nil
}
