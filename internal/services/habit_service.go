package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Dias221467/Habit_Manager/internal/models"
	"github.com/Dias221467/Habit_Manager/internal/progress"
	"github.com/Dias221467/Habit_Manager/pkg/dateutil"
	"github.com/Dias221467/Habit_Manager/pkg/logger"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HabitService handles habit creation and daily progress
type HabitService struct {
	repo          HabitStore
	generated     UserAchievementStore
	activity      *ActivityService
	notifications *NotificationService
	now           func() time.Time
}

// NewHabitService creates a new HabitService. activity and notifications may be nil.
func NewHabitService(repo HabitStore, generated UserAchievementStore, activity *ActivityService, notifications *NotificationService) *HabitService {
	return &HabitService{
		repo:          repo,
		generated:     generated,
		activity:      activity,
		notifications: notifications,
		now:           time.Now,
	}
}

// normalizeDraft trims user text and checks the draft before anything is stored.
func normalizeDraft(draft *models.HabitDraft) error {
	draft.Name = strings.TrimSpace(draft.Name)
	for i := range draft.Milestones {
		draft.Milestones[i].Goal = strings.TrimSpace(draft.Milestones[i].Goal)
	}
	for i := range draft.Achievements {
		draft.Achievements[i].Name = strings.TrimSpace(draft.Achievements[i].Name)
		draft.Achievements[i].TriggerCondition = strings.TrimSpace(draft.Achievements[i].TriggerCondition)
	}
	if draft.RepeatMode == "" {
		draft.RepeatMode = models.RepeatForever
	}

	if err := validate.Struct(draft); err != nil {
		return validationError(err)
	}

	hasValue := draft.RepeatDurationValue != nil
	hasUnit := draft.RepeatDurationUnit != nil
	switch draft.RepeatMode {
	case models.RepeatDuration:
		if !hasValue || !hasUnit {
			return invalid("duration habits need repeat_duration_value and repeat_duration_unit")
		}
	case models.RepeatForever:
		if hasValue || hasUnit {
			return invalid("repeat duration is only allowed when repeat_mode is duration")
		}
	}
	return nil
}

// CreateHabit validates the draft and stores a fresh habit starting today
func (s *HabitService) CreateHabit(ctx context.Context, userID string, draft models.HabitDraft, today dateutil.Date) (*models.Habit, error) {
	if err := normalizeDraft(&draft); err != nil {
		return nil, err
	}

	now := s.now()
	habit := &models.Habit{
		UserID:              userID,
		Name:                draft.Name,
		CreatedAt:           now,
		UpdatedAt:           now,
		StartDate:           today,
		RepeatMode:          draft.RepeatMode,
		RepeatDurationValue: draft.RepeatDurationValue,
		RepeatDurationUnit:  draft.RepeatDurationUnit,
		IsActive:            true,
	}
	for _, m := range draft.Milestones {
		habit.Milestones = append(habit.Milestones, models.Milestone{Goal: m.Goal, TargetDays: m.TargetDays})
	}

	created, err := s.repo.CreateHabit(ctx, habit)
	if err != nil {
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}

	if len(draft.Achievements) > 0 && s.generated != nil {
		habitID := created.ID
		items := make([]models.UserAchievement, 0, len(draft.Achievements))
		for _, a := range draft.Achievements {
			items = append(items, models.UserAchievement{
				UserID:           userID,
				HabitID:          &habitID,
				Name:             a.Name,
				Description:      a.Description,
				IconName:         a.IconName,
				TriggerCondition: a.TriggerCondition,
				CreatedAt:        now,
			})
		}
		// The habit is already stored; a failure here only loses the generated achievements.
		if err := s.generated.CreateUserAchievements(ctx, items); err != nil {
			logger.Log.WithError(err).WithField("habit_id", habitID.Hex()).Warn("Failed to store generated achievements")
		}
	}

	s.activity.record(ctx, userID, models.ActivityHabitCreated, created.ID, fmt.Sprintf("Started habit \"%s\"", created.Name))
	return created, nil
}

// GetHabits returns the user's habits, newest first
func (s *HabitService) GetHabits(ctx context.Context, userID string) ([]models.Habit, error) {
	habits, err := s.repo.GetHabits(ctx, userID)
	if err != nil {
		return []models.Habit{}, fmt.Errorf("failed to fetch habits: %w", err)
	}
	return habits, nil
}

// GetHabit returns one habit owned by the user
func (s *HabitService) GetHabit(ctx context.Context, userID string, id primitive.ObjectID) (*models.Habit, error) {
	habit, err := s.repo.GetHabit(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch habit: %w", err)
	}
	return habit, nil
}

// MarkCompleted records today's completion of a habit. The habit is always
// re-read from the store before the next state is computed.
func (s *HabitService) MarkCompleted(ctx context.Context, userID string, id primitive.ObjectID, today dateutil.Date) (*progress.Result, error) {
	current, err := s.repo.GetHabit(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch habit: %w", err)
	}

	res, err := progress.MarkCompleted(*current, today)
	if err != nil {
		return nil, err
	}
	if res.Outcome == progress.AlreadyCompleted {
		return &res, nil
	}

	update := res.Habit.ProgressUpdate()
	update.UpdatedAt = s.now()

	stored, err := s.repo.ApplyHabitUpdate(ctx, id, userID, update)
	if err != nil {
		logger.Log.WithError(err).WithField("habit_id", id.Hex()).Error("Failed to persist habit progress")
		return nil, fmt.Errorf("failed to save habit progress: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"habit_id":            id.Hex(),
		"streak":              stored.CurrentStreak,
		"milestone_completed": res.MilestoneCompleted,
		"cycle_completed":     res.CycleCompleted,
		"expired":             res.Expired,
	}).Info("Habit marked completed")

	s.activity.record(ctx, userID, models.ActivityHabitCompleted, id,
		fmt.Sprintf("Completed \"%s\" (%d day streak)", stored.Name, stored.CurrentStreak))

	if res.CycleCompleted && s.notifications != nil {
		if err := s.notifications.NotifyCycleCompleted(ctx, *stored, res.Expired); err != nil {
			logger.Log.WithError(err).WithField("habit_id", id.Hex()).Warn("Failed to send cycle notification")
		}
	}

	res.Habit = *stored
	return &res, nil
}

// DeleteHabit removes a habit owned by the user
func (s *HabitService) DeleteHabit(ctx context.Context, userID string, id primitive.ObjectID) error {
	if err := s.repo.DeleteHabit(ctx, id, userID); err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	s.activity.record(ctx, userID, models.ActivityHabitDeleted, id, "Deleted a habit")
	return nil
}
