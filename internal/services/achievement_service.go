package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Habit_Manager/internal/achievements"
	"github.com/Dias221467/Habit_Manager/internal/models"
	"github.com/Dias221467/Habit_Manager/pkg/dateutil"
	"github.com/Dias221467/Habit_Manager/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AchievementOverview is every achievement of a user with its unlock state.
type AchievementOverview struct {
	Global        []models.AchievementStatus `json:"global"`
	Custom        []models.UserAchievement   `json:"custom"`
	NewlyUnlocked []models.AchievementStatus `json:"newly_unlocked"`
}

type AchievementService struct {
	habits        HabitStore
	records       AchievementStore
	generated     UserAchievementStore
	activity      *ActivityService
	notifications *NotificationService
	now           func() time.Time
}

// NewAchievementService creates an AchievementService. activity and notifications may be nil.
func NewAchievementService(habits HabitStore, records AchievementStore, generated UserAchievementStore, activity *ActivityService, notifications *NotificationService) *AchievementService {
	return &AchievementService{
		habits:        habits,
		records:       records,
		generated:     generated,
		activity:      activity,
		notifications: notifications,
		now:           time.Now,
	}
}

// GetAchievements evaluates the global catalogue against the user's habits,
// stores new unlocks and returns the full picture.
func (s *AchievementService) GetAchievements(ctx context.Context, userID string, today dateutil.Date) (*AchievementOverview, error) {
	habits, err := s.habits.GetHabits(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch habits: %w", err)
	}

	records, err := s.records.GetAchievementRecords(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch achievement records: %w", err)
	}

	custom, err := s.generated.GetUserAchievements(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user achievements: %w", err)
	}
	if custom == nil {
		custom = []models.UserAchievement{}
	}

	eval := achievements.Evaluate(userID, habits, records, today, s.now())

	overview := &AchievementOverview{
		Global:        eval.Statuses,
		Custom:        custom,
		NewlyUnlocked: []models.AchievementStatus{},
	}
	if len(eval.NewRecords) == 0 {
		return overview, nil
	}

	if err := s.records.InsertAchievementRecords(ctx, eval.NewRecords); err != nil {
		return nil, fmt.Errorf("failed to store achievement unlocks: %w", err)
	}

	fresh := make(map[string]bool, len(eval.NewRecords))
	for _, r := range eval.NewRecords {
		fresh[r.AchievementID] = true
	}
	for _, status := range eval.Statuses {
		if !fresh[status.ID] {
			continue
		}
		overview.NewlyUnlocked = append(overview.NewlyUnlocked, status)

		s.activity.record(ctx, userID, models.ActivityAchievementUnlocked, primitive.NilObjectID,
			fmt.Sprintf("Unlocked \"%s\"", status.Name))
		if s.notifications != nil {
			if err := s.notifications.NotifyAchievementUnlocked(ctx, userID, status); err != nil {
				logger.Log.WithError(err).WithField("achievement_id", status.ID).Warn("Failed to send achievement notification")
			}
		}
	}

	logger.Log.WithField("user_id", userID).WithField("count", len(overview.NewlyUnlocked)).Info("Achievements unlocked")
	return overview, nil
}

// UnlockUserAchievement marks a generated achievement as unlocked. Unlocking
// twice keeps the first unlock time.
func (s *AchievementService) UnlockUserAchievement(ctx context.Context, userID string, id primitive.ObjectID) (*models.UserAchievement, error) {
	at := s.now()

	item, err := s.generated.UnlockUserAchievement(ctx, id, userID, at)
	if err != nil {
		return nil, fmt.Errorf("failed to unlock achievement: %w", err)
	}

	if item.UnlockedAt != nil && item.UnlockedAt.Equal(at) {
		s.activity.record(ctx, userID, models.ActivityAchievementUnlocked, item.ID, fmt.Sprintf("Unlocked \"%s\"", item.Name))
	}
	return item, nil
}
