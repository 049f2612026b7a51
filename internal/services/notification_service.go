package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dias221467/Habit_Manager/internal/models"
	"github.com/Dias221467/Habit_Manager/pkg/dateutil"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// reminderCooldown keeps the reminder job from notifying twice about the same streak.
const reminderCooldown = 20 * time.Hour

type NotificationService struct {
	repo      NotificationStore
	habitRepo HabitStore
}

func NewNotificationService(repo NotificationStore, habitRepo HabitStore) *NotificationService {
	return &NotificationService{
		repo:      repo,
		habitRepo: habitRepo,
	}
}

// CreateNotification logs a new notification for a user
func (s *NotificationService) CreateNotification(ctx context.Context, userID string, notifType, title, message string, targetID *primitive.ObjectID) error {
	notif := &models.Notification{
		UserID:   userID,
		Type:     notifType,
		Title:    title,
		Message:  message,
		Read:     false,
		TargetID: targetID,
	}
	return s.repo.CreateNotification(ctx, notif)
}

// GetUserNotifications returns all notifications for a user
func (s *NotificationService) GetUserNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.repo.GetUserNotifications(ctx, userID)
}

// MarkNotificationAsRead sets the "read" status of a notification to true
func (s *NotificationService) MarkNotificationAsRead(ctx context.Context, userID string, notifID primitive.ObjectID) error {
	return s.repo.MarkAsRead(ctx, notifID, userID)
}

// DeleteNotification deletes a specific notification
func (s *NotificationService) DeleteNotification(ctx context.Context, userID string, notifID primitive.ObjectID) error {
	return s.repo.DeleteNotification(ctx, notifID, userID)
}

func (s *NotificationService) DeleteExpiredNotifications(ctx context.Context) error {
	_, err := s.repo.DeleteExpiredNotifications(ctx)
	return err
}

// CheckStreaksAtRisk reminds users whose streak breaks unless they complete
// the habit today. Returns the number of reminders sent.
func (s *NotificationService) CheckStreaksAtRisk(ctx context.Context, today dateutil.Date) (int, error) {
	habits, err := s.habitRepo.GetHabitsLastCompletedOn(ctx, today.AddDays(-1))
	if err != nil {
		return 0, fmt.Errorf("failed to fetch habits: %w", err)
	}

	now := time.Now()
	sent := 0
	for _, habit := range habits {
		if habit.CurrentStreak == 0 {
			continue
		}

		habitID := habit.ID
		existing, err := s.repo.GetLatestNotificationByType(ctx, habit.UserID, models.NotificationStreakAtRisk, &habitID)
		if err == nil && existing != nil && now.Sub(existing.CreatedAt) < reminderCooldown {
			continue // skip duplicate notification
		}
		if err != nil && !errors.Is(err, ErrNotFound) {
			logrus.WithError(err).Warnf("Failed to look up reminders for habit %s", habitID.Hex())
			continue
		}

		message := fmt.Sprintf("Your %d day streak on \"%s\" ends tonight. Mark today as done to keep it going!", habit.CurrentStreak, habit.Name)
		err = s.CreateNotification(ctx, habit.UserID, models.NotificationStreakAtRisk, "Streak at risk", message, &habitID)
		if err != nil {
			logrus.WithError(err).Warnf("Failed to send streak reminder for habit %s", habitID.Hex())
			continue
		}
		sent++
	}

	return sent, nil
}

// NotifyAchievementUnlocked tells a user about a newly unlocked global achievement
func (s *NotificationService) NotifyAchievementUnlocked(ctx context.Context, userID string, status models.AchievementStatus) error {
	message := fmt.Sprintf("You unlocked \"%s\": %s", status.Name, status.Description)
	return s.CreateNotification(ctx, userID, models.NotificationAchievementUnlocked, "Achievement unlocked", message, nil)
}

// NotifyCycleCompleted tells a user that every milestone of a habit is done.
// finished is set when a fixed-duration habit ended with this cycle.
func (s *NotificationService) NotifyCycleCompleted(ctx context.Context, habit models.Habit, finished bool) error {
	habitID := habit.ID
	if finished {
		message := fmt.Sprintf("\"%s\" reached the end of its duration. Well done!", habit.Name)
		return s.CreateNotification(ctx, habit.UserID, models.NotificationHabitFinished, "Habit finished", message, &habitID)
	}
	message := fmt.Sprintf("You completed every milestone of \"%s\". A new cycle starts now.", habit.Name)
	return s.CreateNotification(ctx, habit.UserID, models.NotificationCycleCompleted, "Cycle completed", message, &habitID)
}
