package services

import (
	"context"
	"time"

	"github.com/Dias221467/Habit_Manager/internal/models"
	"github.com/Dias221467/Habit_Manager/pkg/dateutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HabitStore persists habits. Both repository.HabitRepository and
// repository.MemoryStore implement it.
type HabitStore interface {
	GetHabits(ctx context.Context, userID string) ([]models.Habit, error)
	GetHabit(ctx context.Context, id primitive.ObjectID, userID string) (*models.Habit, error)
	CreateHabit(ctx context.Context, habit *models.Habit) (*models.Habit, error)
	ApplyHabitUpdate(ctx context.Context, id primitive.ObjectID, userID string, update models.HabitProgressUpdate) (*models.Habit, error)
	DeleteHabit(ctx context.Context, id primitive.ObjectID, userID string) error
	GetHabitsLastCompletedOn(ctx context.Context, day dateutil.Date) ([]models.Habit, error)
}

// AchievementStore persists global achievement unlocks.
type AchievementStore interface {
	GetAchievementRecords(ctx context.Context, userID string) ([]models.AchievementRecord, error)
	InsertAchievementRecords(ctx context.Context, records []models.AchievementRecord) error
}

// UserAchievementStore persists generated per-user achievements.
type UserAchievementStore interface {
	CreateUserAchievements(ctx context.Context, items []models.UserAchievement) error
	GetUserAchievements(ctx context.Context, userID string) ([]models.UserAchievement, error)
	UnlockUserAchievement(ctx context.Context, id primitive.ObjectID, userID string, at time.Time) (*models.UserAchievement, error)
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, notif *models.Notification) error
	GetUserNotifications(ctx context.Context, userID string) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, id primitive.ObjectID, userID string) error
	DeleteNotification(ctx context.Context, id primitive.ObjectID, userID string) error
	GetLatestNotificationByType(ctx context.Context, userID, notifType string, targetID *primitive.ObjectID) (*models.Notification, error)
	DeleteExpiredNotifications(ctx context.Context) (int64, error)
}

type ActivityStore interface {
	CreateActivity(ctx context.Context, activity *models.Activity) error
	GetUserActivities(ctx context.Context, userID string, limit int) ([]models.Activity, error)
}

type TemplateStore interface {
	CreateTemplate(ctx context.Context, template *models.HabitTemplate) (*models.HabitTemplate, error)
	GetTemplateByID(ctx context.Context, id primitive.ObjectID) (*models.HabitTemplate, error)
	GetTemplatesByUser(ctx context.Context, userID string) ([]models.HabitTemplate, error)
	GetPublicTemplates(ctx context.Context) ([]models.HabitTemplate, error)
}

// Suggester produces milestone suggestions for goal text.
type Suggester interface {
	Suggest(ctx context.Context, goal string) (*models.Suggestion, error)
}
