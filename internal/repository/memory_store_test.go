package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Dias221467/Habit_Manager/internal/models"
	"github.com/Dias221467/Habit_Manager/pkg/dateutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemoryStoreHabitsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Date(2023, time.March, 1, 9, 0, 0, 0, time.UTC)

	for i, name := range []string{"first", "second", "third"} {
		_, err := store.CreateHabit(ctx, &models.Habit{UserID: "user-1", Name: name, CreatedAt: base.Add(time.Duration(i) * time.Hour)})
		require.NoError(t, err)
	}
	_, err := store.CreateHabit(ctx, &models.Habit{UserID: "user-2", Name: "other", CreatedAt: base})
	require.NoError(t, err)

	habits, err := store.GetHabits(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, habits, 3)
	assert.Equal(t, "third", habits[0].Name)
	assert.Equal(t, "first", habits[2].Name)
}

func TestMemoryStoreHabitOwnership(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	h, err := store.CreateHabit(ctx, &models.Habit{UserID: "user-1", Name: "walk"})
	require.NoError(t, err)

	_, err = store.GetHabit(ctx, h.ID, "user-2")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.ApplyHabitUpdate(ctx, h.ID, "user-2", models.HabitProgressUpdate{CurrentStreak: 9})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.DeleteHabit(ctx, h.ID, "user-2"), ErrNotFound)
	assert.NoError(t, store.DeleteHabit(ctx, h.ID, "user-1"))
	assert.ErrorIs(t, store.DeleteHabit(ctx, h.ID, "user-1"), ErrNotFound)
}

func TestMemoryStoreApplyHabitUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	h, err := store.CreateHabit(ctx, &models.Habit{
		UserID:     "user-1",
		Name:       "walk",
		Milestones: []models.Milestone{{Goal: "1000 steps", TargetDays: 2}},
		IsActive:   true,
	})
	require.NoError(t, err)

	day := dateutil.New(2023, time.March, 2)
	stored, err := store.ApplyHabitUpdate(ctx, h.ID, "user-1", models.HabitProgressUpdate{
		CurrentStreak:     1,
		LastCompletedDate: &day,
		Milestones:        []models.Milestone{{Goal: "1000 steps", TargetDays: 2, CompletedDays: 1}},
		IsActive:          true,
	})
	require.NoError(t, err)
	assert.Equal(t, "walk", stored.Name)
	assert.Equal(t, 1, stored.Milestones[0].CompletedDays)
	assert.False(t, stored.UpdatedAt.IsZero())

	// Mutating the returned copy does not leak into the store.
	stored.Milestones[0].CompletedDays = 99
	again, err := store.GetHabit(ctx, h.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Milestones[0].CompletedDays)

	completed, err := store.GetHabitsLastCompletedOn(ctx, day)
	require.NoError(t, err)
	assert.Len(t, completed, 1)
}

func TestMemoryStoreAchievementRecordsAreUnique(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	first := time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.InsertAchievementRecords(ctx, []models.AchievementRecord{
		{UserID: "user-1", AchievementID: "habit-former", UnlockedAt: first},
	}))
	require.NoError(t, store.InsertAchievementRecords(ctx, []models.AchievementRecord{
		{UserID: "user-1", AchievementID: "habit-former", UnlockedAt: first.Add(time.Hour)},
		{UserID: "user-1", AchievementID: "committed", UnlockedAt: first.Add(time.Hour)},
	}))

	records, err := store.GetAchievementRecords(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "committed", records[0].AchievementID)
	assert.Equal(t, first, records[1].UnlockedAt)
}

func TestMemoryStoreUnlockUserAchievementKeepsFirstTime(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	id := primitive.NewObjectID()

	require.NoError(t, store.CreateUserAchievements(ctx, []models.UserAchievement{{ID: id, UserID: "user-1", Name: "Early bird"}}))

	at := time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC)
	item, err := store.UnlockUserAchievement(ctx, id, "user-1", at)
	require.NoError(t, err)
	assert.True(t, item.IsUnlocked)

	item, err = store.UnlockUserAchievement(ctx, id, "user-1", at.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, at, *item.UnlockedAt)

	_, err = store.UnlockUserAchievement(ctx, id, "user-2", at)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreNotifications(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	target := primitive.NewObjectID()

	require.NoError(t, store.CreateNotification(ctx, &models.Notification{UserID: "user-1", Type: models.NotificationStreakAtRisk, TargetID: &target}))

	latest, err := store.GetLatestNotificationByType(ctx, "user-1", models.NotificationStreakAtRisk, &target)
	require.NoError(t, err)
	assert.Equal(t, target, *latest.TargetID)

	other := primitive.NewObjectID()
	_, err = store.GetLatestNotificationByType(ctx, "user-1", models.NotificationStreakAtRisk, &other)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.MarkAsRead(ctx, latest.ID, "user-2"), ErrNotFound)
	require.NoError(t, store.MarkAsRead(ctx, latest.ID, "user-1"))

	list, err := store.GetUserNotifications(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Read)

	deleted, err := store.DeleteExpiredNotifications(ctx)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}
