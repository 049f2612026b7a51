package services

import (
	"context"
	"errors"
	"time"

	"github.com/Dias221467/Habit_Manager/internal/models"
	"github.com/Dias221467/Habit_Manager/internal/repository"
	"github.com/Dias221467/Habit_Manager/pkg/dateutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	errStore  = errors.New("store offline")
	testToday = dateutil.New(2023, time.March, 10)
	testNow   = time.Date(2023, time.March, 10, 18, 30, 0, 0, time.UTC)
)

// failingStore wraps a MemoryStore and fails the operations switched on.
type failingStore struct {
	*repository.MemoryStore
	failGet    bool
	failList   bool
	failUpdate bool
	failCreate bool
	creates    int
}

func newFailingStore() *failingStore {
	return &failingStore{MemoryStore: repository.NewMemoryStore()}
}

func (f *failingStore) GetHabits(ctx context.Context, userID string) ([]models.Habit, error) {
	if f.failList {
		return nil, errStore
	}
	return f.MemoryStore.GetHabits(ctx, userID)
}

func (f *failingStore) GetHabit(ctx context.Context, id primitive.ObjectID, userID string) (*models.Habit, error) {
	if f.failGet {
		return nil, errStore
	}
	return f.MemoryStore.GetHabit(ctx, id, userID)
}

func (f *failingStore) CreateHabit(ctx context.Context, habit *models.Habit) (*models.Habit, error) {
	f.creates++
	if f.failCreate {
		return nil, errStore
	}
	return f.MemoryStore.CreateHabit(ctx, habit)
}

func (f *failingStore) ApplyHabitUpdate(ctx context.Context, id primitive.ObjectID, userID string, update models.HabitProgressUpdate) (*models.Habit, error) {
	if f.failUpdate {
		return nil, errStore
	}
	return f.MemoryStore.ApplyHabitUpdate(ctx, id, userID, update)
}

func fixedClock() time.Time { return testNow }

func intPtr(v int) *int { return &v }

func unitPtr(u dateutil.Unit) *dateutil.Unit { return &u }

func walkingDraft() models.HabitDraft {
	return models.HabitDraft{
		Name: "Walk 7000 steps a day",
		Milestones: []models.MilestoneDraft{
			{Goal: "Start with 1000 steps", TargetDays: 1},
			{Goal: "Increase to 3000 steps", TargetDays: 2},
		},
	}
}

type testEnv struct {
	store         *failingStore
	activity      *ActivityService
	notifications *NotificationService
	habits        *HabitService
	achievements  *AchievementService
}

func newTestEnv() *testEnv {
	store := newFailingStore()
	activity := NewActivityService(store)
	notifications := NewNotificationService(store, store)

	habits := NewHabitService(store, store, activity, notifications)
	habits.now = fixedClock
	achievementSvc := NewAchievementService(store, store, store, activity, notifications)
	achievementSvc.now = fixedClock

	return &testEnv{
		store:         store,
		activity:      activity,
		notifications: notifications,
		habits:        habits,
		achievements:  achievementSvc,
	}
}
