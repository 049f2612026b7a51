package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dias221467/Habit_Manager/internal/models"
	"github.com/Dias221467/Habit_Manager/pkg/dateutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore keeps every collection in process memory. It backs STORAGE=memory
// and the service tests, and mirrors the filtering and ordering of the Mongo
// repositories.
type MemoryStore struct {
	mu sync.RWMutex

	habits        map[primitive.ObjectID]models.Habit
	habitOrder    []primitive.ObjectID
	records       map[string]map[string]models.AchievementRecord
	generated     []models.UserAchievement
	notifications []models.Notification
	activities    []models.Activity
	templates     []models.HabitTemplate
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		habits:  make(map[primitive.ObjectID]models.Habit),
		records: make(map[string]map[string]models.AchievementRecord),
	}
}

// Habits

func (s *MemoryStore) CreateHabit(_ context.Context, habit *models.Habit) (*models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if habit.ID.IsZero() {
		habit.ID = primitive.NewObjectID()
	}
	s.habits[habit.ID] = habit.Clone()
	s.habitOrder = append(s.habitOrder, habit.ID)
	return habit, nil
}

func (s *MemoryStore) GetHabit(_ context.Context, id primitive.ObjectID, userID string) (*models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.habits[id]
	if !ok || h.UserID != userID {
		return nil, ErrNotFound
	}
	out := h.Clone()
	return &out, nil
}

func (s *MemoryStore) GetHabits(_ context.Context, userID string) ([]models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	habits := []models.Habit{}
	for i := len(s.habitOrder) - 1; i >= 0; i-- {
		h, ok := s.habits[s.habitOrder[i]]
		if ok && h.UserID == userID {
			habits = append(habits, h.Clone())
		}
	}
	sort.SliceStable(habits, func(i, j int) bool {
		return habits[i].CreatedAt.After(habits[j].CreatedAt)
	})
	return habits, nil
}

func (s *MemoryStore) GetHabitsLastCompletedOn(_ context.Context, day dateutil.Date) ([]models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var habits []models.Habit
	for _, id := range s.habitOrder {
		h, ok := s.habits[id]
		if ok && h.IsActive && h.LastCompletedDate != nil && *h.LastCompletedDate == day {
			habits = append(habits, h.Clone())
		}
	}
	return habits, nil
}

func (s *MemoryStore) ApplyHabitUpdate(_ context.Context, id primitive.ObjectID, userID string, update models.HabitProgressUpdate) (*models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.habits[id]
	if !ok || h.UserID != userID {
		return nil, ErrNotFound
	}
	if update.UpdatedAt.IsZero() {
		update.UpdatedAt = time.Now()
	}
	h = h.Clone()
	update.Apply(&h)
	s.habits[id] = h

	out := h.Clone()
	return &out, nil
}

func (s *MemoryStore) DeleteHabit(_ context.Context, id primitive.ObjectID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.habits[id]
	if !ok || h.UserID != userID {
		return ErrNotFound
	}
	delete(s.habits, id)
	for i, oid := range s.habitOrder {
		if oid == id {
			s.habitOrder = append(s.habitOrder[:i], s.habitOrder[i+1:]...)
			break
		}
	}
	return nil
}

// Achievements

func (s *MemoryStore) GetAchievementRecords(_ context.Context, userID string) ([]models.AchievementRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []models.AchievementRecord
	for _, r := range s.records[userID] {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].AchievementID < records[j].AchievementID
	})
	return records, nil
}

func (s *MemoryStore) InsertAchievementRecords(_ context.Context, records []models.AchievementRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		byID, ok := s.records[r.UserID]
		if !ok {
			byID = make(map[string]models.AchievementRecord)
			s.records[r.UserID] = byID
		}
		if _, exists := byID[r.AchievementID]; exists {
			continue
		}
		if r.ID.IsZero() {
			r.ID = primitive.NewObjectID()
		}
		byID[r.AchievementID] = r
	}
	return nil
}

func (s *MemoryStore) CreateUserAchievements(_ context.Context, items []models.UserAchievement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		if item.ID.IsZero() {
			item.ID = primitive.NewObjectID()
		}
		s.generated = append(s.generated, item)
	}
	return nil
}

func (s *MemoryStore) GetUserAchievements(_ context.Context, userID string) ([]models.UserAchievement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []models.UserAchievement
	for _, item := range s.generated {
		if item.UserID == userID {
			items = append(items, item)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *MemoryStore) UnlockUserAchievement(_ context.Context, id primitive.ObjectID, userID string, at time.Time) (*models.UserAchievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.generated {
		item := &s.generated[i]
		if item.ID != id || item.UserID != userID {
			continue
		}
		if !item.IsUnlocked {
			item.IsUnlocked = true
			t := at
			item.UnlockedAt = &t
		}
		out := *item
		return &out, nil
	}
	return nil, ErrNotFound
}

// Notifications

func (s *MemoryStore) CreateNotification(_ context.Context, notif *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	notif.ID = primitive.NewObjectID()
	notif.CreatedAt = time.Now()
	notif.ExpiresAt = notif.CreatedAt.Add(NotificationTTL)
	s.notifications = append(s.notifications, *notif)
	return nil
}

func (s *MemoryStore) GetUserNotifications(_ context.Context, userID string) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	notifications := []models.Notification{}
	for i := len(s.notifications) - 1; i >= 0; i-- {
		n := s.notifications[i]
		if n.UserID == userID && n.ExpiresAt.After(now) {
			notifications = append(notifications, n)
		}
	}
	return notifications, nil
}

func (s *MemoryStore) MarkAsRead(_ context.Context, id primitive.ObjectID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		if s.notifications[i].ID == id && s.notifications[i].UserID == userID {
			s.notifications[i].Read = true
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) DeleteNotification(_ context.Context, id primitive.ObjectID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id && n.UserID == userID {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) GetLatestNotificationByType(_ context.Context, userID, notifType string, targetID *primitive.ObjectID) (*models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.notifications) - 1; i >= 0; i-- {
		n := s.notifications[i]
		if n.UserID != userID || n.Type != notifType {
			continue
		}
		if targetID != nil && (n.TargetID == nil || *n.TargetID != *targetID) {
			continue
		}
		return &n, nil
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) DeleteExpiredNotifications(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	kept := s.notifications[:0]
	var deleted int64
	for _, n := range s.notifications {
		if n.ExpiresAt.After(now) {
			kept = append(kept, n)
		} else {
			deleted++
		}
	}
	s.notifications = kept
	return deleted, nil
}

// Activities

func (s *MemoryStore) CreateActivity(_ context.Context, activity *models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	activity.ID = primitive.NewObjectID()
	s.activities = append(s.activities, *activity)
	return nil
}

func (s *MemoryStore) GetUserActivities(_ context.Context, userID string, limit int) ([]models.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	activities := []models.Activity{}
	for _, a := range s.activities {
		if a.UserID == userID {
			activities = append(activities, a)
		}
	}
	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].Timestamp.After(activities[j].Timestamp)
	})
	if limit > 0 && len(activities) > limit {
		activities = activities[:limit]
	}
	return activities, nil
}

// Templates

func (s *MemoryStore) CreateTemplate(_ context.Context, template *models.HabitTemplate) (*models.HabitTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	template.ID = primitive.NewObjectID()
	template.CreatedAt = time.Now()
	s.templates = append(s.templates, *template)
	return template, nil
}

func (s *MemoryStore) GetTemplateByID(_ context.Context, id primitive.ObjectID) (*models.HabitTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.templates {
		if t.ID == id {
			out := t
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetTemplatesByUser(_ context.Context, userID string) ([]models.HabitTemplate, error) {
	return s.findTemplates(func(t models.HabitTemplate) bool { return t.UserID == userID }), nil
}

func (s *MemoryStore) GetPublicTemplates(_ context.Context) ([]models.HabitTemplate, error) {
	return s.findTemplates(func(t models.HabitTemplate) bool { return t.Public }), nil
}

func (s *MemoryStore) findTemplates(match func(models.HabitTemplate) bool) []models.HabitTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	templates := []models.HabitTemplate{}
	for i := len(s.templates) - 1; i >= 0; i-- {
		if match(s.templates[i]) {
			templates = append(templates, s.templates[i])
		}
	}
	return templates
}
