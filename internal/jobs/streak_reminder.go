package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Habit_Manager/internal/services"
	"github.com/Dias221467/Habit_Manager/pkg/dateutil"
	"github.com/sirupsen/logrus"
)

type StreakReminder struct {
	NotificationService *services.NotificationService
	Location            *time.Location
	Now                 func() time.Time
}

// NewStreakReminder creates a new instance of StreakReminder
func NewStreakReminder(notifService *services.NotificationService, loc *time.Location) *StreakReminder {
	if loc == nil {
		loc = time.UTC
	}
	return &StreakReminder{
		NotificationService: notifService,
		Location:            loc,
		Now:                 time.Now,
	}
}

// RunDailyScan reminds users whose streak ends unless they complete the habit today
func (s *StreakReminder) RunDailyScan(ctx context.Context) error {
	today := dateutil.Today(s.Now(), s.Location)

	sent, err := s.NotificationService.CheckStreaksAtRisk(ctx, today)
	if err != nil {
		return fmt.Errorf("streak reminder scan failed: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"day":  today.String(),
		"sent": sent,
	}).Info("Streak reminder scan completed")
	return nil
}
