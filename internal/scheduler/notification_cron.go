package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/Habit_Manager/internal/jobs"
	"github.com/Dias221467/Habit_Manager/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Schedule holds the cron expressions of the background jobs.
type Schedule struct {
	Reminder string
	Cleanup  string
	Location *time.Location
}

// StartNotificationCronJobs registers the reminder and cleanup jobs and starts
// the scheduler. The caller stops it on shutdown.
func StartNotificationCronJobs(schedule Schedule, reminder *jobs.StreakReminder, notificationService *services.NotificationService) (*cron.Cron, error) {
	loc := schedule.Location
	if loc == nil {
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	// Streak at risk reminders
	_, err := c.AddFunc(schedule.Reminder, func() {
		if err := reminder.RunDailyScan(context.Background()); err != nil {
			logrus.WithError(err).Error("RunDailyScan failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", schedule.Reminder, err)
	}

	// Expired notification cleanup
	_, err = c.AddFunc(schedule.Cleanup, func() {
		if err := notificationService.DeleteExpiredNotifications(context.Background()); err != nil {
			logrus.WithError(err).Error("DeleteExpiredNotifications failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cleanup schedule %q: %w", schedule.Cleanup, err)
	}

	c.Start()
	logrus.WithFields(logrus.Fields{
		"reminder": schedule.Reminder,
		"cleanup":  schedule.Cleanup,
		"timezone": loc.String(),
	}).Info("Notification cron jobs started")
	return c, nil
}
