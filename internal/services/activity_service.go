package services

import (
	"context"
	"time"

	"github.com/Dias221467/Habit_Manager/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const defaultActivityLimit = 20

type ActivityService struct {
	repo ActivityStore
}

func NewActivityService(repo ActivityStore) *ActivityService {
	return &ActivityService{repo: repo}
}

// LogActivity logs a user activity
func (s *ActivityService) LogActivity(
	ctx context.Context,
	userID string,
	actionType string,
	targetID primitive.ObjectID,
	message string,
) error {
	activity := &models.Activity{
		UserID:    userID,
		Type:      actionType,
		TargetID:  targetID,
		Message:   message,
		Timestamp: time.Now(),
	}

	err := s.repo.CreateActivity(ctx, activity)
	if err != nil {
		logrus.WithError(err).Error("Failed to log activity in service")
		return err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":     userID,
		"action_type": actionType,
	}).Info("Activity logged successfully")

	return nil
}

// GetRecentActivities returns recent actions performed by a user
func (s *ActivityService) GetRecentActivities(ctx context.Context, userID string, limit int) ([]models.Activity, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultActivityLimit
	}
	return s.repo.GetUserActivities(ctx, userID, limit)
}

// record logs an activity without failing the caller. s may be nil.
func (s *ActivityService) record(ctx context.Context, userID, actionType string, targetID primitive.ObjectID, message string) {
	if s == nil {
		return
	}
	_ = s.LogActivity(ctx, userID, actionType, targetID, message)
}
