package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ActivityHabitCreated        = "habit_created"
	ActivityHabitCompleted      = "habit_completed"
	ActivityHabitDeleted        = "habit_deleted"
	ActivityAchievementUnlocked = "achievement_unlocked"
)

type Activity struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Type      string             `bson:"type" json:"type"`                                 // e.g. "habit_created", "habit_completed"
	TargetID  primitive.ObjectID `bson:"target_id,omitempty" json:"target_id,omitempty"` // the ID of the habit or achievement
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
	Message   string             `bson:"message" json:"message"`
}
