package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IconRef is an opaque icon symbol resolved by the client.
type IconRef string

const (
	IconAward         IconRef = "award"
	IconSparkles      IconRef = "sparkles"
	IconTarget        IconRef = "target"
	IconRepeat        IconRef = "repeat"
	IconCalendarCheck IconRef = "calendar-check"
	IconMedal         IconRef = "medal"
	IconTrophy        IconRef = "trophy"
	IconFlame         IconRef = "flame"
	IconCrown         IconRef = "crown"
)

// AchievementRecord marks a global achievement as unlocked for a user.
type AchievementRecord struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        string             `bson:"user_id" json:"user_id"`
	AchievementID string             `bson:"achievement_id" json:"achievement_id"`
	UnlockedAt    time.Time          `bson:"unlocked_at" json:"unlocked_at"`
}

// UserAchievement is a generated, per-user achievement. Its unlock state is
// tracked explicitly rather than derived from habit state.
type UserAchievement struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID           string              `bson:"user_id" json:"user_id"`
	HabitID          *primitive.ObjectID `bson:"habit_id,omitempty" json:"habit_id,omitempty"`
	Name             string              `bson:"name" json:"name"`
	Description      string              `bson:"description" json:"description"`
	IconName         string              `bson:"icon_name" json:"icon_name"`
	TriggerCondition string              `bson:"trigger_condition" json:"trigger_condition"`
	IsUnlocked       bool                `bson:"is_unlocked" json:"is_unlocked"`
	UnlockedAt       *time.Time          `bson:"unlocked_at,omitempty" json:"unlocked_at,omitempty"`
	CreatedAt        time.Time           `bson:"created_at" json:"created_at"`
}

// AchievementStatus is a global achievement together with its unlock state.
type AchievementStatus struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        IconRef    `json:"icon"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
}
