package models

import (
	"time"

	"github.com/Dias221467/Habit_Manager/pkg/dateutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RepeatMode controls what happens when every milestone of a habit is completed.
type RepeatMode string

const (
	RepeatForever  RepeatMode = "forever"
	RepeatDuration RepeatMode = "duration"
)

// Milestone is a sub-goal with a day-count target.
type Milestone struct {
	Goal          string `bson:"goal" json:"goal"`
	TargetDays    int    `bson:"targetDays" json:"targetDays"`
	CompletedDays int    `bson:"completedDays" json:"completedDays"`
	IsCompleted   bool   `bson:"isCompleted" json:"isCompleted"`
}

// Habit is a user's long-term goal broken into milestones.
type Habit struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID              string             `bson:"user_id" json:"user_id"`
	Name                string             `bson:"name" json:"name"`
	Milestones          []Milestone        `bson:"milestones" json:"milestones"`
	CurrentStreak       int                `bson:"current_streak" json:"current_streak"`
	LastCompletedDate   *dateutil.Date     `bson:"last_completed_date" json:"last_completed_date"`
	CreatedAt           time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time          `bson:"updated_at" json:"updated_at"`
	StartDate           dateutil.Date      `bson:"start_date" json:"start_date"`
	RepeatMode          RepeatMode         `bson:"repeat_mode" json:"repeat_mode"`
	RepeatDurationValue *int               `bson:"repeat_duration_value" json:"repeat_duration_value"`
	RepeatDurationUnit  *dateutil.Unit     `bson:"repeat_duration_unit" json:"repeat_duration_unit"`
	IsActive            bool               `bson:"is_active" json:"is_active"`
	CompletionCount     int                `bson:"completion_count" json:"completion_count"`
}

// CurrentMilestoneIndex returns the index of the first incomplete milestone, or -1.
func (h *Habit) CurrentMilestoneIndex() int {
	for i, m := range h.Milestones {
		if !m.IsCompleted {
			return i
		}
	}
	return -1
}

// AllMilestonesCompleted reports whether the habit has milestones and every one is completed.
func (h *Habit) AllMilestonesCompleted() bool {
	return len(h.Milestones) > 0 && h.CurrentMilestoneIndex() == -1
}

// HasDuration reports whether the habit is duration-bounded with both duration fields set.
func (h *Habit) HasDuration() bool {
	return h.RepeatMode == RepeatDuration && h.RepeatDurationValue != nil && h.RepeatDurationUnit != nil
}

// Clone returns a copy of h that shares no mutable state with it.
func (h Habit) Clone() Habit {
	out := h
	out.Milestones = append([]Milestone(nil), h.Milestones...)
	if h.LastCompletedDate != nil {
		d := *h.LastCompletedDate
		out.LastCompletedDate = &d
	}
	if h.RepeatDurationValue != nil {
		v := *h.RepeatDurationValue
		out.RepeatDurationValue = &v
	}
	if h.RepeatDurationUnit != nil {
		u := *h.RepeatDurationUnit
		out.RepeatDurationUnit = &u
	}
	return out
}

// HabitProgressUpdate holds the fields written back after a completion.
type HabitProgressUpdate struct {
	CurrentStreak     int            `bson:"current_streak"`
	LastCompletedDate *dateutil.Date `bson:"last_completed_date"`
	Milestones        []Milestone    `bson:"milestones"`
	IsActive          bool           `bson:"is_active"`
	CompletionCount   int            `bson:"completion_count"`
	StartDate         dateutil.Date  `bson:"start_date"`
	UpdatedAt         time.Time      `bson:"updated_at"`
}

// ProgressUpdate extracts the progress fields of h.
func (h *Habit) ProgressUpdate() HabitProgressUpdate {
	return HabitProgressUpdate{
		CurrentStreak:     h.CurrentStreak,
		LastCompletedDate: h.LastCompletedDate,
		Milestones:        h.Milestones,
		IsActive:          h.IsActive,
		CompletionCount:   h.CompletionCount,
		StartDate:         h.StartDate,
		UpdatedAt:         h.UpdatedAt,
	}
}

// Apply copies the fields of u onto h.
func (u HabitProgressUpdate) Apply(h *Habit) {
	h.CurrentStreak = u.CurrentStreak
	h.LastCompletedDate = u.LastCompletedDate
	h.Milestones = append([]Milestone(nil), u.Milestones...)
	h.IsActive = u.IsActive
	h.CompletionCount = u.CompletionCount
	h.StartDate = u.StartDate
	h.UpdatedAt = u.UpdatedAt
}

// MilestoneDraft is a milestone proposed by a user or by the suggestion service.
type MilestoneDraft struct {
	Goal       string `json:"goal" validate:"required"`
	TargetDays int    `json:"targetDays" validate:"gt=0"`
}

// AchievementDraft is a generated achievement proposed alongside a habit.
type AchievementDraft struct {
	Name             string `json:"name" validate:"required"`
	Description      string `json:"description"`
	IconName         string `json:"iconName"`
	TriggerCondition string `json:"triggerCondition" validate:"required"`
}

// HabitDraft is the input for creating a habit.
type HabitDraft struct {
	Name                string             `json:"name" validate:"required"`
	Milestones          []MilestoneDraft   `json:"milestones" validate:"required,min=1,dive"`
	RepeatMode          RepeatMode         `json:"repeat_mode" validate:"omitempty,oneof=forever duration"`
	RepeatDurationValue *int               `json:"repeat_duration_value" validate:"omitempty,gt=0"`
	RepeatDurationUnit  *dateutil.Unit     `json:"repeat_duration_unit" validate:"omitempty,oneof=days weeks months years"`
	Achievements        []AchievementDraft `json:"achievements" validate:"dive"`
}
