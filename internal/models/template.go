package models

import (
	"time"

	"github.com/Dias221467/Habit_Manager/pkg/dateutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HabitTemplate is a reusable milestone plan that can be copied into a habit.
type HabitTemplate struct {
	ID                  primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Title               string              `json:"title" bson:"title" validate:"required"`
	Description         string              `json:"description" bson:"description"`
	Milestones          []TemplateMilestone `json:"milestones" bson:"milestones" validate:"required,min=1,dive"`
	RepeatMode          RepeatMode          `json:"repeat_mode" bson:"repeat_mode" validate:"omitempty,oneof=forever duration"`
	RepeatDurationValue *int                `json:"repeat_duration_value,omitempty" bson:"repeat_duration_value,omitempty" validate:"omitempty,gt=0"`
	RepeatDurationUnit  *dateutil.Unit      `json:"repeat_duration_unit,omitempty" bson:"repeat_duration_unit,omitempty" validate:"omitempty,oneof=days weeks months years"`
	UserID              string              `json:"user_id" bson:"user_id"`
	Public              bool                `json:"public" bson:"public"`
	CreatedAt           time.Time           `json:"created_at" bson:"created_at"`
}

// TemplateMilestone is a milestone inside a template
type TemplateMilestone struct {
	Goal       string `bson:"goal" json:"goal" validate:"required"`
	TargetDays int    `bson:"targetDays" json:"targetDays" validate:"gt=0"`
}

// Draft turns the template into a habit draft named after the template.
func (t *HabitTemplate) Draft() HabitDraft {
	draft := HabitDraft{
		Name:                t.Title,
		RepeatMode:          t.RepeatMode,
		RepeatDurationValue: t.RepeatDurationValue,
		RepeatDurationUnit:  t.RepeatDurationUnit,
	}
	for _, m := range t.Milestones {
		draft.Milestones = append(draft.Milestones, MilestoneDraft{Goal: m.Goal, TargetDays: m.TargetDays})
	}
	return draft
}
