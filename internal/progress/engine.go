// Package progress computes how a habit advances when a day is marked completed.
//
// The functions here are pure: they take a habit snapshot and calendar dates and
// return the next snapshot. Loading and saving habits is the caller's job.
package progress

import (
	"errors"
	"fmt"

	"github.com/Dias221467/Habit_Manager/internal/models"
	"github.com/Dias221467/Habit_Manager/pkg/dateutil"
)

// ErrHabitInactive is returned when completing a habit whose duration window has ended.
var ErrHabitInactive = errors.New("habit is no longer active")

// Outcome tells the caller what a completion request did.
type Outcome string

const (
	// Advanced means the habit state moved forward and must be persisted.
	Advanced Outcome = "advanced"
	// AlreadyCompleted means the habit was already completed today; nothing changed.
	AlreadyCompleted Outcome = "already_completed"
)

// Result is the state of a habit after a completion request.
type Result struct {
	Habit   models.Habit `json:"habit"`
	Outcome Outcome      `json:"outcome"`

	// MilestoneCompleted is set when the current milestone reached its target.
	MilestoneCompleted bool `json:"milestone_completed"`
	// CycleCompleted is set when every milestone was completed by this request.
	CycleCompleted bool `json:"cycle_completed"`
	// Expired is set when a duration habit finished its window and became inactive.
	Expired bool `json:"expired"`
}

// MarkCompleted returns the state of h after marking today as completed.
// The input habit is not modified.
func MarkCompleted(h models.Habit, today dateutil.Date) (Result, error) {
	if !h.IsActive {
		return Result{}, ErrHabitInactive
	}
	if h.LastCompletedDate != nil && *h.LastCompletedDate == today {
		return Result{Habit: h, Outcome: AlreadyCompleted}, nil
	}

	next := h.Clone()
	res := Result{Outcome: Advanced}

	if next.LastCompletedDate != nil && *next.LastCompletedDate == today.AddDays(-1) {
		next.CurrentStreak++
	} else {
		next.CurrentStreak = 1
	}
	completed := today
	next.LastCompletedDate = &completed

	if i := next.CurrentMilestoneIndex(); i >= 0 {
		m := &next.Milestones[i]
		if m.CompletedDays < m.TargetDays {
			m.CompletedDays++
		}
		if m.CompletedDays >= m.TargetDays {
			m.IsCompleted = true
			res.MilestoneCompleted = true
		}
	}

	if next.AllMilestonesCompleted() {
		res.CycleCompleted = true
		next.CompletionCount++

		expired, err := windowElapsed(&next, today)
		if err != nil {
			return Result{}, err
		}
		if expired {
			next.IsActive = false
			res.Expired = true
		} else {
			resetMilestones(next.Milestones)
		}
	}

	res.Habit = next
	return res, nil
}

// CycleEndDate returns start advanced by value units of unit.
func CycleEndDate(start dateutil.Date, value int, unit dateutil.Unit) (dateutil.Date, error) {
	if value < 0 {
		return dateutil.Date{}, fmt.Errorf("duration value must not be negative, got %d", value)
	}
	return start.Add(value, unit)
}

// windowElapsed reports whether a duration habit's window is over on today.
// The end date is treated as elapsed from its first moment onwards. Forever
// habits never elapse.
func windowElapsed(h *models.Habit, today dateutil.Date) (bool, error) {
	if !h.HasDuration() {
		return false, nil
	}
	end, err := CycleEndDate(h.StartDate, *h.RepeatDurationValue, *h.RepeatDurationUnit)
	if err != nil {
		return false, err
	}
	return !today.Before(end), nil
}

func resetMilestones(ms []models.Milestone) {
	for i := range ms {
		ms[i].CompletedDays = 0
		ms[i].IsCompleted = false
	}
}
