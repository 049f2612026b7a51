package progress

import (
	"github.com/Dias221467/Habit_Manager/internal/models"
	"github.com/Dias221467/Habit_Manager/pkg/dateutil"
)

// Summary is the derived, read-only view of a habit on a given day.
type Summary struct {
	CurrentMilestone int            `json:"current_milestone"`
	ProgressPercent  float64        `json:"progress_percent"`
	CompletedToday   bool           `json:"completed_today"`
	EndDate          *dateutil.Date `json:"end_date,omitempty"`
	DurationEnded    bool           `json:"duration_ended"`
	DisplayActive    bool           `json:"display_active"`
}

// Summarize derives the view of h on today.
func Summarize(h models.Habit, today dateutil.Date) Summary {
	s := Summary{CurrentMilestone: h.CurrentMilestoneIndex(), ProgressPercent: 100}

	if s.CurrentMilestone >= 0 {
		m := h.Milestones[s.CurrentMilestone]
		if m.TargetDays > 0 {
			s.ProgressPercent = float64(m.CompletedDays) / float64(m.TargetDays) * 100
		}
	}
	s.CompletedToday = h.LastCompletedDate != nil && *h.LastCompletedDate == today

	if h.HasDuration() {
		if end, err := CycleEndDate(h.StartDate, *h.RepeatDurationValue, *h.RepeatDurationUnit); err == nil {
			s.EndDate = &end
			s.DurationEnded = !today.Before(end)
		}
	}
	s.DisplayActive = h.IsActive && !s.DurationEnded
	return s
}
