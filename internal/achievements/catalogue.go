// Package achievements holds the built-in achievement catalogue and decides
// which achievements a user's habits unlock.
package achievements

import (
	"github.com/Dias221467/Habit_Manager/internal/models"
	"github.com/Dias221467/Habit_Manager/pkg/dateutil"
)

// Predicate reports whether a habit collection satisfies an unlock rule on today.
type Predicate func(habits []models.Habit, today dateutil.Date) bool

// Definition describes a global achievement.
type Definition struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Icon        models.IconRef `json:"icon"`
}

// definitions is the display order of the catalogue.
var definitions = []Definition{
	{ID: "habit-former", Name: "Habit Former", Description: "Complete your 1st Streak", Icon: models.IconAward},
	{ID: "power-of-habit", Name: "Power of Habit", Description: "Completed your 1st milestone", Icon: models.IconSparkles},
	{ID: "atomic-habit", Name: "Atomic Habit", Description: "Completed your 1st Goal (all milestones for a habit)", Icon: models.IconTarget},
	{ID: "repeat-champion", Name: "Repeat Champion", Description: "Completed a habit cycle and started again", Icon: models.IconRepeat},
	{ID: "consistency-is-key", Name: "Consistency is Key", Description: "Finished a habit with a fixed duration", Icon: models.IconCalendarCheck},
	{ID: "committed", Name: "Committed", Description: "Completed a habit cycle 3 times", Icon: models.IconMedal},
	{ID: "practitioner", Name: "Practitioner", Description: "Completed a habit cycle 6 times", Icon: models.IconTrophy},
	{ID: "creature-of-habit", Name: "Creature of Habit", Description: "Kept a forever habit going for 2 months", Icon: models.IconFlame},
	{ID: "devotee", Name: "Devotee", Description: "Kept a forever habit going for 6 months", Icon: models.IconCrown},
}

var predicates = map[string]Predicate{
	"habit-former": anyHabit(func(h models.Habit, _ dateutil.Date) bool {
		return h.CurrentStreak > 0
	}),
	"power-of-habit": anyHabit(func(h models.Habit, _ dateutil.Date) bool {
		for _, m := range h.Milestones {
			if m.IsCompleted {
				return true
			}
		}
		return false
	}),
	"atomic-habit": anyHabit(func(h models.Habit, _ dateutil.Date) bool {
		return h.AllMilestonesCompleted()
	}),
	"repeat-champion": completionsAtLeast(1),
	"consistency-is-key": anyHabit(func(h models.Habit, _ dateutil.Date) bool {
		return h.RepeatMode == models.RepeatDuration && !h.IsActive
	}),
	"committed":         completionsAtLeast(3),
	"practitioner":      completionsAtLeast(6),
	"creature-of-habit": foreverForMonths(2),
	"devotee":           foreverForMonths(6),
}

// Catalogue returns the global achievements in display order.
func Catalogue() []Definition {
	return append([]Definition(nil), definitions...)
}

// Lookup returns the definition with the given id.
func Lookup(id string) (Definition, bool) {
	for _, d := range definitions {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

func anyHabit(match func(models.Habit, dateutil.Date) bool) Predicate {
	return func(habits []models.Habit, today dateutil.Date) bool {
		for _, h := range habits {
			if match(h, today) {
				return true
			}
		}
		return false
	}
}

func completionsAtLeast(n int) Predicate {
	return anyHabit(func(h models.Habit, _ dateutil.Date) bool {
		return h.CompletionCount >= n
	})
}

func foreverForMonths(n int) Predicate {
	return anyHabit(func(h models.Habit, today dateutil.Date) bool {
		return h.RepeatMode == models.RepeatForever && today.MonthsSince(h.StartDate) >= n
	})
}
