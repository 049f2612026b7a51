package achievements

import (
	"time"

	"github.com/Dias221467/Habit_Manager/internal/models"
	"github.com/Dias221467/Habit_Manager/pkg/dateutil"
)

// Evaluation is the unlock state of every global achievement for one user.
type Evaluation struct {
	Statuses []models.AchievementStatus
	// NewRecords are unlocks that were not stored yet and must be persisted.
	NewRecords []models.AchievementRecord
}

// Evaluate computes the unlock state of the catalogue. Achievements that are
// already recorded stay unlocked and their predicates are not consulted.
func Evaluate(userID string, habits []models.Habit, records []models.AchievementRecord, today dateutil.Date, now time.Time) Evaluation {
	unlocked := make(map[string]time.Time, len(records))
	for _, r := range records {
		unlocked[r.AchievementID] = r.UnlockedAt
	}

	eval := Evaluation{Statuses: make([]models.AchievementStatus, 0, len(definitions))}
	for _, def := range definitions {
		status := models.AchievementStatus{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
		}

		if at, ok := unlocked[def.ID]; ok {
			at := at
			status.Unlocked = true
			status.UnlockedAt = &at
		} else if pred, ok := predicates[def.ID]; ok && pred(habits, today) {
			at := now
			status.Unlocked = true
			status.UnlockedAt = &at
			eval.NewRecords = append(eval.NewRecords, models.AchievementRecord{
				UserID:        userID,
				AchievementID: def.ID,
				UnlockedAt:    now,
			})
		}

		eval.Statuses = append(eval.Statuses, status)
	}
	return eval
}
