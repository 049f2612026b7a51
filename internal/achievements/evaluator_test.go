package achievements

import (
	"testing"
	"time"

	"github.com/Dias221467/Habit_Manager/internal/models"
	"github.com/Dias221467/Habit_Manager/pkg/dateutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	today = dateutil.New(2023, time.September, 1)
	now   = time.Date(2023, time.September, 1, 18, 0, 0, 0, time.UTC)
)

func unlockedIDs(eval Evaluation) []string {
	var ids []string
	for _, s := range eval.Statuses {
		if s.Unlocked {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

func TestEveryDefinitionHasPredicate(t *testing.T) {
	for _, def := range Catalogue() {
		_, ok := predicates[def.ID]
		assert.True(t, ok, "missing predicate for %s", def.ID)
	}
	assert.Len(t, predicates, len(definitions))
}

func TestPredicates(t *testing.T) {
	done := models.Milestone{Goal: "a", TargetDays: 1, CompletedDays: 1, IsCompleted: true}
	open := models.Milestone{Goal: "b", TargetDays: 2}

	tests := []struct {
		id    string
		habit models.Habit
		want  bool
	}{
		{id: "habit-former", habit: models.Habit{CurrentStreak: 1}, want: true},
		{id: "habit-former", habit: models.Habit{CurrentStreak: 0}, want: false},
		{id: "power-of-habit", habit: models.Habit{Milestones: []models.Milestone{done, open}}, want: true},
		{id: "power-of-habit", habit: models.Habit{Milestones: []models.Milestone{open}}, want: false},
		{id: "atomic-habit", habit: models.Habit{Milestones: []models.Milestone{done, done}}, want: true},
		{id: "atomic-habit", habit: models.Habit{Milestones: []models.Milestone{done, open}}, want: false},
		{id: "atomic-habit", habit: models.Habit{}, want: false},
		{id: "repeat-champion", habit: models.Habit{CompletionCount: 1}, want: true},
		{id: "repeat-champion", habit: models.Habit{CompletionCount: 0}, want: false},
		{id: "consistency-is-key", habit: models.Habit{RepeatMode: models.RepeatDuration, IsActive: false}, want: true},
		{id: "consistency-is-key", habit: models.Habit{RepeatMode: models.RepeatDuration, IsActive: true}, want: false},
		{id: "consistency-is-key", habit: models.Habit{RepeatMode: models.RepeatForever, IsActive: false}, want: false},
		{id: "committed", habit: models.Habit{CompletionCount: 3}, want: true},
		{id: "committed", habit: models.Habit{CompletionCount: 2}, want: false},
		{id: "practitioner", habit: models.Habit{CompletionCount: 6}, want: true},
		{id: "practitioner", habit: models.Habit{CompletionCount: 5}, want: false},
		{id: "creature-of-habit", habit: models.Habit{RepeatMode: models.RepeatForever, StartDate: dateutil.New(2023, time.July, 1)}, want: true},
		{id: "creature-of-habit", habit: models.Habit{RepeatMode: models.RepeatForever, StartDate: dateutil.New(2023, time.July, 2)}, want: false},
		{id: "creature-of-habit", habit: models.Habit{RepeatMode: models.RepeatDuration, StartDate: dateutil.New(2023, time.January, 1)}, want: false},
		{id: "devotee", habit: models.Habit{RepeatMode: models.RepeatForever, StartDate: dateutil.New(2023, time.March, 1)}, want: true},
		{id: "devotee", habit: models.Habit{RepeatMode: models.RepeatForever, StartDate: dateutil.New(2023, time.April, 1)}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got := predicates[tt.id]([]models.Habit{tt.habit}, today)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateNoHabits(t *testing.T) {
	eval := Evaluate("user-1", nil, nil, today, now)

	assert.Len(t, eval.Statuses, len(definitions))
	assert.Empty(t, unlockedIDs(eval))
	assert.Empty(t, eval.NewRecords)
}

func TestEvaluateAtomicHabitUnlocksOnce(t *testing.T) {
	habits := []models.Habit{{
		RepeatMode: models.RepeatDuration,
		IsActive:   true,
		Milestones: []models.Milestone{{Goal: "a", TargetDays: 1, CompletedDays: 1, IsCompleted: true}},
	}}

	first := Evaluate("user-1", habits, nil, today, now)
	assert.ElementsMatch(t, []string{"power-of-habit", "atomic-habit"}, unlockedIDs(first))
	require.Len(t, first.NewRecords, 2)
	for _, r := range first.NewRecords {
		assert.Equal(t, "user-1", r.UserID)
		assert.Equal(t, now, r.UnlockedAt)
	}

	second := Evaluate("user-1", habits, first.NewRecords, today, now.Add(time.Hour))
	assert.ElementsMatch(t, []string{"power-of-habit", "atomic-habit"}, unlockedIDs(second))
	assert.Empty(t, second.NewRecords)
}

func TestEvaluateRecordedUnlocksAreMonotonic(t *testing.T) {
	unlockedAt := now.Add(-48 * time.Hour)
	records := []models.AchievementRecord{{UserID: "user-1", AchievementID: "habit-former", UnlockedAt: unlockedAt}}

	// The streak has since been lost, the achievement must stay unlocked.
	habits := []models.Habit{{CurrentStreak: 0}}

	eval := Evaluate("user-1", habits, records, today, now)
	require.Equal(t, "habit-former", eval.Statuses[0].ID)
	assert.True(t, eval.Statuses[0].Unlocked)
	require.NotNil(t, eval.Statuses[0].UnlockedAt)
	assert.Equal(t, unlockedAt, *eval.Statuses[0].UnlockedAt)
	assert.Empty(t, eval.NewRecords)
}

func TestLookup(t *testing.T) {
	def, ok := Lookup("devotee")
	require.True(t, ok)
	assert.Equal(t, models.IconCrown, def.Icon)

	_, ok = Lookup("unknown")
	assert.False(t, ok)
}
