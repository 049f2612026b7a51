package progress

import (
	"testing"
	"time"

	"github.com/Dias221467/Habit_Manager/internal/models"
	"github.com/Dias221467/Habit_Manager/pkg/dateutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = dateutil.New(2023, time.March, 10)

func datePtr(d dateutil.Date) *dateutil.Date { return &d }

func newHabit(milestones ...models.Milestone) models.Habit {
	return models.Habit{
		UserID:     "user-1",
		Name:       "Walk 7000 steps a day",
		Milestones: milestones,
		StartDate:  dateutil.New(2023, time.March, 1),
		RepeatMode: models.RepeatForever,
		IsActive:   true,
	}
}

func durationHabit(value int, unit dateutil.Unit, milestones ...models.Milestone) models.Habit {
	h := newHabit(milestones...)
	h.RepeatMode = models.RepeatDuration
	h.RepeatDurationValue = &value
	h.RepeatDurationUnit = &unit
	return h
}

func TestMarkCompletedStreak(t *testing.T) {
	tests := []struct {
		name       string
		last       *dateutil.Date
		streak     int
		wantStreak int
	}{
		{name: "continues from yesterday", last: datePtr(today.AddDays(-1)), streak: 4, wantStreak: 5},
		{name: "restarts after a gap", last: datePtr(today.AddDays(-2)), streak: 4, wantStreak: 1},
		{name: "restarts after a long gap", last: datePtr(today.AddDays(-40)), streak: 12, wantStreak: 1},
		{name: "starts when never completed", last: nil, streak: 0, wantStreak: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHabit(models.Milestone{Goal: "1000 steps", TargetDays: 30})
			h.LastCompletedDate = tt.last
			h.CurrentStreak = tt.streak

			res, err := MarkCompleted(h, today)
			require.NoError(t, err)

			assert.Equal(t, Advanced, res.Outcome)
			assert.Equal(t, tt.wantStreak, res.Habit.CurrentStreak)
			require.NotNil(t, res.Habit.LastCompletedDate)
			assert.Equal(t, today, *res.Habit.LastCompletedDate)
		})
	}
}

func TestMarkCompletedTwiceSameDayIsNoop(t *testing.T) {
	h := newHabit(
		models.Milestone{Goal: "1000 steps", TargetDays: 3},
		models.Milestone{Goal: "3000 steps", TargetDays: 5},
	)
	h.LastCompletedDate = datePtr(today.AddDays(-1))
	h.CurrentStreak = 2

	first, err := MarkCompleted(h, today)
	require.NoError(t, err)
	require.Equal(t, Advanced, first.Outcome)

	second, err := MarkCompleted(first.Habit, today)
	require.NoError(t, err)

	assert.Equal(t, AlreadyCompleted, second.Outcome)
	assert.Equal(t, first.Habit, second.Habit)
	assert.Equal(t, 3, second.Habit.CurrentStreak)
	assert.Equal(t, 1, second.Habit.Milestones[0].CompletedDays)
}

func TestMarkCompletedDoesNotMutateInput(t *testing.T) {
	h := newHabit(models.Milestone{Goal: "1000 steps", TargetDays: 1})

	_, err := MarkCompleted(h, today)
	require.NoError(t, err)

	assert.Nil(t, h.LastCompletedDate)
	assert.Equal(t, 0, h.Milestones[0].CompletedDays)
	assert.False(t, h.Milestones[0].IsCompleted)
}

func TestMarkCompletedRejectsInactive(t *testing.T) {
	h := newHabit(models.Milestone{Goal: "1000 steps", TargetDays: 3})
	h.IsActive = false

	_, err := MarkCompleted(h, today)
	assert.ErrorIs(t, err, ErrHabitInactive)
}

func TestMarkCompletedAdvancesCurrentMilestoneOnly(t *testing.T) {
	h := newHabit(
		models.Milestone{Goal: "1000 steps", TargetDays: 3, CompletedDays: 3, IsCompleted: true},
		models.Milestone{Goal: "3000 steps", TargetDays: 5, CompletedDays: 1},
		models.Milestone{Goal: "5000 steps", TargetDays: 7},
	)

	res, err := MarkCompleted(h, today)
	require.NoError(t, err)

	assert.False(t, res.MilestoneCompleted)
	assert.Equal(t, 3, res.Habit.Milestones[0].CompletedDays)
	assert.Equal(t, 2, res.Habit.Milestones[1].CompletedDays)
	assert.Equal(t, 0, res.Habit.Milestones[2].CompletedDays)
}

func TestMarkCompletedCompletesMilestone(t *testing.T) {
	h := newHabit(
		models.Milestone{Goal: "1000 steps", TargetDays: 3, CompletedDays: 2},
		models.Milestone{Goal: "3000 steps", TargetDays: 5},
	)

	res, err := MarkCompleted(h, today)
	require.NoError(t, err)

	assert.True(t, res.MilestoneCompleted)
	assert.False(t, res.CycleCompleted)
	assert.True(t, res.Habit.Milestones[0].IsCompleted)
	assert.Equal(t, 1, res.Habit.CurrentMilestoneIndex())
}

func TestMarkCompletedClampsCounter(t *testing.T) {
	// Inconsistent stored state: counter already at target but not flagged.
	h := newHabit(
		models.Milestone{Goal: "1000 steps", TargetDays: 3, CompletedDays: 3},
		models.Milestone{Goal: "3000 steps", TargetDays: 5},
	)

	res, err := MarkCompleted(h, today)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Habit.Milestones[0].CompletedDays)
	assert.True(t, res.Habit.Milestones[0].IsCompleted)
}

func TestMarkCompletedForeverCycleResets(t *testing.T) {
	h := newHabit(
		models.Milestone{Goal: "1000 steps", TargetDays: 3, CompletedDays: 3, IsCompleted: true},
		models.Milestone{Goal: "3000 steps", TargetDays: 5, CompletedDays: 4},
	)
	h.CompletionCount = 2

	res, err := MarkCompleted(h, today)
	require.NoError(t, err)

	assert.True(t, res.MilestoneCompleted)
	assert.True(t, res.CycleCompleted)
	assert.False(t, res.Expired)
	assert.Equal(t, 3, res.Habit.CompletionCount)
	assert.True(t, res.Habit.IsActive)
	assert.Equal(t, h.StartDate, res.Habit.StartDate)
	for _, m := range res.Habit.Milestones {
		assert.Equal(t, 0, m.CompletedDays)
		assert.False(t, m.IsCompleted)
	}
}

func TestMarkCompletedDurationExpires(t *testing.T) {
	// Started March 1st, runs one week: ends March 8th, before today.
	h := durationHabit(1, dateutil.Weeks,
		models.Milestone{Goal: "Read 10 pages", TargetDays: 2, CompletedDays: 1},
	)

	res, err := MarkCompleted(h, today)
	require.NoError(t, err)

	assert.True(t, res.CycleCompleted)
	assert.True(t, res.Expired)
	assert.False(t, res.Habit.IsActive)
	assert.Equal(t, 1, res.Habit.CompletionCount)
	assert.True(t, res.Habit.Milestones[0].IsCompleted)
	assert.Equal(t, 2, res.Habit.Milestones[0].CompletedDays)

	_, err = MarkCompleted(res.Habit, today.AddDays(1))
	assert.ErrorIs(t, err, ErrHabitInactive)
}

func TestMarkCompletedDurationExpiresOnEndDate(t *testing.T) {
	h := durationHabit(9, dateutil.Days,
		models.Milestone{Goal: "Read 10 pages", TargetDays: 1},
	)

	res, err := MarkCompleted(h, today)
	require.NoError(t, err)

	assert.True(t, res.Expired)
	assert.False(t, res.Habit.IsActive)
}

func TestMarkCompletedDurationWithinWindowResets(t *testing.T) {
	h := durationHabit(2, dateutil.Months,
		models.Milestone{Goal: "Read 10 pages", TargetDays: 2, CompletedDays: 1},
	)

	res, err := MarkCompleted(h, today)
	require.NoError(t, err)

	assert.True(t, res.CycleCompleted)
	assert.False(t, res.Expired)
	assert.True(t, res.Habit.IsActive)
	assert.Equal(t, 1, res.Habit.CompletionCount)
	assert.Equal(t, h.StartDate, res.Habit.StartDate)
	assert.False(t, res.Habit.Milestones[0].IsCompleted)
	assert.Equal(t, 0, res.Habit.Milestones[0].CompletedDays)
}

func TestMarkCompletedWithoutMilestones(t *testing.T) {
	h := newHabit()

	res, err := MarkCompleted(h, today)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Habit.CurrentStreak)
	assert.False(t, res.CycleCompleted)
	assert.Equal(t, 0, res.Habit.CompletionCount)
}

func TestCycleEndDate(t *testing.T) {
	start := dateutil.New(2023, time.January, 1)

	tests := []struct {
		value int
		unit  dateutil.Unit
		want  string
	}{
		{5, dateutil.Days, "2023-01-06"},
		{2, dateutil.Weeks, "2023-01-15"},
		{1, dateutil.Months, "2023-02-01"},
		{1, dateutil.Years, "2024-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := CycleEndDate(start, tt.value, tt.unit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}

	_, err := CycleEndDate(start, -1, dateutil.Days)
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	h := durationHabit(1, dateutil.Months,
		models.Milestone{Goal: "1000 steps", TargetDays: 3, CompletedDays: 3, IsCompleted: true},
		models.Milestone{Goal: "3000 steps", TargetDays: 4, CompletedDays: 1},
	)
	h.LastCompletedDate = datePtr(today)

	s := Summarize(h, today)
	assert.Equal(t, 1, s.CurrentMilestone)
	assert.InDelta(t, 25.0, s.ProgressPercent, 0.001)
	assert.True(t, s.CompletedToday)
	require.NotNil(t, s.EndDate)
	assert.Equal(t, "2023-04-01", s.EndDate.String())
	assert.False(t, s.DurationEnded)
	assert.True(t, s.DisplayActive)

	later := Summarize(h, dateutil.New(2023, time.April, 2))
	assert.False(t, later.CompletedToday)
	assert.True(t, later.DurationEnded)
	assert.False(t, later.DisplayActive)

	done := newHabit(models.Milestone{Goal: "1000 steps", TargetDays: 3, CompletedDays: 3, IsCompleted: true})
	s = Summarize(done, today)
	assert.Equal(t, -1, s.CurrentMilestone)
	assert.Equal(t, 100.0, s.ProgressPercent)
	assert.Nil(t, s.EndDate)
}
