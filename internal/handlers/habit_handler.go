package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Dias221467/Habit_Manager/internal/models"
	"github.com/Dias221467/Habit_Manager/internal/progress"
	"github.com/Dias221467/Habit_Manager/internal/services"
	"github.com/Dias221467/Habit_Manager/pkg/dateutil"
	"github.com/Dias221467/Habit_Manager/pkg/logger"
	"github.com/Dias221467/Habit_Manager/pkg/middleware"
	"github.com/sirupsen/logrus"
)

// HabitResponse is a habit together with its derived view for the caller's day.
type HabitResponse struct {
	models.Habit
	Summary progress.Summary `json:"summary"`
}

// CompletionResponse is the answer to POST /habits/{id}/complete.
type CompletionResponse struct {
	Habit              HabitResponse              `json:"habit"`
	Outcome            progress.Outcome           `json:"outcome"`
	MilestoneCompleted bool                       `json:"milestone_completed"`
	CycleCompleted     bool                       `json:"cycle_completed"`
	Expired            bool                       `json:"expired"`
	NewlyUnlocked      []models.AchievementStatus `json:"newly_unlocked"`
}

// HabitHandler handles HTTP requests related to habits.
type HabitHandler struct {
	HabitService       *services.HabitService
	AchievementService *services.AchievementService
	Events             *EventHub
	Calendar           *Calendar
}

// NewHabitHandler creates a new instance of HabitHandler. events may be nil.
func NewHabitHandler(habitService *services.HabitService, achievementService *services.AchievementService, events *EventHub, calendar *Calendar) *HabitHandler {
	return &HabitHandler{
		HabitService:       habitService,
		AchievementService: achievementService,
		Events:             events,
		Calendar:           calendar,
	}
}

func newHabitResponse(h models.Habit, today dateutil.Date) HabitResponse {
	return HabitResponse{Habit: h, Summary: progress.Summarize(h, today)}
}

// CreateHabitHandler handles POST /habits
func (h *HabitHandler) CreateHabitHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		logger.Log.Warn("Unauthorized attempt to create a habit")
		return
	}

	var draft models.HabitDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		logger.Log.Warnf("Failed to decode habit draft: %v", err)
		return
	}
	defer r.Body.Close()

	today := h.Calendar.Today(r)
	habit, err := h.HabitService.CreateHabit(r.Context(), claims.UserID, draft, today)
	if err != nil {
		writeError(w, err, "Failed to create habit")
		return
	}

	logger.Log.Infof("User %s created habit %s", claims.UserID, habit.ID.Hex())
	writeJSON(w, http.StatusCreated, newHabitResponse(*habit, today))
}

// GetHabitsHandler handles GET /habits
func (h *HabitHandler) GetHabitsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	habits, err := h.HabitService.GetHabits(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err, "Failed to fetch habits")
		return
	}

	today := h.Calendar.Today(r)
	out := make([]HabitResponse, 0, len(habits))
	for _, habit := range habits {
		out = append(out, newHabitResponse(habit, today))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetHabitHandler handles GET /habits/{id}
func (h *HabitHandler) GetHabitHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, ok := pathObjectID(w, r, "habit")
	if !ok {
		return
	}

	habit, err := h.HabitService.GetHabit(r.Context(), claims.UserID, id)
	if err != nil {
		writeError(w, err, "Failed to fetch habit")
		return
	}
	writeJSON(w, http.StatusOK, newHabitResponse(*habit, h.Calendar.Today(r)))
}

// CompleteHabitHandler handles POST /habits/{id}/complete
func (h *HabitHandler) CompleteHabitHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, ok := pathObjectID(w, r, "habit")
	if !ok {
		return
	}

	today := h.Calendar.Today(r)
	res, err := h.HabitService.MarkCompleted(r.Context(), claims.UserID, id, today)
	if err != nil {
		writeError(w, err, "Failed to mark habit completed")
		return
	}

	resp := CompletionResponse{
		Habit:              newHabitResponse(res.Habit, today),
		Outcome:            res.Outcome,
		MilestoneCompleted: res.MilestoneCompleted,
		CycleCompleted:     res.CycleCompleted,
		Expired:            res.Expired,
		NewlyUnlocked:      []models.AchievementStatus{},
	}

	if res.Outcome == progress.Advanced {
		// Progress is already stored; a failed evaluation only delays the unlocks.
		overview, err := h.AchievementService.GetAchievements(r.Context(), claims.UserID, today)
		if err != nil {
			logger.Log.WithError(err).WithField("user_id", claims.UserID).Error("Failed to evaluate achievements")
		} else {
			resp.NewlyUnlocked = overview.NewlyUnlocked
		}

		if res.CycleCompleted {
			h.Events.Publish(claims.UserID, Event{Type: EventCycleCompleted, Payload: resp.Habit})
		}
		for _, status := range resp.NewlyUnlocked {
			h.Events.Publish(claims.UserID, Event{Type: EventAchievementUnlocked, Payload: status})
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id":  claims.UserID,
		"habit_id": id.Hex(),
		"outcome":  res.Outcome,
	}).Info("Habit completion handled")
	writeJSON(w, http.StatusOK, resp)
}

// DeleteHabitHandler handles DELETE /habits/{id}
func (h *HabitHandler) DeleteHabitHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, ok := pathObjectID(w, r, "habit")
	if !ok {
		return
	}

	if err := h.HabitService.DeleteHabit(r.Context(), claims.UserID, id); err != nil {
		writeError(w, err, "Failed to delete habit")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Habit deleted"})
}
