package handlers

import (
	"net/http"

	"github.com/Dias221467/Habit_Manager/internal/services"
	"github.com/Dias221467/Habit_Manager/pkg/middleware"
)

type AchievementHandler struct {
	Service  *services.AchievementService
	Events   *EventHub
	Calendar *Calendar
}

func NewAchievementHandler(service *services.AchievementService, events *EventHub, calendar *Calendar) *AchievementHandler {
	return &AchievementHandler{Service: service, Events: events, Calendar: calendar}
}

// GET /achievements
func (h *AchievementHandler) GetAchievementsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	overview, err := h.Service.GetAchievements(r.Context(), claims.UserID, h.Calendar.Today(r))
	if err != nil {
		writeError(w, err, "Failed to load achievements")
		return
	}

	for _, status := range overview.NewlyUnlocked {
		h.Events.Publish(claims.UserID, Event{Type: EventAchievementUnlocked, Payload: status})
	}
	writeJSON(w, http.StatusOK, overview)
}

// POST /achievements/custom/{id}/unlock
func (h *AchievementHandler) UnlockCustomAchievementHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, ok := pathObjectID(w, r, "achievement")
	if !ok {
		return
	}

	item, err := h.Service.UnlockUserAchievement(r.Context(), claims.UserID, id)
	if err != nil {
		writeError(w, err, "Failed to unlock achievement")
		return
	}
	writeJSON(w, http.StatusOK, item)
}
