package handlers

import (
	"net/http"
	"strconv"

	"github.com/Dias221467/Habit_Manager/internal/services"
	"github.com/Dias221467/Habit_Manager/pkg/middleware"
)

type ActivityHandler struct {
	Service *services.ActivityService
}

func NewActivityHandler(service *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{Service: service}
}

// GET /activity?limit=20
func (h *ActivityHandler) GetRecentActivitiesHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	activities, err := h.Service.GetRecentActivities(r.Context(), claims.UserID, limit)
	if err != nil {
		writeError(w, err, "Failed to fetch activity")
		return
	}
	writeJSON(w, http.StatusOK, activities)
}
