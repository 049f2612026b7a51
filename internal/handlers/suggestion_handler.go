package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Dias221467/Habit_Manager/internal/services"
	"github.com/Dias221467/Habit_Manager/pkg/logger"
	"github.com/Dias221467/Habit_Manager/pkg/middleware"
)

type SuggestionHandler struct {
	Service *services.SuggestionService
}

func NewSuggestionHandler(service *services.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{Service: service}
}

type suggestionRequest struct {
	Goal string `json:"goal"`
}

// POST /suggestions
func (h *SuggestionHandler) SuggestHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req suggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		logger.Log.Warnf("Failed to decode suggestion request: %v", err)
		return
	}
	defer r.Body.Close()

	suggestion, err := h.Service.Suggest(r.Context(), req.Goal)
	if err != nil {
		writeError(w, err, "Failed to generate suggestions")
		return
	}
	writeJSON(w, http.StatusOK, suggestion)
}
