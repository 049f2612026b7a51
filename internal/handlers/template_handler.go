package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Dias221467/Habit_Manager/internal/models"
	"github.com/Dias221467/Habit_Manager/internal/services"
	"github.com/Dias221467/Habit_Manager/pkg/logger"
	"github.com/Dias221467/Habit_Manager/pkg/middleware"
)

// TemplateHandler handles HTTP requests related to habit templates.
type TemplateHandler struct {
	TemplateService *services.TemplateService
	Calendar        *Calendar
}

// NewTemplateHandler creates a new instance of TemplateHandler.
func NewTemplateHandler(templateService *services.TemplateService, calendar *Calendar) *TemplateHandler {
	return &TemplateHandler{
		TemplateService: templateService,
		Calendar:        calendar,
	}
}

// CreateTemplateHandler allows a user to create a habit template.
func (h *TemplateHandler) CreateTemplateHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		logger.Log.Warn("Unauthorized attempt to create a template")
		return
	}

	var template models.HabitTemplate
	if err := json.NewDecoder(r.Body).Decode(&template); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		logger.Log.Warnf("Failed to decode template: %v", err)
		return
	}
	defer r.Body.Close()

	createdTemplate, err := h.TemplateService.CreateTemplate(r.Context(), claims.UserID, &template)
	if err != nil {
		writeError(w, err, "Failed to create template")
		return
	}

	logger.Log.Infof("User %s created template %s", claims.UserID, createdTemplate.ID.Hex())
	writeJSON(w, http.StatusCreated, createdTemplate)
}

// GetTemplatesHandler allows a user to fetch their own templates.
func (h *TemplateHandler) GetTemplatesHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		logger.Log.Warn("Unauthorized attempt to fetch templates")
		return
	}

	templates, err := h.TemplateService.GetTemplatesByUser(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err, "Failed to fetch templates")
		return
	}

	logger.Log.Infof("Fetched %d templates for user %s", len(templates), claims.UserID)
	writeJSON(w, http.StatusOK, templates)
}

func (h *TemplateHandler) GetTemplateByIDHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		logger.Log.Warn("Unauthorized access to template by ID")
		return
	}
	id, ok := pathObjectID(w, r, "template")
	if !ok {
		return
	}

	template, err := h.TemplateService.GetTemplateByID(r.Context(), claims.UserID, id)
	if err != nil {
		writeError(w, err, "Failed to fetch template")
		return
	}
	writeJSON(w, http.StatusOK, template)
}

func (h *TemplateHandler) CopyTemplateHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		logger.Log.Warn("Unauthorized attempt to copy template")
		return
	}
	id, ok := pathObjectID(w, r, "template")
	if !ok {
		return
	}

	today := h.Calendar.Today(r)
	habit, err := h.TemplateService.CopyTemplateToHabit(r.Context(), claims.UserID, id, today)
	if err != nil {
		writeError(w, err, "Failed to copy template")
		return
	}

	logger.Log.Infof("User %s copied template %s into habit %s", claims.UserID, id.Hex(), habit.ID.Hex())
	writeJSON(w, http.StatusCreated, newHabitResponse(*habit, today))
}

func (h *TemplateHandler) GetPublicTemplatesHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		logger.Log.Warn("Unauthorized attempt to fetch public templates")
		return
	}

	templates, err := h.TemplateService.GetPublicTemplates(r.Context())
	if err != nil {
		writeError(w, err, "Failed to fetch public templates")
		return
	}

	logger.Log.Infof("User %s fetched %d public templates", claims.UserID, len(templates))
	writeJSON(w, http.StatusOK, templates)
}
