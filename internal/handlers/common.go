package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Dias221467/Habit_Manager/internal/services"
	"github.com/Dias221467/Habit_Manager/pkg/dateutil"
	"github.com/Dias221467/Habit_Manager/pkg/logger"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TimezoneHeader lets a client say which zone its "today" is in.
const TimezoneHeader = "X-Timezone"

// Calendar works out the caller's current day.
type Calendar struct {
	Location *time.Location
	Now      func() time.Time
}

func NewCalendar(loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{Location: loc, Now: time.Now}
}

// Today returns the current day in the zone named by the request's
// X-Timezone header, or in the configured zone.
func (c *Calendar) Today(r *http.Request) dateutil.Date {
	loc := c.Location
	if name := r.Header.Get(TimezoneHeader); name != "" {
		if l, err := time.LoadLocation(name); err == nil {
			loc = l
		} else {
			logger.Log.WithField("timezone", name).Debug("Ignoring unknown client timezone")
		}
	}
	return dateutil.Today(c.Now(), loc)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.WithError(err).Error("Failed to encode response")
	}
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrHabitInactive):
		return http.StatusConflict
	case errors.Is(err, services.ErrMalformedSuggestion):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrSuggestionUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the status of err. Internal failures get fallback
// as their message so storage details are not leaked.
func writeError(w http.ResponseWriter, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Log.WithError(err).Error(fallback)
		http.Error(w, fallback, status)
		return
	}
	logger.Log.WithError(err).Warn(fallback)
	http.Error(w, err.Error(), status)
}

func pathObjectID(w http.ResponseWriter, r *http.Request, what string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid "+what+" ID", http.StatusBadRequest)
		logger.Log.Warnf("Invalid %s ID: %v", what, err)
		return primitive.NilObjectID, false
	}
	return id, true
}
