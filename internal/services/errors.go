package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Dias221467/Habit_Manager/internal/progress"
	"github.com/Dias221467/Habit_Manager/internal/repository"
	"github.com/Dias221467/Habit_Manager/internal/suggestions"
	"github.com/go-playground/validator/v10"
)

var (
	ErrValidation            = errors.New("validation failed")
	ErrNotFound              = repository.ErrNotFound
	ErrHabitInactive         = progress.ErrHabitInactive
	ErrSuggestionUnavailable = suggestions.ErrUnavailable
	ErrMalformedSuggestion   = suggestions.ErrMalformed
)

var validate = validator.New()

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// validationError turns validator output into an ErrValidation listing the failed fields.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
	}
	return invalid("%s", strings.Join(msgs, ", "))
}
