package habit

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jmercier/habitflow/internal/constants"
)

// Input is the raw material for creating or updating a habit.
type Input struct {
	Name         string
	Icon         string
	Color        string
	Schedule     Schedule
	ReminderTime string
}

var (
	colorPattern    = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	reminderPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

// ValidationResult carries every rule violation found in an input, in
// the order the rules are checked. Valid is true only when Errors is
// empty.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// ValidationError is the error form of a failed validation, so callers
// can surface the full message list.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "invalid habit: " + strings.Join(e.Errors, "; ")
}

// Validate checks an input against every rule and collects all
// violations rather than stopping at the first.
func Validate(in Input) ValidationResult {
	var errs []string

	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, "habit name is required")
	}
	if utf8.RuneCountInString(in.Name) > constants.MaxNameLength {
		errs = append(errs, fmt.Sprintf("habit name cannot exceed %d characters", constants.MaxNameLength))
	}
	if in.Icon != "" && utf8.RuneCountInString(in.Icon) > constants.MaxIconLength {
		errs = append(errs, "habit icon is not valid")
	}
	if in.Color != "" && !colorPattern.MatchString(in.Color) {
		errs = append(errs, "habit color is not valid")
	}
	if in.Schedule.Kind == ScheduleWeekdays && len(in.Schedule.Days) == 0 {
		errs = append(errs, "schedule must list at least one weekday")
	}
	if in.ReminderTime != "" && !reminderPattern.MatchString(in.ReminderTime) {
		errs = append(errs, "reminder time is not valid")
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// Err converts the result into a *ValidationError, or nil when valid.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Errors: r.Errors}
}

// InputOf extracts the editable fields of a habit, the base a patch is
// merged over before re-validation.
func InputOf(h *Habit) Input {
	return Input{
		Name:         h.Name,
		Icon:         h.Icon,
		Color:        h.Color,
		Schedule:     h.Schedule,
		ReminderTime: h.ReminderTime,
	}
}
