package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Browsers submit datetime-local values without a zone; those are read as UTC.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func ParseDateTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date time %q", value)
}

func ValidateAddMeetingInput(input AddMeetingInput, creatorID string) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Agenda) == "" {
		errors = append(errors, ValidationError{"agenda", "is required"})
	}

	if strings.TrimSpace(input.DateTime) == "" {
		errors = append(errors, ValidationError{"dateTime", "is required"})
	} else if _, err := ParseDateTime(input.DateTime); err != nil {
		errors = append(errors, ValidationError{"dateTime", "must be an ISO 8601 date time"})
	}

	if input.Related != "" && !entity.Related(input.Related).Valid() {
		errors = append(errors, ValidationError{"related", "must be Contact, Lead or None"})
	}

	errors = append(errors, validateIDs("attendees", input.Attendees)...)
	errors = append(errors, validateIDs("attendeesLead", input.AttendeesLead)...)

	if strings.TrimSpace(creatorID) == "" {
		errors = append(errors, ValidationError{"createBy", "authenticated user is required"})
	}

	return errors
}

func ValidateDeleteManyInput(input DeleteManyInput) []ValidationError {
	if len(input.IDs) == 0 {
		return []ValidationError{{"ids", "at least one id is required"}}
	}
	return validateIDs("ids", input.IDs)
}

func validateIDs(field string, ids []string) []ValidationError {
	var errors []ValidationError
	for i, id := range ids {
		if strings.TrimSpace(id) == "" {
			errors = append(errors, ValidationError{fmt.Sprintf("%s[%d]", field, i), "must not be blank"})
		}
	}
	return errors
}

func trimIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, strings.TrimSpace(id))
	}
	return out
}
