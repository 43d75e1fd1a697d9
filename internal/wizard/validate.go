package wizard

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinPasswordLength is the shortest password a password field accepts.
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validation messages shared by every form.
const (
	MsgInvalidEmail  = "Please enter a valid email address"
	MsgShortPassword = "Password must be at least 6 characters"
)

// RequiredMessage is the message recorded for an empty required field.
func RequiredMessage(f Field) string {
	return fmt.Sprintf("%s is required", f.Title)
}

// Validate checks a single field against values and returns the messages
// keyed by field id. A paired "other" field reports under its own id. An
// empty map means the field is valid.
func Validate(f Field, values Values) map[string]string {
	errs := map[string]string{}
	switch f.Kind {
	case KindMultiChoice:
		if f.Required && len(values.Lists[f.ID]) == 0 {
			errs[f.ID] = RequiredMessage(f)
		}
	case KindChoice:
		value := values.Get(f.ID)
		switch {
		case value == "":
			if f.Required {
				errs[f.ID] = RequiredMessage(f)
			}
		case !f.HasOption(value):
			errs[f.ID] = fmt.Sprintf("Please select one of: %s", strings.Join(f.Options, ", "))
		}
	case KindOrganization:
		if f.Required && values.Trimmed(f.ID) == "" {
			errs[f.ID] = RequiredMessage(f)
		}
	default:
		value := values.Get(f.ID)
		trimmed := strings.TrimSpace(value)
		if f.Required && trimmed == "" {
			errs[f.ID] = RequiredMessage(f)
			break
		}
		if value == "" {
			break
		}
		switch f.Kind {
		case KindEmail:
			if !emailPattern.MatchString(trimmed) {
				errs[f.ID] = MsgInvalidEmail
			}
		case KindPassword:
			if utf8.RuneCountInString(value) < MinPasswordLength {
				errs[f.ID] = MsgShortPassword
			}
		}
	}
	if _, failed := errs[f.ID]; !failed && f.OtherActive(values) {
		if values.Trimmed(f.Other.FieldID) == "" {
			errs[f.Other.FieldID] = f.Other.Message
		}
	}
	return errs
}

// ValidateAll validates every field, for flat single-page forms.
func ValidateAll(fields []Field, values Values) map[string]string {
	errs := map[string]string{}
	for _, f := range fields {
		for id, msg := range Validate(f, values) {
			errs[id] = msg
		}
	}
	return errs
}
