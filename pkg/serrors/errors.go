package serrors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// BaseError is a structured error carrying a stable machine-readable code.
// LocaleKey is an optional translation key consumed by presentation layers.
type BaseError struct {
	Code      string
	Message   string
	LocaleKey string
}

func (e *BaseError) Error() string {
	return e.Message
}

func NewError(code, message, localeKey string) *BaseError {
	return &BaseError{
		Code:      code,
		Message:   message,
		LocaleKey: localeKey,
	}
}

func NewFieldRequiredError(field, localeKey string) *BaseError {
	return &BaseError{
		Code:      "FIELD_REQUIRED",
		Message:   fmt.Sprintf("%s is required", field),
		LocaleKey: localeKey,
	}
}

func NewFieldInvalidError(field, detail, localeKey string) *BaseError {
	return &BaseError{
		Code:      "FIELD_INVALID",
		Message:   fmt.Sprintf("%s %s", field, detail),
		LocaleKey: localeKey,
	}
}

// ValidationErrors aggregates per-field failures so callers can report every
// violated constraint at once instead of the first one encountered.
type ValidationErrors map[string]*BaseError

func (ve ValidationErrors) Error() string {
	fields := make([]string, 0, len(ve))
	for field := range ve {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, ve[field].Message))
	}
	return strings.Join(parts, "; ")
}

// Fields flattens the aggregate into a field -> message map for JSON responses.
func (ve ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(ve))
	for field, err := range ve {
		out[field] = err.Message
	}
	return out
}

// ProcessValidatorErrors converts go-playground validator failures into
// ValidationErrors. localeKeyFor maps a struct field name to its locale key;
// it may return "" when no translation exists.
func ProcessValidatorErrors(errs validator.ValidationErrors, localeKeyFor func(field string) string) ValidationErrors {
	out := make(ValidationErrors, len(errs))
	for _, fe := range errs {
		key := ""
		if localeKeyFor != nil {
			key = localeKeyFor(fe.Field())
		}
		switch fe.Tag() {
		case "required":
			out[fe.Field()] = NewFieldRequiredError(fe.Field(), key)
		default:
			out[fe.Field()] = NewFieldInvalidError(fe.Field(), fmt.Sprintf("failed %q validation", fe.Tag()), key)
		}
	}
	return out
}
