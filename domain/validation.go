package domain

import (
	"fmt"
	"strings"
)

// Length limits for free-text fields submitted by views
const (
	MaxNameLen  = 128
	MaxTypeLen  = 64
	MaxPhoneLen = 32
)

// FieldError represents a single field's validation error.
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"message"`
}

func (e FieldError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Msg) }

// ValidationError groups the field errors of one submission
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Validation wraps field errors into an error, or returns nil when there are none
func Validation(errs []FieldError) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Fields: errs}
}

// The store accepts any field contents. These checks mirror what the views
// reject before calling it.

func ValidateNewEvent(e NewEvent) []FieldError {
	var errs []FieldError
	errs = appendName(errs, "name", e.Name)
	if e.Date.IsZero() {
		errs = append(errs, FieldError{"date", "required"})
	}
	if len(e.Type) > MaxTypeLen {
		errs = append(errs, FieldError{"type", fmt.Sprintf("max length %d", MaxTypeLen)})
	}
	for c := range e.CompletedCategories {
		if !c.Valid() {
			errs = append(errs, FieldError{"completedCategories", fmt.Sprintf("unknown category %q", c)})
		}
	}
	return errs
}

func ValidateEventUpdate(u EventUpdate) []FieldError {
	var errs []FieldError
	if u.Name != nil {
		errs = appendName(errs, "name", *u.Name)
	}
	if u.Date != nil && u.Date.IsZero() {
		errs = append(errs, FieldError{"date", "must not be empty"})
	}
	if u.Type != nil && len(*u.Type) > MaxTypeLen {
		errs = append(errs, FieldError{"type", fmt.Sprintf("max length %d", MaxTypeLen)})
	}
	return errs
}

func ValidateNewVendor(v NewVendor) []FieldError {
	var errs []FieldError
	errs = appendName(errs, "name", v.Name)
	if !v.Category.Valid() {
		errs = append(errs, FieldError{"category", "must be one of venue, catering, photography, entertainment, decoration"})
	}
	if v.Price < 0 {
		errs = append(errs, FieldError{"price", "must not be negative"})
	}
	if v.PaymentStatus != "" && !v.PaymentStatus.Valid() {
		errs = append(errs, FieldError{"paymentStatus", "must be one of pending, deposited, paid"})
	}
	return errs
}

func ValidateNewGuest(g NewGuest) []FieldError {
	var errs []FieldError
	errs = appendName(errs, "name", g.Name)
	phone := strings.TrimSpace(g.Phone)
	if phone == "" {
		errs = append(errs, FieldError{"phone", "required"})
	} else if len(phone) > MaxPhoneLen {
		errs = append(errs, FieldError{"phone", fmt.Sprintf("max length %d", MaxPhoneLen)})
	}
	if g.Status != "" && !g.Status.Valid() {
		errs = append(errs, FieldError{"status", "must be one of confirmed, pending"})
	}
	return errs
}

func appendName(errs []FieldError, field, name string) []FieldError {
	name = strings.TrimSpace(name)
	if name == "" {
		return append(errs, FieldError{field, "required"})
	}
	if len(name) > MaxNameLen {
		return append(errs, FieldError{field, fmt.Sprintf("max length %d", MaxNameLen)})
	}
	return errs
}
