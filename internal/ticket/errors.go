package ticket

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("ticket not found")

// ValidationError reports a missing or malformed ticket field.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// DateReason classifies why a date was rejected.
type DateReason string

const (
	ReasonFormat     DateReason = "format"
	ReasonNonNumeric DateReason = "non_numeric"
	ReasonCalendar   DateReason = "calendar"
	ReasonFuture     DateReason = "future"
	ReasonTooOld     DateReason = "too_old"
)

type DateError struct {
	Input  string
	Reason DateReason
}

func (e *DateError) Error() string {
	switch e.Reason {
	case ReasonFormat:
		return "invalid format, use DD/MM/YYYY"
	case ReasonNonNumeric:
		return "day, month and year must be numeric"
	case ReasonCalendar:
		return fmt.Sprintf("%s is not a valid calendar date", e.Input)
	case ReasonFuture:
		return "date cannot be in the future"
	case ReasonTooOld:
		return fmt.Sprintf("year must be %d or later", MinYear)
	default:
		return "invalid date"
	}
}

type InvalidStatusError struct {
	Status string
	Valid  []string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid status %q, use: %s", e.Status, strings.Join(e.Valid, ", "))
}
