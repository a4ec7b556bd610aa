package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
)

const displayDateLayout = "02.01.2006"

type DateRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *DateRangeError) Error() string {
	return fmt.Sprintf("rental end date %s is before start date %s",
		e.End.Format(displayDateLayout), e.Start.Format(displayDateLayout))
}

type TransportUnavailableError struct {
	TransportID   int32
	ConflictingID int32
	Start         time.Time
	End           time.Time
}

// Window renders the conflicting booking period for display.
func (e *TransportUnavailableError) Window() string {
	if e.Start.IsZero() && e.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s - %s", e.Start.Format(displayDateLayout), e.End.Format(displayDateLayout))
}

func (e *TransportUnavailableError) Error() string {
	if w := e.Window(); w != "" {
		return fmt.Sprintf("transport %d is booked %s", e.TransportID, w)
	}
	return fmt.Sprintf("transport %d is booked for the requested dates", e.TransportID)
}

type IllegalStatusTransitionError struct {
	From RentalStatus
	To   RentalStatus
}

func (e *IllegalStatusTransitionError) Error() string {
	return fmt.Sprintf("status change from %q to %q is not allowed", e.From, e.To)
}

type EarlyCompletionError struct {
	Reason string
}

func (e *EarlyCompletionError) Error() string {
	return "early completion rejected: " + e.Reason
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is caused by caller input rather than by
// storage or infrastructure.
func IsValidation(err error) bool {
	var (
		dr *DateRangeError
		ec *EarlyCompletionError
		ve *ValidationError
	)
	return errors.As(err, &dr) || errors.As(err, &ec) || errors.As(err, &ve)
}
