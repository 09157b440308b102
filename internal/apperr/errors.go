// Package apperr holds the error taxonomy shared by the store and the cycle services.
package apperr

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrStoreWrite       = errors.New("store write failed")
	ErrNotFound         = errors.New("not found")
	ErrInvalidState     = errors.New("invalid state")
	ErrValidation       = errors.New("validation failed")
)

var (
	ErrInvalidFlow              = fmt.Errorf("%w: invalid flow", ErrValidation)
	ErrInvalidPainLevel         = fmt.Errorf("%w: pain level out of range", ErrValidation)
	ErrInvalidMood              = fmt.Errorf("%w: invalid mood", ErrValidation)
	ErrInvalidDate              = fmt.Errorf("%w: invalid date", ErrValidation)
	ErrEndBeforeStart           = fmt.Errorf("%w: end date before start date", ErrValidation)
	ErrDateInFuture             = fmt.Errorf("%w: date is in the future", ErrValidation)
	ErrCycleLengthOutOfRange    = fmt.Errorf("%w: cycle length out of range", ErrValidation)
	ErrPeriodLengthOutOfRange   = fmt.Errorf("%w: period length out of range", ErrValidation)
	ErrPeriodLengthIncompatible = fmt.Errorf("%w: period length incompatible with cycle length", ErrValidation)
	ErrInvalidSymptom           = fmt.Errorf("%w: invalid symptom tag", ErrValidation)
)

// OpError attaches the failing operation and its inputs to an underlying error.
type OpError struct {
	Op     string
	UserID string
	Date   time.Time
	Err    error
}

func (e *OpError) Error() string {
	var builder strings.Builder
	builder.WriteString(e.Op)
	if e.UserID != "" {
		builder.WriteString(" user=")
		builder.WriteString(e.UserID)
	}
	if !e.Date.IsZero() {
		builder.WriteString(" date=")
		builder.WriteString(e.Date.Format("2006-01-02"))
	}
	if e.Err != nil {
		builder.WriteString(": ")
		builder.WriteString(e.Err.Error())
	}
	return builder.String()
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// Wrap returns nil for a nil err, otherwise an *OpError carrying the context.
func Wrap(op string, userID string, date time.Time, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, UserID: userID, Date: date, Err: err}
}

// IsRetryable reports whether the caller may retry the operation later.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
