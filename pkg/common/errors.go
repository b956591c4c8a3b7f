package common

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidInput marks a request rejected before any state was touched.
var ErrInvalidInput = errors.New("invalid input")

// DataGapError means a provider had no usable data for a ticker or date.
// It is recoverable: the ticker is skipped for the day, or the horizon stays open.
type DataGapError struct {
	Ticker string
	Date   time.Time
	Reason string
	Err    error
}

func (e *DataGapError) Error() string {
	msg := fmt.Sprintf("data gap for %s", e.Ticker)
	if !e.Date.IsZero() {
		msg += " on " + e.Date.Format("2006-01-02")
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DataGapError) Unwrap() error { return e.Err }

// NewDataGap builds a DataGapError.
func NewDataGap(ticker string, date time.Time, reason string, err error) *DataGapError {
	return &DataGapError{Ticker: ticker, Date: date, Reason: reason, Err: err}
}

// InsufficientPositionError is returned when a sell exceeds the held shares.
type InsufficientPositionError struct {
	Ticker    string
	Requested string
	Held      string
}

func (e *InsufficientPositionError) Error() string {
	return fmt.Sprintf("insufficient position in %s: requested %s shares, held %s", e.Ticker, e.Requested, e.Held)
}

// ConfigurationError marks invalid startup configuration.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Reason)
}

// ConcurrentGenerationError is returned when a digest build for the same date is already running.
type ConcurrentGenerationError struct {
	Date time.Time
}

func (e *ConcurrentGenerationError) Error() string {
	return fmt.Sprintf("digest generation for %s already in progress", e.Date.Format("2006-01-02"))
}

// IsDataGap reports whether err wraps a DataGapError.
func IsDataGap(err error) bool {
	var gap *DataGapError
	return errors.As(err, &gap)
}
