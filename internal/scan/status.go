package scan

import (
	"errors"
)

// Outcome is the user-facing state of a scan.
type Outcome int

const (
	Idle Outcome = iota
	Processing
	Succeeded
	NoItems
	Failed
	Busy
)

var outcomeMessages = map[Outcome]string{
	Idle:       "",
	Processing: "Processing image...",
	Succeeded:  "Bill processed successfully!",
	NoItems:    "No items found in the bill",
	Failed:     "Error processing the bill",
	Busy:       "A scan is already in progress",
}

// Message returns the status text shown to the user.
func (o Outcome) Message() string {
	return outcomeMessages[o]
}

// String returns a short name used in logs and metrics labels.
func (o Outcome) String() string {
	switch o {
	case Processing:
		return "processing"
	case Succeeded:
		return "succeeded"
	case NoItems:
		return "no_items"
	case Failed:
		return "failed"
	case Busy:
		return "busy"
	default:
		return "idle"
	}
}

// IsError reports whether the outcome is displayed as an error.
func (o Outcome) IsError() bool {
	return o == NoItems || o == Failed || o == Busy
}

// OutcomeOf classifies the error returned by a scan.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return Succeeded
	case errors.Is(err, ErrNoItems):
		return NoItems
	case errors.Is(err, ErrScanInProgress):
		return Busy
	default:
		return Failed
	}
}
