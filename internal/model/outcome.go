package model

import (
	"fmt"
	"strings"
	"time"
)

// Status is the terminal state of one work item.
type Status int

const (
	// StatusSucceeded means all three stages completed for the item.
	StatusSucceeded Status = iota

	// StatusFailed means a stage failed and the remaining stages were skipped.
	StatusFailed
)

// String returns "succeeded" or "failed".
func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ParseStatus converts the String form back to a Status.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(s) {
	case "succeeded":
		return StatusSucceeded, nil
	case "failed":
		return StatusFailed, nil
	default:
		return 0, fmt.Errorf("unknown status %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Outcome is the result of running the pipeline for one work item.
// Each outcome is written by exactly one goroutine.
type Outcome struct {
	// Item is the work item (ref) exactly as given.
	Item string `json:"item"`

	// Status is succeeded or failed.
	Status Status `json:"status"`

	// Stage names the capability that failed. Empty on success.
	Stage string `json:"stage,omitempty"`

	// Error is the failure message. Empty on success.
	Error string `json:"error,omitempty"`

	// Err is the failure itself, for errors.Is and errors.As.
	Err error `json:"-"`

	// Started is when the item's pipeline began.
	Started time.Time `json:"started"`

	// Duration is how long the item's pipeline ran.
	Duration time.Duration `json:"duration"`
}

// Succeeded reports whether the item completed all stages.
func (o Outcome) Succeeded() bool {
	return o.Status == StatusSucceeded
}

// CountFailed returns the number of failed outcomes.
func CountFailed(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if !o.Succeeded() {
			n++
		}
	}
	return n
}
