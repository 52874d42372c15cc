package domain

import "time"

// ExecutionResult is the outcome of a single run of user code.
// Output keeps whatever was captured before a failure.
type ExecutionResult struct {
	Output          string  `json:"output"`
	Error           string  `json:"error,omitempty"`
	ExecutionTimeMs float64 `json:"executionTime,omitempty"`
}

// Failed reports whether the run raised, timed out or could not start.
func (r ExecutionResult) Failed() bool {
	return r.Error != ""
}

// Millis converts a duration to fractional milliseconds.
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
