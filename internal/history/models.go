package history

import (
	"errors"
	"time"
)

// Status is the lifecycle state of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	// StatusRejected marks runs that stopped on user input, such as an empty
	// selection or a missing audio file.
	StatusRejected Status = "rejected"
)

// Run is one recorded assembly.
type Run struct {
	ID             string
	Status         Status
	Images         []string
	ImageCount     int
	AudioPath      string
	OutputPath     string
	OutputDuration time.Duration
	SizeBytes      int64
	ErrorMessage   string
	CreatedAt      time.Time
	FinishedAt     *time.Time
}

// Elapsed returns how long the run took, or zero while it is still running.
func (r Run) Elapsed() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.CreatedAt)
}

// Outcome carries the facts recorded when a run completes.
type Outcome struct {
	OutputPath     string
	OutputDuration time.Duration
	SizeBytes      int64
}

// ErrorClassifier allows errors to declare their classification for status mapping.
type ErrorClassifier interface {
	// ErrorKind returns a string classification of the error. "validation"
	// and "configuration" map to StatusRejected.
	ErrorKind() string
}

// FailureStatus maps an assembly error to the status persisted for the run.
func FailureStatus(err error) Status {
	var classifier ErrorClassifier
	if errors.As(err, &classifier) {
		switch classifier.ErrorKind() {
		case "validation", "configuration":
			return StatusRejected
		}
	}
	return StatusFailed
}
