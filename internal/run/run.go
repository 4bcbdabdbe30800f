// Package run provides the Run aggregate for one end-to-end formatting
// run: acquire the source, resolve its media kind, and produce every
// requested rendition. It includes the run entity with its state machine
// and the service that drives it.
package run

import (
	"errors"
	"sync"
	"time"

	"github.com/OlivierVanGelder/format-images-to-socials/internal/mediakind"
	"github.com/OlivierVanGelder/format-images-to-socials/internal/run/id"
)

// Status represents the current state of a Run.
type Status string

const (
	// StatusUnresolved indicates the source has not been classified yet.
	StatusUnresolved Status = "UNRESOLVED"
	// StatusKindResolved indicates the source's media kind is known.
	StatusKindResolved Status = "KIND_RESOLVED"
	// StatusTransforming indicates a rendition is being produced.
	StatusTransforming Status = "TRANSFORMING"
	// StatusWritten indicates the current rendition was written.
	StatusWritten Status = "WRITTEN"
	// StatusDone indicates every rendition was written successfully.
	StatusDone Status = "DONE"
	// StatusFailed indicates the run stopped at a fatal error.
	StatusFailed Status = "FAILED"
)

// ErrInvalidTransition is returned when an invalid state transition is attempted.
var ErrInvalidTransition = errors.New("invalid state transition")

// validTransitions defines which state transitions are allowed.
// A batch cycles between TRANSFORMING and WRITTEN once per format;
// there are no backward transitions.
var validTransitions = map[Status][]Status{
	StatusUnresolved:   {StatusKindResolved, StatusFailed},
	StatusKindResolved: {StatusTransforming, StatusFailed},
	StatusTransforming: {StatusWritten, StatusFailed},
	StatusWritten:      {StatusTransforming, StatusDone, StatusFailed},
	StatusDone:         {},
	StatusFailed:       {},
}

// canTransition checks if a transition from one status to another is valid.
func canTransition(from, to Status) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// Run represents one formatting run aggregate. It contains all state
// related to turning a single source asset into its renditions.
type Run struct {
	mu sync.RWMutex

	// ID is the unique identifier for this run.
	ID string
	// Status is the current run state.
	Status Status
	// MediaURL is the source location the run was started with.
	MediaURL string
	// Kind is the resolved media kind of the source.
	Kind mediakind.Kind
	// SourcePath is the local path of the acquired source after kind
	// resolution, including its corrected extension.
	SourcePath string
	// Written contains the output paths recorded so far, in order.
	Written []string
	// Error contains any error message if the run failed.
	Error string
	// CreatedAt is when the run was created.
	CreatedAt time.Time
	// UpdatedAt is when the run was last updated.
	UpdatedAt time.Time
	// StartedAt is when the first transform started.
	StartedAt time.Time
	// CompletedAt is when the run reached a terminal state.
	CompletedAt time.Time
}

// New creates a new Run with a generated ID and initial UNRESOLVED status.
func New() *Run {
	now := time.Now()
	return &Run{
		ID:        id.Generate(),
		Status:    StatusUnresolved,
		Kind:      mediakind.KindUnknown,
		Written:   make([]string, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewWithID creates a new Run with the specified ID and initial
// UNRESOLVED status. Useful for testing or when the ID needs to be
// externally generated.
func NewWithID(runID string) *Run {
	now := time.Now()
	return &Run{
		ID:        runID,
		Status:    StatusUnresolved,
		Kind:      mediakind.KindUnknown,
		Written:   make([]string, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TransitionTo attempts to change the run status to the specified state.
// Returns ErrInvalidTransition if the transition is not allowed.
func (r *Run) TransitionTo(status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !canTransition(r.Status, status) {
		return ErrInvalidTransition
	}

	r.Status = status
	r.UpdatedAt = time.Now()

	// Set timestamps based on state
	switch status {
	case StatusTransforming:
		if r.StartedAt.IsZero() {
			r.StartedAt = r.UpdatedAt
		}
	case StatusDone, StatusFailed:
		r.CompletedAt = r.UpdatedAt
	}

	return nil
}

// ResolveKind records the source's media kind and corrected path and
// transitions the run from UNRESOLVED to KIND_RESOLVED.
func (r *Run) ResolveKind(kind mediakind.Kind, sourcePath string) error {
	r.mu.Lock()
	r.Kind = kind
	r.SourcePath = sourcePath
	r.mu.Unlock()
	return r.TransitionTo(StatusKindResolved)
}

// BeginTransform transitions the run to TRANSFORMING.
// Returns ErrInvalidTransition if the transition is not allowed.
func (r *Run) BeginTransform() error {
	return r.TransitionTo(StatusTransforming)
}

// RecordWrite records one written output path and transitions the run
// to WRITTEN. When a previous format already finished, the run re-enters
// TRANSFORMING first, so a batch of formats cycles the two states.
func (r *Run) RecordWrite(path string) error {
	r.mu.Lock()
	if r.Status == StatusWritten {
		r.Status = StatusTransforming
	}
	r.mu.Unlock()

	if err := r.TransitionTo(StatusWritten); err != nil {
		return err
	}

	r.mu.Lock()
	r.Written = append(r.Written, path)
	r.mu.Unlock()
	return nil
}

// Finish transitions the run to DONE state.
// Returns ErrInvalidTransition if the transition is not allowed.
func (r *Run) Finish() error {
	return r.TransitionTo(StatusDone)
}

// Fail transitions the run to FAILED state with an error message.
// Returns ErrInvalidTransition if the transition is not allowed.
func (r *Run) Fail(errMsg string) error {
	r.mu.Lock()
	r.Error = errMsg
	r.mu.Unlock()
	return r.TransitionTo(StatusFailed)
}

// GetStatus returns the current run status (thread-safe).
func (r *Run) GetStatus() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.Status
}

// Outputs returns a copy of the written output paths.
func (r *Run) Outputs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	written := make([]string, len(r.Written))
	copy(written, r.Written)
	return written
}

// IsTerminal returns true if the run is in a terminal state.
func (r *Run) IsTerminal() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.Status == StatusDone || r.Status == StatusFailed
}
