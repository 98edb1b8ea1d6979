// Package audit records a rolling history of path queries so operators can
// review what was asked of the engine and what it answered.
package audit

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind identifies the type of query that produced an event
type Kind string

const (
	KindPath     Kind = "path"
	KindRank     Kind = "rank"
	KindExposure Kind = "exposure"
	KindSweep    Kind = "sweep"
	KindReload   Kind = "reload"
)

// Status represents the outcome of a query
type Status string

const (
	StatusOK           Status = "ok"
	StatusNotReachable Status = "not_reachable"
	StatusRejected     Status = "rejected"
)

// DefaultBufferSize is used when no history size is configured.
const DefaultBufferSize = 1024

// Event represents a single recorded query
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Kind      Kind      `json:"kind"`
	Origin    string    `json:"origin,omitempty"`
	Start     string    `json:"start,omitempty"`
	Target    string    `json:"target,omitempty"`
	Status    Status    `json:"status"`
	Cost      float64   `json:"cost,omitempty"`
	Hops      int       `json:"hops,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// Filter represents filtering criteria for recorded events
type Filter struct {
	Kind   Kind
	Status Status
	Start  string
	Target string
	Since  *time.Time
	Until  *time.Time
}

// Recorder keeps query events in a fixed-size circular buffer. Once the
// buffer is full the oldest events are overwritten.
type Recorder struct {
	events     []*Event
	bufferSize int
	index      int
	count      int
	mu         sync.RWMutex
}

// NewRecorder creates a recorder holding at most bufferSize events
func NewRecorder(bufferSize int) *Recorder {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Recorder{
		events:     make([]*Event, bufferSize),
		bufferSize: bufferSize,
		index:      0,
		count:      0,
	}
}

// Record stores a query event
func (r *Recorder) Record(event *Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Set timestamp and ID if not set
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	// Store in circular buffer
	r.events[r.index] = event
	r.index = (r.index + 1) % r.bufferSize

	// Track total count (up to buffer size)
	if r.count < r.bufferSize {
		r.count++
	}

	return nil
}

// Events retrieves stored events with optional filtering, oldest first
func (r *Recorder) Events(filter *Filter) []*Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Event, 0, r.count)

	for i := 0; i < r.count; i++ {
		// Calculate the actual index in the circular buffer
		idx := (r.index - r.count + i + r.bufferSize) % r.bufferSize
		event := r.events[idx]

		if event == nil {
			continue
		}

		if filter != nil {
			if filter.Kind != "" && event.Kind != filter.Kind {
				continue
			}
			if filter.Status != "" && event.Status != filter.Status {
				continue
			}
			if filter.Start != "" && event.Start != filter.Start {
				continue
			}
			if filter.Target != "" && event.Target != filter.Target {
				continue
			}
			if filter.Since != nil && event.Timestamp.Before(*filter.Since) {
				continue
			}
			if filter.Until != nil && event.Timestamp.After(*filter.Until) {
				continue
			}
		}

		result = append(result, event)
	}

	return result
}

// Recent returns the N most recent events, newest first
func (r *Recorder) Recent(n int) []*Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if n > r.count {
		n = r.count
	}

	result := make([]*Event, 0, n)

	for i := 0; i < n; i++ {
		idx := (r.index - 1 - i + r.bufferSize) % r.bufferSize
		if r.events[idx] != nil {
			result = append(result, r.events[idx])
		}
	}

	return result
}

// Len returns the number of events currently stored
func (r *Recorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// Clear removes all events from the recorder
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = make([]*Event, r.bufferSize)
	r.index = 0
	r.count = 0
}

// NewEvent creates a query event with ID and timestamp populated
func NewEvent(kind Kind, origin, start, target string, status Status) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Timestamp: time.Now(),
		Kind:      kind,
		Origin:    origin,
		Start:     start,
		Target:    target,
		Status:    status,
	}
}

// String returns a human-readable representation of an event
func (e *Event) String() string {
	return fmt.Sprintf("[%s] %s %s -> %s (origin: %s, status: %s)",
		e.Timestamp.Format(time.RFC3339),
		e.Kind,
		e.Start,
		e.Target,
		e.Origin,
		e.Status,
	)
}
