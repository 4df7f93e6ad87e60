package audit

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Event kinds, one per mutating operation.
const (
	KindFollow        = "follow"
	KindUnfollow      = "unfollow"
	KindBlock         = "block"
	KindUnblock       = "unblock"
	KindSetPermission = "set_permission"
	KindSetMetadata   = "set_metadata"
)

// Event records one successful mutation. Events are immutable once
// appended; failed preconditions never emit one.
type Event struct {
	Kind    string    `json:"kind"`
	Actor   string    `json:"actor"`
	Subject string    `json:"subject"`
	Value   string    `json:"value,omitempty"`
	Time    time.Time `json:"time"`
}

// Log is an append-only event sink. The graph core writes to it and never
// reads it back; observation happens outside the core.
type Log interface {
	Append(event Event)
}

// MemoryLog keeps events in an in-process append-only slice.
type MemoryLog struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

func (l *MemoryLog) Append(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

// Events returns a copy of everything appended so far.
func (l *MemoryLog) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	result := make([]Event, len(l.events))
	copy(result, l.events)
	return result
}

// LogrusLog emits each event as a structured log line.
type LogrusLog struct{}

func (LogrusLog) Append(event Event) {
	log.WithFields(log.Fields{
		"kind":    event.Kind,
		"actor":   event.Actor,
		"subject": event.Subject,
		"value":   event.Value,
	}).Info("graph mutation")
}

// MultiLog fans an event out to several sinks.
type MultiLog []Log

func (l MultiLog) Append(event Event) {
	for _, sink := range l {
		sink.Append(event)
	}
}
