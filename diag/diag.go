// Package diag carries diagnostic events out of the SQL generation core.
//
// The core only decides that an event occurred and what data it carries.
// A Sink decides whether and how to surface it; adapters are provided for
// zap, logrus and zerolog.
package diag

import (
	"fmt"
	"sort"
	"sync"
)

// Level is the severity of an event.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warn:
		return "warn"
	case Error:
		return "error"
	}
	return "unknown"
}

// Well-known event codes.
const (
	DecimalTypeDefaulted = "DecimalTypeDefaulted"
	RowNumberPagingUsed  = "RowNumberPagingUsed"
	BatchSplit           = "BatchSplit"
	HiLoBlockAllocated   = "HiLoBlockAllocated"
	KeyTypeUnmapped      = "KeyTypeUnmapped"
)

// Event is a single diagnostic occurrence.
type Event struct {
	Fields  map[string]any
	Code    string
	Message string
	Level   Level
}

// New creates an event with alternating key/value field pairs.
func New(level Level, code, message string, kv ...any) Event {
	e := Event{Level: level, Code: code, Message: message}
	if len(kv) > 0 {
		e.Fields = make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			e.Fields[fmt.Sprint(kv[i])] = kv[i+1]
		}
	}
	return e
}

// FieldNames returns the event's field names sorted.
func (e Event) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Sink receives diagnostic events.
type Sink interface {
	Emit(e Event)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Event)

// Emit calls f(e).
func (f SinkFunc) Emit(e Event) { f(e) }

type nop struct{}

func (nop) Emit(Event) {}

// Nop discards all events.
var Nop Sink = nop{}

// OrNop returns s, or Nop when s is nil.
func OrNop(s Sink) Sink {
	if s == nil {
		return Nop
	}
	return s
}

// Recorder keeps every event it receives. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Emit records the event.
func (r *Recorder) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Codes returns the codes of the recorded events in order.
func (r *Recorder) Codes() []string {
	var codes []string
	for _, e := range r.Events() {
		codes = append(codes, e.Code)
	}
	return codes
}

// Reset discards recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
