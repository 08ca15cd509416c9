// Package events provides Emitter implementations for the compile lifecycle.
package events

import (
	"sync"

	"github.com/arthur-debert/dustup/pkg/types"
)

// Recorder is an Emitter that keeps every event it receives, in order.
// It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []types.Event
}

// NewRecorder creates an empty Recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Emit implements types.Emitter
func (r *Recorder) Emit(event types.Event) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

// Events returns a copy of the recorded sequence
func (r *Recorder) Events() []types.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]types.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Outcome returns the first terminal event (done or fail), or "" if none
// has been emitted yet.
func (r *Recorder) Outcome() types.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.IsTerminal() {
			return e
		}
	}
	return ""
}

// Complete reports whether the recorded sequence is a finished, valid one
func (r *Recorder) Complete() bool {
	return ValidSequence(r.Events())
}

// Funcs is an Emitter that dispatches each event to an optional callback
type Funcs struct {
	OnDone   func()
	OnFail   func()
	OnAlways func()
}

// Emit implements types.Emitter
func (f Funcs) Emit(event types.Event) {
	var fn func()
	switch event {
	case types.EventDone:
		fn = f.OnDone
	case types.EventFail:
		fn = f.OnFail
	case types.EventAlways:
		fn = f.OnAlways
	}
	if fn != nil {
		fn()
	}
}

type multi []types.Emitter

func (m multi) Emit(event types.Event) {
	for _, e := range m {
		e.Emit(event)
	}
}

// Multi returns an Emitter that forwards every event to each emitter in order.
// Nil emitters are skipped.
func Multi(emitters ...types.Emitter) types.Emitter {
	out := make(multi, 0, len(emitters))
	for _, e := range emitters {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

// Discard is an Emitter that drops every event
var Discard types.Emitter = Funcs{}

// ValidSequence reports whether events is exactly one terminal event
// (done or fail) followed by always.
func ValidSequence(events []types.Event) bool {
	return len(events) == 2 && events[0].IsTerminal() && events[1] == types.EventAlways
}
