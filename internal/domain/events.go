package domain

import "sync"

// Event is an observability record emitted by the pipeline. Events never carry
// control flow: a component behaves identically whether or not anyone listens.
type Event struct {
	Stage   string            `json:"stage"`
	Kind    string            `json:"kind"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Event stages.
const (
	StageSource   = "source"
	StageAnalyze  = "analyze"
	StageGenerate = "generate"
	StageValidate = "validate"
	StageTest     = "test"
	StageFix      = "fix"
)

// Event kinds.
const (
	EventStarted               = "started"
	EventCompleted             = "completed"
	EventParseFailed           = "parse_failed"
	EventFetchFailed           = "fetch_failed"
	EventEnrichmentUnavailable = "enrichment_unavailable"
	EventEnrichmentUsed        = "enrichment_used"
	EventSuiteCrashed          = "suite_crashed"
	EventFixApplied            = "fix_applied"
	EventFixSkipped            = "fix_skipped"
)

// EventSink receives pipeline events.
type EventSink interface {
	Emit(Event)
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) Emit(Event) {}

// MultiSink fans events out to a list of observers.
type MultiSink struct {
	mu    sync.RWMutex
	sinks []EventSink
}

// NewMultiSink creates a fan-out sink. Nil sinks are ignored.
func NewMultiSink(sinks ...EventSink) *MultiSink {
	m := &MultiSink{}
	for _, s := range sinks {
		m.Add(s)
	}
	return m
}

func (m *MultiSink) Add(s EventSink) {
	if s == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sinks = append(m.sinks, s)
}

func (m *MultiSink) Emit(e Event) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sinks {
		s.Emit(e)
	}
}

// SinkOrNop returns s, or a NopSink when s is nil.
func SinkOrNop(s EventSink) EventSink {
	if s == nil {
		return NopSink{}
	}
	return s
}

// RecordingSink keeps every event in memory. Useful for callers that want the events
// as part of their result and for tests.
type RecordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (r *RecordingSink) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *RecordingSink) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Kinds returns the kinds of every recorded event in order.
func (r *RecordingSink) Kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}
