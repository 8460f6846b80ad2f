package events

// Event is the flattened record handed to downstream subscribers (indexers,
// RPC streams). Attribute values are decimal or hex strings so off-chain
// tooling can reconstruct position history without ABI knowledge.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

// Payload represents a structured state change emitted by an action.
type Payload interface {
	EventType() string
	Event() *Event
}

// Emitter broadcasts events to downstream subscribers. Emission happens after
// all state mutations of an execution; a failing emitter aborts the whole
// execution together with the runner rollback.
type Emitter interface {
	Emit(Payload)
}

// NoopEmitter satisfies the Emitter interface while discarding all events. It
// is useful when a component wants to optionally expose events.
type NoopEmitter struct{}

// Emit implements the Emitter interface.
func (NoopEmitter) Emit(Payload) {}

// Recorder captures emitted events in order. Intended for tests and for
// bridging into an indexer queue.
type Recorder struct {
	Events []*Event
}

// Emit implements the Emitter interface.
func (r *Recorder) Emit(p Payload) {
	if r == nil || p == nil {
		return
	}
	r.Events = append(r.Events, p.Event())
}

// Last returns the most recently recorded event, or nil when empty.
func (r *Recorder) Last() *Event {
	if r == nil || len(r.Events) == 0 {
		return nil
	}
	return r.Events[len(r.Events)-1]
}
