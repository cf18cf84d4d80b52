package emit

// NullEmitter implements Emitter by discarding all events.
//
// Use cases:
//   - Deployments where event logging is not wanted
//   - Tests that don't care about event capture
type NullEmitter struct{}

// NewNullEmitter creates a new NullEmitter.
func NewNullEmitter() *NullEmitter {
	return &NullEmitter{}
}

// Emit discards the event without any processing.
func (n *NullEmitter) Emit(event Event) {
	// No-op: discard the event
}
