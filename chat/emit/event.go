// Package emit provides pluggable observability events for chat turns.
package emit

// Event represents an observability event emitted while handling one chat
// turn: model round trips, tool invocations, and turn completion.
type Event struct {
	// RequestID identifies the chat request that emitted this event.
	RequestID string

	// Round is the model round-trip number within the turn (1-indexed).
	// Zero for turn_start; turn_end carries the total rounds performed.
	Round int

	// Tool names the tool involved, for tool_invoked events.
	// Empty for model and turn-level events.
	Tool string

	// Msg is a short event name: "turn_start", "model_call",
	// "tool_invoked", "turn_end".
	Msg string

	// Meta contains additional structured data specific to this event.
	// Common keys:
	//   - "latency_ms": duration of a model call or tool invocation
	//   - "status": "success" or "error"
	//   - "error": failure details
	Meta map[string]interface{}
}
