package emit

// Emitter receives and processes observability events from chat turns.
//
// Emitters enable pluggable observability backends:
//   - Logging: stdout, files, syslog
//   - Distributed tracing: OpenTelemetry, Jaeger, Zipkin
//
// Implementations should be:
//   - Non-blocking: Avoid slowing down request handling
//   - Thread-safe: May be called concurrently from multiple requests
//   - Resilient: Handle backend failures gracefully (don't fail the turn)
type Emitter interface {
	// Emit sends an observability event to the configured backend.
	//
	// Emit should not panic and should not block request handling.
	// Backend errors are logged or dropped internally.
	Emit(event Event)
}
