package chat

import "github.com/dshills/toolchat-go/chat/emit"

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithEmitter sets the observability emitter for chat-turn events.
// Defaults to emit.NullEmitter.
func WithEmitter(e emit.Emitter) Option {
	return func(o *Orchestrator) {
		if e != nil {
			o.emitter = e
		}
	}
}

// WithMetrics sets the Prometheus metrics collector.
// Defaults to nil (no metrics recorded).
func WithMetrics(m *PrometheusMetrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// WithSystemPrompt prepends a system message to every conversation.
// Defaults to none, matching the bare tool-calling setup.
func WithSystemPrompt(prompt string) Option {
	return func(o *Orchestrator) {
		o.system = prompt
	}
}
