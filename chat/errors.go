// Package chat provides the conversation orchestrator for single-turn,
// tool-calling chat requests.
package chat

import "errors"

// ErrModelUnavailable indicates that the LLM service itself could not be
// reached or did not answer (network, auth, quota). This is fatal for the
// request: no retry is attempted and the HTTP layer maps it to a 502.
var ErrModelUnavailable = errors.New("model unavailable")

// ErrEmptyMessage indicates a chat request with no user message. The HTTP
// layer maps it to a 400.
var ErrEmptyMessage = errors.New("no message provided")
