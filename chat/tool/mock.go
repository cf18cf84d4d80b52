package tool

import (
	"context"
	"sync"

	"github.com/dshills/toolchat-go/chat/model"
)

// MockTool is a test implementation of Tool.
//
// Use MockTool in tests to verify registry and orchestrator behavior without
// executing actual tool logic. It provides:
//   - Configurable tool name and spec
//   - Configurable response sequences
//   - Call history tracking
//   - Error injection
//   - Thread-safe operation
//
// Example usage:
//
//	mock := &MockTool{
//	    ToolName: "get_product_details",
//	    Responses: []map[string]interface{}{
//	        {"status": "success", "data": map[string]interface{}{"price": 19.99}},
//	    },
//	}
//	output, err := mock.Call(ctx, map[string]interface{}{"product_id": "P101"})
type MockTool struct {
	// ToolName is the identifier returned by Name().
	// Must be set for the mock to function properly.
	ToolName string

	// Description is included in the Spec() returned to callers.
	Description string

	// Schema is the parameter schema included in Spec().
	Schema map[string]interface{}

	// Responses contains the sequence of outputs to return.
	// Each call to Call() returns the next response in order.
	// If all responses are consumed, the last response repeats.
	Responses []map[string]interface{}

	// Err, if set, will be returned by Call() instead of a response.
	Err error

	// Calls tracks the history of all Call() invocations.
	Calls []MockToolCall

	mu        sync.Mutex // Protects concurrent access to Calls and response index
	callIndex int        // Tracks which response to return next
}

// MockToolCall records a single invocation of Call().
type MockToolCall struct {
	Input map[string]interface{}
}

// Name implements the Tool interface.
func (m *MockTool) Name() string {
	return m.ToolName
}

// Spec implements the Tool interface.
func (m *MockTool) Spec() model.ToolSpec {
	return model.ToolSpec{
		Name:        m.ToolName,
		Description: m.Description,
		Schema:      m.Schema,
	}
}

// Call implements the Tool interface.
//
// Returns the next response from Responses (repeating the last one when
// exhausted), or Err if configured. Records the call in Calls either way.
func (m *MockTool) Call(ctx context.Context, input map[string]interface{}) (map[string]interface{}, error) {
	// Check context cancellation first (before acquiring lock)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, MockToolCall{Input: input})

	if m.Err != nil {
		return nil, m.Err
	}

	if len(m.Responses) == 0 {
		return map[string]interface{}{}, nil
	}

	idx := m.callIndex
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	} else {
		m.callIndex++
	}

	return m.Responses[idx], nil
}

// CallCount returns the number of times Call() has been invoked.
func (m *MockTool) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
