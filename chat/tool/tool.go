// Package tool provides the tool registry and the executable tools an LLM
// may invoke during a chat turn.
package tool

import (
	"context"

	"github.com/dshills/toolchat-go/chat/model"
)

// Tool defines the interface for executable tools that LLMs can invoke.
//
// Implementations should:
//   - Validate input parameters
//   - Respect context cancellation and timeouts
//   - Return structured output as map[string]interface{}
//   - Be idempotent when possible
//
// Example implementation:
//
//	type PingTool struct{}
//
//	func (p *PingTool) Name() string { return "ping" }
//
//	func (p *PingTool) Spec() model.ToolSpec {
//	    return model.ToolSpec{Name: "ping", Description: "Checks liveness"}
//	}
//
//	func (p *PingTool) Call(ctx context.Context, input map[string]interface{}) (map[string]interface{}, error) {
//	    return map[string]interface{}{"status": "success"}, nil
//	}
type Tool interface {
	// Name returns the unique identifier for this tool.
	//
	// The name must match the name in the ToolSpec sent to the LLM.
	// Names should be lowercase with underscores, following function
	// naming conventions.
	Name() string

	// Spec returns the tool definition (name, description, parameter
	// schema) advertised to the LLM.
	Spec() model.ToolSpec

	// Call executes the tool with the provided input and returns the result.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout propagation
	//   - input: Tool parameters as key-value pairs (may be nil for
	//     parameterless tools)
	//
	// The input structure should match the Schema in Spec(). Invalid or
	// missing parameters and downstream failures are reported as errors;
	// the registry wraps them for the orchestrator.
	Call(ctx context.Context, input map[string]interface{}) (map[string]interface{}, error)
}
