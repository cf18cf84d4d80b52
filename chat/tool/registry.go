package tool

import (
	"context"
	"fmt"

	"github.com/dshills/toolchat-go/chat/model"
)

// UnknownToolError indicates a tool-call request naming a tool that is not
// registered. The orchestrator turns this into a graceful user-visible
// answer rather than a failure.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %q", e.Name)
}

// InvocationError indicates that a registered tool was invoked but failed:
// the arguments did not match the tool's schema, or the tool's backing
// operation failed. Unwrap exposes the underlying cause.
type InvocationError struct {
	Tool string
	Err  error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("tool %q invocation failed: %v", e.Tool, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// Registry holds the fixed set of tools available to the LLM.
//
// The registry owns no state beyond the static name-to-tool mapping built at
// construction, so it is safe for concurrent use. Specs are returned in
// registration order so the schema sent to the LLM is deterministic.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry builds a Registry from the given tools.
//
// Returns an error if two tools share a name; every name referenced by a
// tool-call response must resolve to exactly one handler.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		name := t.Name()
		if _, exists := r.tools[name]; exists {
			return nil, fmt.Errorf("duplicate tool name %q", name)
		}
		r.tools[name] = t
		r.order = append(r.order, name)
	}
	return r, nil
}

// Specs returns the tool definitions for inclusion in an LLM request, in
// registration order.
func (r *Registry) Specs() []model.ToolSpec {
	specs := make([]model.ToolSpec, 0, len(r.order))
	for _, name := range r.order {
		specs = append(specs, r.tools[name].Spec())
	}
	return specs
}

// Invoke dispatches a tool call by name.
//
// Returns:
//   - the tool's result map on success
//   - *UnknownToolError if no tool has the requested name
//   - *InvocationError wrapping the cause if the tool itself fails
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]interface{}) (map[string]interface{}, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, &UnknownToolError{Name: name}
	}

	out, err := t.Call(ctx, args)
	if err != nil {
		return nil, &InvocationError{Tool: name, Err: err}
	}
	return out, nil
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.tools)
}
