package tool

import (
	"context"
	"errors"
	"testing"
)

// TestNewRegistry verifies registry construction rules.
func TestNewRegistry(t *testing.T) {
	t.Run("registers tools in order", func(t *testing.T) {
		reg, err := NewRegistry(
			&MockTool{ToolName: "alpha", Description: "first"},
			&MockTool{ToolName: "beta", Description: "second"},
		)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if reg.Len() != 2 {
			t.Fatalf("expected 2 tools, got %d", reg.Len())
		}

		specs := reg.Specs()
		if specs[0].Name != "alpha" || specs[1].Name != "beta" {
			t.Errorf("expected registration order preserved, got %v", specs)
		}
	})

	t.Run("rejects duplicate names", func(t *testing.T) {
		_, err := NewRegistry(
			&MockTool{ToolName: "dupe"},
			&MockTool{ToolName: "dupe"},
		)
		if err == nil {
			t.Fatal("expected error for duplicate tool name")
		}
	})

	t.Run("empty registry is valid", func(t *testing.T) {
		reg, err := NewRegistry()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(reg.Specs()) != 0 {
			t.Errorf("expected no specs, got %v", reg.Specs())
		}
	})
}

// TestRegistry_Invoke verifies dispatch and error wrapping.
func TestRegistry_Invoke(t *testing.T) {
	t.Run("dispatches to the named tool", func(t *testing.T) {
		mock := &MockTool{
			ToolName:  "echo",
			Responses: []map[string]interface{}{{"status": "success"}},
		}
		reg, err := NewRegistry(mock)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out, err := reg.Invoke(context.Background(), "echo", map[string]interface{}{"k": "v"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out["status"] != "success" {
			t.Errorf("unexpected output: %v", out)
		}
		if mock.CallCount() != 1 {
			t.Errorf("expected 1 call, got %d", mock.CallCount())
		}
		if mock.Calls[0].Input["k"] != "v" {
			t.Errorf("arguments not forwarded: %v", mock.Calls[0].Input)
		}
	})

	t.Run("unknown name returns UnknownToolError", func(t *testing.T) {
		reg, _ := NewRegistry(&MockTool{ToolName: "known"})

		_, err := reg.Invoke(context.Background(), "missing", nil)

		var ute *UnknownToolError
		if !errors.As(err, &ute) {
			t.Fatalf("expected *UnknownToolError, got %T: %v", err, err)
		}
		if ute.Name != "missing" {
			t.Errorf("expected name 'missing', got %q", ute.Name)
		}
	})

	t.Run("tool failure returns InvocationError with cause", func(t *testing.T) {
		cause := errors.New("backing store exploded")
		reg, _ := NewRegistry(&MockTool{ToolName: "flaky", Err: cause})

		_, err := reg.Invoke(context.Background(), "flaky", nil)

		var ie *InvocationError
		if !errors.As(err, &ie) {
			t.Fatalf("expected *InvocationError, got %T: %v", err, err)
		}
		if ie.Tool != "flaky" {
			t.Errorf("expected tool 'flaky', got %q", ie.Tool)
		}
		if !errors.Is(err, cause) {
			t.Errorf("expected cause preserved through Unwrap, got %v", err)
		}
	})

	t.Run("invoke is idempotent for read-only tools", func(t *testing.T) {
		reg, _ := NewRegistry(&MockTool{
			ToolName:  "lookup",
			Responses: []map[string]interface{}{{"answer": "42"}},
		})

		args := map[string]interface{}{"q": "anything"}
		first, err := reg.Invoke(context.Background(), "lookup", args)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		second, err := reg.Invoke(context.Background(), "lookup", args)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if first["answer"] != second["answer"] {
			t.Errorf("repeated invocations differ: %v vs %v", first, second)
		}
	})
}
