package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/dshills/toolchat-go/faq"
)

func testFAQTool() *FAQTool {
	ix := faq.NewIndex(`Q: How do I reset my password?
A: Open the account settings page and choose "Reset password".

Q: What payment methods are accepted?
A: We accept credit cards and bank transfers.`)
	return NewFAQTool(ix)
}

// TestFAQTool_Spec verifies the advertised tool definition.
func TestFAQTool_Spec(t *testing.T) {
	spec := testFAQTool().Spec()

	if spec.Name != "search_faq" {
		t.Errorf("unexpected name %q", spec.Name)
	}

	props, ok := spec.Schema["properties"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected properties map, got %v", spec.Schema["properties"])
	}
	if _, ok := props["query"]; !ok {
		t.Error("expected query parameter in schema")
	}
}

// TestFAQTool_Call verifies search through the tool boundary.
func TestFAQTool_Call(t *testing.T) {
	tl := testFAQTool()

	t.Run("returns the matching answer", func(t *testing.T) {
		out, err := tl.Call(context.Background(), map[string]interface{}{"query": "reset password"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out["status"] != "success" {
			t.Errorf("expected success status, got %v", out["status"])
		}
		if out["answer"] != `Open the account settings page and choose "Reset password".` {
			t.Errorf("unexpected answer: %v", out["answer"])
		}
	})

	t.Run("no match surfaces ErrNoMatch", func(t *testing.T) {
		_, err := tl.Call(context.Background(), map[string]interface{}{"query": "zebra trampoline"})
		if !errors.Is(err, faq.ErrNoMatch) {
			t.Errorf("expected ErrNoMatch, got %v", err)
		}
	})

	t.Run("missing argument fails", func(t *testing.T) {
		_, err := tl.Call(context.Background(), map[string]interface{}{})
		if err == nil {
			t.Fatal("expected error for missing query")
		}
	})
}
