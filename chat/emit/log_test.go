package emit

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

// TestLogEmitter_TextOutput verifies human-readable emission.
func TestLogEmitter_TextOutput(t *testing.T) {
	t.Run("emits event with all fields", func(t *testing.T) {
		var buf bytes.Buffer
		emitter := NewLogEmitter(&buf, false)

		emitter.Emit(Event{
			RequestID: "req-001",
			Round:     1,
			Tool:      "get_product_details",
			Msg:       "tool_invoked",
			Meta: map[string]interface{}{
				"status": "success",
			},
		})

		output := buf.String()
		if !strings.Contains(output, "req-001") {
			t.Errorf("expected output to contain request ID, got: %s", output)
		}
		if !strings.Contains(output, "tool_invoked") {
			t.Errorf("expected output to contain event name, got: %s", output)
		}
		if !strings.Contains(output, "tool=get_product_details") {
			t.Errorf("expected output to contain tool name, got: %s", output)
		}
		if !strings.Contains(output, `"status":"success"`) {
			t.Errorf("expected output to contain meta, got: %s", output)
		}
	})

	t.Run("omits tool field when empty", func(t *testing.T) {
		var buf bytes.Buffer
		emitter := NewLogEmitter(&buf, false)

		emitter.Emit(Event{RequestID: "req-002", Msg: "turn_start"})

		if strings.Contains(buf.String(), "tool=") {
			t.Errorf("expected no tool field, got: %s", buf.String())
		}
	})

	t.Run("emits one line per event", func(t *testing.T) {
		var buf bytes.Buffer
		emitter := NewLogEmitter(&buf, false)

		emitter.Emit(Event{RequestID: "req-003", Msg: "turn_start"})
		emitter.Emit(Event{RequestID: "req-003", Msg: "turn_end"})

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 2 {
			t.Fatalf("expected 2 lines, got %d: %s", len(lines), buf.String())
		}
	})
}

// TestLogEmitter_JSONOutput verifies JSONL emission.
func TestLogEmitter_JSONOutput(t *testing.T) {
	t.Run("emits valid JSON", func(t *testing.T) {
		var buf bytes.Buffer
		emitter := NewLogEmitter(&buf, true)

		emitter.Emit(Event{
			RequestID: "req-004",
			Round:     2,
			Tool:      "search_faq",
			Msg:       "tool_invoked",
			Meta:      map[string]interface{}{"latency_ms": 12},
		})

		var decoded struct {
			RequestID string                 `json:"requestID"`
			Round     int                    `json:"round"`
			Tool      string                 `json:"tool"`
			Msg       string                 `json:"msg"`
			Meta      map[string]interface{} `json:"meta"`
		}
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("expected valid JSON, got error %v: %s", err, buf.String())
		}

		if decoded.RequestID != "req-004" {
			t.Errorf("expected requestID 'req-004', got %q", decoded.RequestID)
		}
		if decoded.Round != 2 {
			t.Errorf("expected round 2, got %d", decoded.Round)
		}
		if decoded.Tool != "search_faq" {
			t.Errorf("expected tool 'search_faq', got %q", decoded.Tool)
		}
		if decoded.Meta["latency_ms"] != float64(12) {
			t.Errorf("expected latency_ms 12, got %v", decoded.Meta["latency_ms"])
		}
	})
}

// TestNewLogEmitter verifies constructor defaults.
func TestNewLogEmitter(t *testing.T) {
	t.Run("nil writer defaults to stdout", func(t *testing.T) {
		emitter := NewLogEmitter(nil, false)
		if emitter.writer == nil {
			t.Error("expected non-nil writer")
		}
	})
}

// TestNullEmitter verifies the no-op emitter discards events.
func TestNullEmitter(t *testing.T) {
	emitter := NewNullEmitter()

	// Must not panic on any event shape.
	emitter.Emit(Event{})
	emitter.Emit(Event{
		RequestID: "req-005",
		Msg:       "turn_end",
		Meta:      map[string]interface{}{"error": "ignored"},
	})
}
