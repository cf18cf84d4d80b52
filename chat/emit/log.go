package emit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LogEmitter implements Emitter by writing structured log output to a writer.
//
// Supports two output modes:
//   - Text mode (default): Human-readable format with key=value pairs
//   - JSON mode: Machine-readable JSON format, one event per line
//
// Example text output:
//
//	[tool_invoked] requestID=req-001 round=1 tool=get_product_details
//
// Example JSON output:
//
//	{"requestID":"req-001","round":1,"tool":"get_product_details","msg":"tool_invoked","meta":null}
type LogEmitter struct {
	writer   io.Writer
	jsonMode bool
}

// NewLogEmitter creates a new LogEmitter.
//
// Parameters:
//   - writer: Where to write the log output (e.g., os.Stdout, file)
//   - jsonMode: If true, emit JSON format; if false, emit text format
func NewLogEmitter(writer io.Writer, jsonMode bool) *LogEmitter {
	if writer == nil {
		writer = os.Stdout
	}
	return &LogEmitter{
		writer:   writer,
		jsonMode: jsonMode,
	}
}

// Emit writes an event to the configured writer.
func (l *LogEmitter) Emit(event Event) {
	if l.jsonMode {
		l.emitJSON(event)
	} else {
		l.emitText(event)
	}
}

// emitJSON writes the event as a single JSONL record.
func (l *LogEmitter) emitJSON(event Event) {
	data, err := json.Marshal(struct {
		RequestID string                 `json:"requestID"`
		Round     int                    `json:"round"`
		Tool      string                 `json:"tool"`
		Msg       string                 `json:"msg"`
		Meta      map[string]interface{} `json:"meta"`
	}{
		RequestID: event.RequestID,
		Round:     event.Round,
		Tool:      event.Tool,
		Msg:       event.Msg,
		Meta:      event.Meta,
	})
	if err != nil {
		// Fallback to error message if marshal fails
		fmt.Fprintf(l.writer, "{\"error\":\"failed to marshal event: %v\"}\n", err)
		return
	}

	fmt.Fprintf(l.writer, "%s\n", data)
}

// emitText writes the event as human-readable text.
func (l *LogEmitter) emitText(event Event) {
	fmt.Fprintf(l.writer, "[%s] requestID=%s round=%d", event.Msg, event.RequestID, event.Round)
	if event.Tool != "" {
		fmt.Fprintf(l.writer, " tool=%s", event.Tool)
	}

	if len(event.Meta) > 0 {
		metaJSON, err := json.Marshal(event.Meta)
		if err == nil {
			fmt.Fprintf(l.writer, " meta=%s", metaJSON)
		} else {
			fmt.Fprintf(l.writer, " meta=%v", event.Meta)
		}
	}

	fmt.Fprint(l.writer, "\n")
}
