package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dshills/toolchat-go/chat/emit"
	"github.com/dshills/toolchat-go/chat/model"
	"github.com/dshills/toolchat-go/chat/tool"
)

// turnState tracks where a chat turn is in its lifecycle.
type turnState int

const (
	// stateAwaitingModel: the user message (plus tool specs) has been or is
	// about to be sent to the model for its initial decision.
	stateAwaitingModel turnState = iota

	// stateToolRequested: the model asked for a tool; the tool is executed
	// and its result goes back to the model for a final answer.
	stateToolRequested

	// stateDone: a final answer exists.
	stateDone
)

// Fallback answers, used when the model returns no usable text.
const (
	fallbackDirect    = "I'm sorry, I couldn't generate a direct response."
	fallbackAfterTool = "I'm sorry, I couldn't generate a response after using the tool."
)

// Turn is the outcome of one orchestrated chat request.
type Turn struct {
	// Answer is the final natural-language answer for the user.
	Answer string

	// Tool names the tool that was invoked, if any.
	Tool string

	// ToolOutput is the raw tool result sent back to the model, kept for
	// transparency. Nil when no tool ran to completion.
	ToolOutput map[string]interface{}

	// Rounds is the number of model round trips performed (1 or 2).
	Rounds int
}

// Orchestrator manages the request -> model -> (tool) -> model -> response
// flow for one chat turn.
//
// Each turn is stateless and independent: no conversation history is kept
// across requests, and at most ONE tool round trip is performed per turn. If
// the model requests another tool call after receiving the first tool
// result, that request is not honored; the turn ends with whatever text the
// model produced. This is a documented limitation of the demo, not a bug.
//
// The orchestrator is safe for concurrent use: its only mutable state is the
// request ID counter.
type Orchestrator struct {
	model   model.ChatModel
	tools   *tool.Registry
	emitter emit.Emitter
	metrics *PrometheusMetrics
	system  string

	nextID atomic.Uint64
}

// New creates an Orchestrator over the given model and tool registry.
func New(m model.ChatModel, tools *tool.Registry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		model:   m,
		tools:   tools,
		emitter: emit.NewNullEmitter(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes one chat turn for the given user message.
//
// State flow: AwaitingModel -> (ToolRequested) -> Done.
//
// Returns:
//   - Turn with the final answer and optional tool trace
//   - ErrEmptyMessage if message is blank
//   - an error wrapping ErrModelUnavailable if any model call fails
//
// Tool-level failures (unknown product, no FAQ match, fetch failure, bad
// arguments) do NOT fail the turn: they are reported back into the
// conversation as an error tool result so the model can phrase a graceful
// answer. An unknown tool name short-circuits to a fixed graceful answer
// without a second model call.
func (o *Orchestrator) Run(ctx context.Context, message string) (Turn, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Turn{}, ErrEmptyMessage
	}

	requestID := fmt.Sprintf("req-%06d", o.nextID.Add(1))
	o.emitter.Emit(emit.Event{RequestID: requestID, Msg: "turn_start"})

	messages := make([]model.Message, 0, 4)
	if o.system != "" {
		messages = append(messages, model.Message{Role: model.RoleSystem, Content: o.system})
	}
	messages = append(messages, model.Message{Role: model.RoleUser, Content: message})

	var (
		turn Turn
		call model.ToolCall
	)

	state := stateAwaitingModel
	for state != stateDone {
		switch state {
		case stateAwaitingModel:
			out, err := o.callModel(ctx, requestID, 1, messages, o.tools.Specs())
			if err != nil {
				return o.fail(requestID, err)
			}
			turn.Rounds = 1

			if len(out.ToolCalls) == 0 {
				turn.Answer = textOrFallback(out.Text, fallbackDirect)
				state = stateDone
				break
			}

			// Only the first requested call is honored.
			call = out.ToolCalls[0]
			turn.Tool = call.Name
			state = stateToolRequested

		case stateToolRequested:
			result, answered := o.invokeTool(ctx, requestID, call)
			if answered != "" {
				// Unknown tool: answer directly, no second round.
				turn.Answer = answered
				state = stateDone
				break
			}
			turn.ToolOutput = result

			messages = append(messages,
				model.Message{Role: model.RoleAssistant, ToolCall: &call},
				model.Message{Role: model.RoleTool, ToolResult: &model.ToolResult{
					ID:     call.ID,
					Name:   call.Name,
					Output: result,
				}},
			)

			// Second call omits tool specs: the turn allows one round trip,
			// and any further tool request would be ignored anyway.
			out, err := o.callModel(ctx, requestID, 2, messages, nil)
			if err != nil {
				return o.fail(requestID, err)
			}
			turn.Rounds = 2
			turn.Answer = textOrFallback(out.Text, fallbackAfterTool)
			state = stateDone
		}
	}

	o.metrics.RecordRequest("ok")
	o.emitter.Emit(emit.Event{
		RequestID: requestID,
		Round:     turn.Rounds,
		Tool:      turn.Tool,
		Msg:       "turn_end",
	})
	return turn, nil
}

// callModel performs one model round trip with latency accounting.
func (o *Orchestrator) callModel(ctx context.Context, requestID string, round int, messages []model.Message, specs []model.ToolSpec) (model.ChatOut, error) {
	start := time.Now()
	out, err := o.model.Chat(ctx, messages, specs)
	elapsed := time.Since(start)

	o.metrics.ObserveModelLatency(fmt.Sprintf("%d", round), elapsed)

	meta := map[string]interface{}{"latency_ms": elapsed.Milliseconds()}
	if err != nil {
		meta["error"] = err.Error()
	}
	o.emitter.Emit(emit.Event{RequestID: requestID, Round: round, Msg: "model_call", Meta: meta})

	if err != nil {
		return model.ChatOut{}, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	return out, nil
}

// invokeTool executes the requested tool.
//
// Returns (result, "") on success or recoverable failure: failures are
// folded into an error-shaped result map for the model to explain. Returns
// ("", answer) for an unknown tool, where answer is the graceful message to
// return without a second model round.
func (o *Orchestrator) invokeTool(ctx context.Context, requestID string, call model.ToolCall) (map[string]interface{}, string) {
	result, err := o.tools.Invoke(ctx, call.Name, call.Input)

	switch {
	case err == nil:
		o.metrics.RecordToolInvocation(call.Name, "success")
		o.emitter.Emit(emit.Event{
			RequestID: requestID, Round: 1, Tool: call.Name, Msg: "tool_invoked",
			Meta: map[string]interface{}{"status": "success"},
		})
		return result, ""

	case isUnknownTool(err):
		o.metrics.RecordToolInvocation(call.Name, "unknown")
		o.emitter.Emit(emit.Event{
			RequestID: requestID, Round: 1, Tool: call.Name, Msg: "tool_invoked",
			Meta: map[string]interface{}{"status": "unknown", "error": err.Error()},
		})
		return nil, fmt.Sprintf("I tried to use a tool called '%s', but it's not available.", call.Name)

	default:
		o.metrics.RecordToolInvocation(call.Name, "error")
		o.emitter.Emit(emit.Event{
			RequestID: requestID, Round: 1, Tool: call.Name, Msg: "tool_invoked",
			Meta: map[string]interface{}{"status": "error", "error": err.Error()},
		})
		return map[string]interface{}{
			"status":  "error",
			"message": err.Error(),
		}, ""
	}
}

// fail finalizes a turn that could not reach the model.
func (o *Orchestrator) fail(requestID string, err error) (Turn, error) {
	o.metrics.RecordRequest("error")
	o.emitter.Emit(emit.Event{
		RequestID: requestID,
		Msg:       "turn_end",
		Meta:      map[string]interface{}{"error": err.Error()},
	})
	return Turn{}, err
}

func isUnknownTool(err error) bool {
	var ute *tool.UnknownToolError
	return errors.As(err, &ute)
}

func textOrFallback(text, fallback string) string {
	if strings.TrimSpace(text) == "" {
		return fallback
	}
	return text
}
