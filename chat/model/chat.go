// Package model provides LLM integration adapters.
package model

import "context"

// ChatModel defines the interface for LLM chat providers.
//
// This interface abstracts the differences between providers (OpenAI,
// Anthropic, Google) behind a single chat API with optional tool support.
//
// Implementations should:
// - Handle provider-specific authentication.
// - Convert the standard Message format to the provider's wire format.
// - Parse provider responses back into ChatOut.
// - Respect context cancellation and timeouts.
//
// Example usage:
//
//	m := google.NewChatModel(apiKey, "gemini-2.5-flash")
//	out, err := m.Chat(ctx, []model.Message{
//	    {Role: model.RoleUser, Content: "What is the price of product P101?"},
//	}, registry.Specs())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, call := range out.ToolCalls {
//	    fmt.Printf("tool=%s input=%v\n", call.Name, call.Input)
//	}
type ChatModel interface {
	// Chat sends messages to the LLM and returns the response.
	//
	// Parameters:
	// - ctx: Context for cancellation and timeout control.
	// - messages: Conversation so far (system, user, assistant, tool messages).
	// - tools: Tool specifications the LLM may use (nil to disable tools).
	//
	// Returns:
	// - ChatOut: LLM response containing text and/or tool calls.
	// - error: Provider errors, network errors, or context cancellation.
	//
	// The LLM may respond with text only, tool calls only, or both.
	Chat(ctx context.Context, messages []Message, tools []ToolSpec) (ChatOut, error)
}

// Message represents a single message in an LLM conversation.
//
// A message is either plain text (system, user, or assistant roles), an
// assistant message carrying a tool-call request, or a tool message carrying
// the result of executing that request. Exactly one of Content, ToolCall, or
// ToolResult should be populated for non-text roles; adapters ignore fields
// that do not apply to the role.
type Message struct {
	// Role identifies the message sender.
	// Standard roles: "system", "user", "assistant", "tool".
	Role string

	// Content contains the message text.
	// Empty for messages that only carry a tool call or tool result.
	Content string

	// ToolCall, when set on an assistant message, records a tool-call
	// request previously returned by the model. Required so providers that
	// validate conversation shape (OpenAI, Anthropic) accept the follow-up
	// turn that carries the tool result.
	ToolCall *ToolCall

	// ToolResult, when set on a tool message, carries the output of an
	// executed tool back to the model.
	ToolResult *ToolResult
}

// Standard role constants for LLM conversations.
// These align with the conventions used by major LLM providers.
const (
	// RoleSystem indicates a system message that sets context or instructions.
	RoleSystem = "system"

	// RoleUser indicates a message from the human user.
	RoleUser = "user"

	// RoleAssistant indicates a response from the LLM.
	RoleAssistant = "assistant"

	// RoleTool indicates a message carrying a tool execution result.
	RoleTool = "tool"
)

// ToolSpec describes a tool that an LLM can call.
//
// The Schema field follows JSON Schema format and describes the expected
// input parameters.
//
// Example:
//
//	spec := model.ToolSpec{
//	    Name:        "get_product_details",
//	    Description: "Retrieves details about a product from the catalog",
//	    Schema: map[string]interface{}{
//	        "type": "object",
//	        "properties": map[string]interface{}{
//	            "product_id": map[string]interface{}{
//	                "type":        "string",
//	                "description": "The unique product identifier (e.g., P101)",
//	            },
//	        },
//	        "required": []string{"product_id"},
//	    },
//	}
type ToolSpec struct {
	// Name uniquely identifies the tool.
	// Must be a valid function name (alphanumeric + underscores).
	Name string

	// Description explains what the tool does.
	// The LLM uses this to decide when to call the tool.
	Description string

	// Schema defines the tool's input parameters using JSON Schema format.
	// Optional for tools with no parameters.
	Schema map[string]interface{}
}

// ChatOut represents the output from an LLM chat completion.
//
// The model can respond with text only (a direct answer), tool calls only
// (a request to invoke external tools), or both.
type ChatOut struct {
	// Text contains the LLM's generated response.
	// May be empty if the LLM only wants to call tools.
	Text string

	// ToolCalls contains tools the LLM wants to invoke.
	// Empty if the LLM provided a direct text response.
	ToolCalls []ToolCall
}

// ToolCall represents a request from the LLM to invoke a specific tool.
type ToolCall struct {
	// ID is the provider-assigned call identifier, used to correlate the
	// tool result with the request on the follow-up turn. Providers that do
	// not assign IDs (Google) leave it empty.
	ID string

	// Name identifies which tool to call.
	// Must match a ToolSpec.Name from the available tools.
	Name string

	// Input contains the parameters for the tool call.
	// Structure matches the ToolSpec.Schema for this tool.
	// May be nil for tools that take no parameters.
	Input map[string]interface{}
}

// ToolResult carries the output of an executed tool back to the model.
type ToolResult struct {
	// ID echoes the ToolCall.ID this result answers, when the provider
	// assigned one.
	ID string

	// Name is the tool that produced this result.
	Name string

	// Output is the structured tool result. Failed invocations are reported
	// here too, as {"status": "error", "message": ...}, so the model can
	// phrase a graceful answer.
	Output map[string]interface{}
}
