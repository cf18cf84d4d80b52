// Package anthropic provides a ChatModel adapter for Anthropic's Claude API.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/dshills/toolchat-go/chat/model"
)

// defaultMaxTokens caps the response size of a single completion.
const defaultMaxTokens = 4096

// ChatModel implements model.ChatModel for Anthropic's Claude API.
//
// Provides access to Claude models with:
//   - Tool/function calling support
//   - Tool result round trips
//   - Context cancellation
//   - System prompt extraction (Anthropic uses a separate system parameter)
//
// Example usage:
//
//	apiKey := os.Getenv("ANTHROPIC_API_KEY")
//	m := anthropic.NewChatModel(apiKey, "claude-sonnet-4-20250514")
//
//	messages := []model.Message{
//	    {Role: model.RoleUser, Content: "How much is product P101?"},
//	}
//
//	out, err := m.Chat(ctx, messages, specs)
//	if err != nil {
//	    log.Fatal(err)
//	}
type ChatModel struct {
	apiKey    string
	modelName string
	client    anthropicClient
}

// anthropicClient defines the interface for Anthropic API operations.
// This allows for easy mocking in tests.
type anthropicClient interface {
	createMessage(ctx context.Context, systemPrompt string, messages []model.Message, tools []model.ToolSpec) (model.ChatOut, error)
}

// NewChatModel creates a new Anthropic ChatModel.
//
// Parameters:
//   - apiKey: Anthropic API key (get from https://console.anthropic.com/)
//   - modelName: Model to use. Empty string uses default.
func NewChatModel(apiKey, modelName string) *ChatModel {
	if modelName == "" {
		modelName = "claude-sonnet-4-20250514"
	}

	return &ChatModel{
		apiKey:    apiKey,
		modelName: modelName,
		client:    &defaultClient{apiKey: apiKey, modelName: modelName},
	}
}

// Chat implements the model.ChatModel interface.
//
// Sends messages to Anthropic's API and returns the response. System
// messages are extracted and passed through the dedicated system
// parameter rather than the messages array.
//
// Returns:
//   - ChatOut with Text and/or ToolCalls
//   - Error for authentication failures, invalid requests, or API errors
func (m *ChatModel) Chat(ctx context.Context, messages []model.Message, tools []model.ToolSpec) (model.ChatOut, error) {
	if ctx.Err() != nil {
		return model.ChatOut{}, ctx.Err()
	}

	systemPrompt, conversationMessages := extractSystemPrompt(messages)

	out, err := m.client.createMessage(ctx, systemPrompt, conversationMessages, tools)
	if err != nil {
		return model.ChatOut{}, err
	}

	return out, nil
}

// extractSystemPrompt separates the system message from conversation messages.
// Anthropic's API expects system prompts as a separate parameter, not in the
// messages array.
func extractSystemPrompt(messages []model.Message) (string, []model.Message) {
	var systemPrompt string
	var conversationMessages []model.Message

	for _, msg := range messages {
		if msg.Role == model.RoleSystem {
			if systemPrompt != "" {
				systemPrompt += "\n\n"
			}
			systemPrompt += msg.Content
		} else {
			conversationMessages = append(conversationMessages, msg)
		}
	}

	return systemPrompt, conversationMessages
}

// defaultClient wraps the official anthropic-sdk-go client.
type defaultClient struct {
	apiKey    string
	modelName string
}

func (c *defaultClient) createMessage(ctx context.Context, systemPrompt string, messages []model.Message, tools []model.ToolSpec) (model.ChatOut, error) {
	if c.apiKey == "" {
		return model.ChatOut{}, errors.New("Anthropic API key is required")
	}

	client := sdk.NewClient(option.WithAPIKey(c.apiKey))

	params := sdk.MessageNewParams{
		Model:     sdk.Model(c.modelName),
		MaxTokens: defaultMaxTokens,
		Messages:  convertMessages(messages),
	}
	if systemPrompt != "" {
		params.System = []sdk.TextBlockParam{{Text: systemPrompt}}
	}
	if len(tools) > 0 {
		params.Tools = convertTools(tools)
	}

	message, err := client.Messages.New(ctx, params)
	if err != nil {
		return model.ChatOut{}, fmt.Errorf("Anthropic API error: %w", err)
	}

	return convertResponse(message), nil
}

// convertMessages converts our Message format to Anthropic's format.
//
// A tool result becomes a user message carrying a tool_result block, per
// Anthropic's conversation shape for tool use.
func convertMessages(messages []model.Message) []sdk.MessageParam {
	converted := make([]sdk.MessageParam, 0, len(messages))

	for _, msg := range messages {
		switch {
		case msg.Role == model.RoleAssistant && msg.ToolCall != nil:
			input, err := json.Marshal(msg.ToolCall.Input)
			if err != nil {
				input = []byte("{}")
			}
			converted = append(converted, sdk.NewAssistantMessage(
				sdk.NewToolUseBlock(msg.ToolCall.ID, json.RawMessage(input), msg.ToolCall.Name),
			))

		case msg.Role == model.RoleAssistant:
			converted = append(converted, sdk.NewAssistantMessage(sdk.NewTextBlock(msg.Content)))

		case msg.Role == model.RoleTool && msg.ToolResult != nil:
			output, err := json.Marshal(msg.ToolResult.Output)
			if err != nil {
				output = []byte(`{"status":"error","message":"unencodable tool result"}`)
			}
			isError := msg.ToolResult.Output["status"] == "error"
			converted = append(converted, sdk.NewUserMessage(
				sdk.NewToolResultBlock(msg.ToolResult.ID, string(output), isError),
			))

		default:
			converted = append(converted, sdk.NewUserMessage(sdk.NewTextBlock(msg.Content)))
		}
	}

	return converted
}

// convertTools converts our ToolSpec format to Anthropic's format.
func convertTools(tools []model.ToolSpec) []sdk.ToolUnionParam {
	converted := make([]sdk.ToolUnionParam, len(tools))

	for i, tool := range tools {
		schema := sdk.ToolInputSchemaParam{}
		if props, ok := tool.Schema["properties"].(map[string]interface{}); ok {
			schema.Properties = props
		}
		if required, ok := tool.Schema["required"].([]string); ok {
			schema.Required = required
		} else if required, ok := tool.Schema["required"].([]interface{}); ok {
			requiredStrs := make([]string, 0, len(required))
			for _, v := range required {
				if s, ok := v.(string); ok {
					requiredStrs = append(requiredStrs, s)
				}
			}
			schema.Required = requiredStrs
		}

		converted[i] = sdk.ToolUnionParam{
			OfTool: &sdk.ToolParam{
				Name:        tool.Name,
				Description: sdk.String(tool.Description),
				InputSchema: schema,
			},
		}
	}

	return converted
}

// convertResponse converts Anthropic's response to our ChatOut format.
func convertResponse(message *sdk.Message) model.ChatOut {
	out := model.ChatOut{}

	for _, block := range message.Content {
		switch b := block.AsAny().(type) {
		case sdk.TextBlock:
			if out.Text != "" {
				out.Text += "\n"
			}
			out.Text += b.Text

		case sdk.ToolUseBlock:
			input := map[string]interface{}{}
			if len(b.Input) > 0 {
				_ = json.Unmarshal(b.Input, &input)
			}
			out.ToolCalls = append(out.ToolCalls, model.ToolCall{
				ID:    b.ID,
				Name:  b.Name,
				Input: input,
			})
		}
	}

	return out
}
