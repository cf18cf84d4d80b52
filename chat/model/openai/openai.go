// Package openai provides a ChatModel adapter for OpenAI's API.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dshills/toolchat-go/chat/model"
	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// ChatModel implements model.ChatModel for OpenAI's API.
//
// Provides access to OpenAI models (GPT-4o, GPT-4.1, etc.) with:
//   - Automatic retry logic for transient errors
//   - Rate limit handling with backoff
//   - Tool/function calling support
//   - Context cancellation
//
// Example usage:
//
//	apiKey := os.Getenv("OPENAI_API_KEY")
//	m := openai.NewChatModel(apiKey, "gpt-4o-mini")
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
	apiKey     string
	modelName  string
	client     openaiClient
	maxRetries int
	retryDelay time.Duration
}

// openaiClient defines the interface for OpenAI API operations.
// This allows for easy mocking in tests.
type openaiClient interface {
	createChatCompletion(ctx context.Context, messages []model.Message, tools []model.ToolSpec) (model.ChatOut, error)
}

// NewChatModel creates a new OpenAI ChatModel.
//
// Parameters:
//   - apiKey: OpenAI API key (get from https://platform.openai.com/api-keys)
//   - modelName: Model to use (e.g., "gpt-4o-mini"). Empty string uses default.
//
// Returns a ChatModel configured with:
//   - 3 retry attempts for transient errors
//   - 1 second delay between retries
//   - Exponential backoff for rate limits
func NewChatModel(apiKey, modelName string) *ChatModel {
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}

	return &ChatModel{
		apiKey:     apiKey,
		modelName:  modelName,
		client:     &defaultClient{apiKey: apiKey, modelName: modelName},
		maxRetries: 3,
		retryDelay: time.Second,
	}
}

// Chat implements the model.ChatModel interface.
//
// Sends messages to OpenAI's API and returns the response.
// Automatically retries on transient errors (network issues, rate limits).
//
// Returns:
//   - ChatOut with Text and/or ToolCalls
//   - Error for authentication failures, invalid requests, or exceeded retries
func (m *ChatModel) Chat(ctx context.Context, messages []model.Message, tools []model.ToolSpec) (model.ChatOut, error) {
	if ctx.Err() != nil {
		return model.ChatOut{}, ctx.Err()
	}

	var lastErr error
	for attempt := 0; attempt <= m.maxRetries; attempt++ {
		out, err := m.client.createChatCompletion(ctx, messages, tools)
		if err == nil {
			return out, nil
		}

		lastErr = err

		if !isTransientError(err) {
			return model.ChatOut{}, err
		}

		if attempt >= m.maxRetries {
			break
		}

		// Exponential backoff for rate limits, flat delay otherwise.
		delay := m.retryDelay
		if isRateLimitError(err) {
			delay = m.retryDelay * time.Duration(attempt+1)
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return model.ChatOut{}, ctx.Err()
		}
	}

	return model.ChatOut{}, fmt.Errorf("OpenAI API failed after %d retries: %w", m.maxRetries, lastErr)
}

// isTransientError determines if an error should trigger a retry.
func isTransientError(err error) bool {
	if err == nil {
		return false
	}

	var rateLimitErr *rateLimitError
	if errors.As(err, &rateLimitErr) {
		return true
	}

	msgLower := strings.ToLower(err.Error())
	transientPatterns := []string{
		"timeout",
		"network",
		"connection",
		"temporary",
		"503",
		"502",
		"500",
	}

	for _, pattern := range transientPatterns {
		if strings.Contains(msgLower, pattern) {
			return true
		}
	}

	return false
}

// isRateLimitError checks if error is a rate limit error.
func isRateLimitError(err error) bool {
	var rateLimitErr *rateLimitError
	return errors.As(err, &rateLimitErr)
}

// rateLimitError marks a 429 response so the retry loop can back off.
type rateLimitError struct {
	cause error
}

func (e *rateLimitError) Error() string {
	return "OpenAI API rate limit exceeded: " + e.cause.Error()
}

func (e *rateLimitError) Unwrap() error {
	return e.cause
}

// defaultClient wraps the official openai-go SDK client.
type defaultClient struct {
	apiKey    string
	modelName string
}

func (c *defaultClient) createChatCompletion(ctx context.Context, messages []model.Message, tools []model.ToolSpec) (model.ChatOut, error) {
	if c.apiKey == "" {
		return model.ChatOut{}, errors.New("OpenAI API key is required")
	}

	client := sdk.NewClient(
		option.WithAPIKey(c.apiKey),
	)

	params := sdk.ChatCompletionNewParams{
		Model:    shared.ChatModel(c.modelName),
		Messages: convertMessages(messages),
	}
	if len(tools) > 0 {
		params.Tools = convertTools(tools)
	}

	completion, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		errLower := strings.ToLower(err.Error())
		if strings.Contains(errLower, "429") || strings.Contains(errLower, "rate limit") {
			return model.ChatOut{}, &rateLimitError{cause: err}
		}
		return model.ChatOut{}, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(completion.Choices) == 0 {
		return model.ChatOut{}, errors.New("no response from OpenAI API")
	}

	return convertResponse(completion), nil
}

// convertMessages converts our Message format to OpenAI's format.
func convertMessages(messages []model.Message) []sdk.ChatCompletionMessageParamUnion {
	converted := make([]sdk.ChatCompletionMessageParamUnion, 0, len(messages))

	for _, msg := range messages {
		switch {
		case msg.Role == model.RoleSystem:
			converted = append(converted, sdk.SystemMessage(msg.Content))

		case msg.Role == model.RoleAssistant && msg.ToolCall != nil:
			args, err := json.Marshal(msg.ToolCall.Input)
			if err != nil {
				args = []byte("{}")
			}
			converted = append(converted, sdk.ChatCompletionMessageParamUnion{
				OfAssistant: &sdk.ChatCompletionAssistantMessageParam{
					ToolCalls: []sdk.ChatCompletionMessageToolCallParam{
						{
							ID: msg.ToolCall.ID,
							Function: sdk.ChatCompletionMessageToolCallFunctionParam{
								Name:      msg.ToolCall.Name,
								Arguments: string(args),
							},
						},
					},
				},
			})

		case msg.Role == model.RoleAssistant:
			converted = append(converted, sdk.AssistantMessage(msg.Content))

		case msg.Role == model.RoleTool && msg.ToolResult != nil:
			output, err := json.Marshal(msg.ToolResult.Output)
			if err != nil {
				output = []byte(`{"status":"error","message":"unencodable tool result"}`)
			}
			converted = append(converted, sdk.ToolMessage(string(output), msg.ToolResult.ID))

		default:
			converted = append(converted, sdk.UserMessage(msg.Content))
		}
	}

	return converted
}

// convertTools converts our ToolSpec format to OpenAI's format.
func convertTools(tools []model.ToolSpec) []sdk.ChatCompletionToolParam {
	converted := make([]sdk.ChatCompletionToolParam, len(tools))

	for i, tool := range tools {
		converted[i] = sdk.ChatCompletionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:        tool.Name,
				Description: sdk.String(tool.Description),
				Parameters:  shared.FunctionParameters(tool.Schema),
			},
		}
	}

	return converted
}

// convertResponse converts OpenAI's response to our ChatOut format.
func convertResponse(completion *sdk.ChatCompletion) model.ChatOut {
	out := model.ChatOut{}

	message := completion.Choices[0].Message
	out.Text = message.Content

	for _, call := range message.ToolCalls {
		input := map[string]interface{}{}
		if call.Function.Arguments != "" {
			// Unparseable arguments leave the input empty; the tool will
			// reject the call with a descriptive error.
			_ = json.Unmarshal([]byte(call.Function.Arguments), &input)
		}
		out.ToolCalls = append(out.ToolCalls, model.ToolCall{
			ID:    call.ID,
			Name:  call.Function.Name,
			Input: input,
		})
	}

	return out
}
