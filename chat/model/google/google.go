// Package google provides a ChatModel adapter for Google's Gemini API.
package google

import (
	"context"
	"errors"
	"fmt"

	"github.com/dshills/toolchat-go/chat/model"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ChatModel implements model.ChatModel for Google's Gemini API.
//
// Provides access to Gemini models with:
//   - Tool/function calling support
//   - Tool result round trips via chat history
//   - Safety filter handling
//   - Context cancellation
//
// Example usage:
//
//	apiKey := os.Getenv("GEMINI_API_KEY")
//	m := google.NewChatModel(apiKey, "gemini-2.5-flash")
//
//	messages := []model.Message{
//	    {Role: model.RoleUser, Content: "How much is product P101?"},
//	}
//
//	out, err := m.Chat(ctx, messages, specs)
//	if err != nil {
//	    var safetyErr *SafetyFilterError
//	    if errors.As(err, &safetyErr) {
//	        log.Printf("Content blocked: %s", safetyErr.Category())
//	        return
//	    }
//	    log.Fatal(err)
//	}
type ChatModel struct {
	apiKey    string
	modelName string
	client    googleClient
}

// googleClient defines the interface for Google Gemini API operations.
// This allows for easy mocking in tests.
type googleClient interface {
	generateContent(ctx context.Context, messages []model.Message, tools []model.ToolSpec) (model.ChatOut, error)
}

// NewChatModel creates a new Google ChatModel.
//
// Parameters:
//   - apiKey: Google API key (get from https://makersuite.google.com/app/apikey)
//   - modelName: Model to use (e.g., "gemini-2.5-flash"). Empty string uses default.
func NewChatModel(apiKey, modelName string) *ChatModel {
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	return &ChatModel{
		apiKey:    apiKey,
		modelName: modelName,
		client:    &defaultClient{apiKey: apiKey, modelName: modelName},
	}
}

// Chat implements the model.ChatModel interface.
//
// Sends the conversation to the Gemini API and returns the response.
// Tool specs, when provided, are exposed to the model as function
// declarations; a tool result in the final message is sent back as a
// function response part.
//
// Returns:
//   - ChatOut with Text and/or ToolCalls
//   - Error for authentication failures, safety blocks, or API errors
func (m *ChatModel) Chat(ctx context.Context, messages []model.Message, tools []model.ToolSpec) (model.ChatOut, error) {
	if ctx.Err() != nil {
		return model.ChatOut{}, ctx.Err()
	}

	out, err := m.client.generateContent(ctx, messages, tools)
	if err != nil {
		var safetyErr *SafetyFilterError
		if errors.As(err, &safetyErr) {
			return model.ChatOut{}, safetyErr
		}
		return model.ChatOut{}, err
	}

	return out, nil
}

// defaultClient wraps the official Google Gemini SDK client.
type defaultClient struct {
	apiKey    string
	modelName string
}

func (c *defaultClient) generateContent(ctx context.Context, messages []model.Message, tools []model.ToolSpec) (model.ChatOut, error) {
	if c.apiKey == "" {
		return model.ChatOut{}, errors.New("google API key is required")
	}
	if len(messages) == 0 {
		return model.ChatOut{}, errors.New("at least one message is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return model.ChatOut{}, fmt.Errorf("failed to create Google client: %w", err)
	}
	defer func() {
		_ = client.Close()
	}()

	genModel := client.GenerativeModel(c.modelName)

	if system := extractSystemPrompt(messages); system != "" {
		genModel.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}
	}

	if len(tools) > 0 {
		genModel.Tools = convertTools(tools)
	}

	history, last := convertMessages(messages)
	if len(last) == 0 {
		return model.ChatOut{}, errors.New("final message has no content to send")
	}

	session := genModel.StartChat()
	session.History = history

	resp, err := session.SendMessage(ctx, last...)
	if err != nil {
		return model.ChatOut{}, fmt.Errorf("google API error: %w", err)
	}

	if blocked := safetyBlock(resp); blocked != nil {
		return model.ChatOut{}, blocked
	}

	return convertResponse(resp), nil
}

// extractSystemPrompt joins the content of all system messages.
func extractSystemPrompt(messages []model.Message) string {
	var system string
	for _, msg := range messages {
		if msg.Role != model.RoleSystem {
			continue
		}
		if system != "" {
			system += "\n"
		}
		system += msg.Content
	}
	return system
}

// convertMessages maps the conversation onto Gemini chat history plus the
// parts of the final message to send. System messages are skipped here;
// they go through SystemInstruction instead.
func convertMessages(messages []model.Message) ([]*genai.Content, []genai.Part) {
	var contents []*genai.Content

	for _, msg := range messages {
		if msg.Role == model.RoleSystem {
			continue
		}

		content := &genai.Content{Role: convertRole(msg.Role)}
		if msg.Content != "" {
			content.Parts = append(content.Parts, genai.Text(msg.Content))
		}
		if msg.ToolCall != nil {
			content.Parts = append(content.Parts, genai.FunctionCall{
				Name: msg.ToolCall.Name,
				Args: msg.ToolCall.Input,
			})
		}
		if msg.ToolResult != nil {
			content.Parts = append(content.Parts, genai.FunctionResponse{
				Name:     msg.ToolResult.Name,
				Response: msg.ToolResult.Output,
			})
		}
		if len(content.Parts) == 0 {
			continue
		}
		contents = append(contents, content)
	}

	if len(contents) == 0 {
		return nil, nil
	}

	last := contents[len(contents)-1]
	return contents[:len(contents)-1], last.Parts
}

// convertRole maps our roles onto Gemini's "user"/"model"/"function" roles.
func convertRole(role string) string {
	switch role {
	case model.RoleAssistant:
		return "model"
	case model.RoleTool:
		return "function"
	default:
		return "user"
	}
}

// convertTools converts our ToolSpec format to Google's format.
func convertTools(tools []model.ToolSpec) []*genai.Tool {
	declarations := make([]*genai.FunctionDeclaration, len(tools))

	for i, tool := range tools {
		declarations[i] = &genai.FunctionDeclaration{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  convertSchemaToGenai(tool.Schema),
		}
	}

	return []*genai.Tool{
		{
			FunctionDeclarations: declarations,
		},
	}
}

// convertSchemaToGenai converts a JSON schema map to genai.Schema format.
// Only the object/properties/required shape used by tool schemas is
// handled; nested objects are not.
func convertSchemaToGenai(schema map[string]interface{}) *genai.Schema {
	if schema == nil {
		return nil
	}

	result := &genai.Schema{
		Type: genai.TypeObject,
	}

	if props, ok := schema["properties"].(map[string]interface{}); ok {
		properties := make(map[string]*genai.Schema)
		for key, val := range props {
			if propMap, ok := val.(map[string]interface{}); ok {
				propSchema := &genai.Schema{}
				if typeStr, ok := propMap["type"].(string); ok {
					propSchema.Type = convertTypeString(typeStr)
				}
				if desc, ok := propMap["description"].(string); ok {
					propSchema.Description = desc
				}
				properties[key] = propSchema
			}
		}
		result.Properties = properties
	}

	if required, ok := schema["required"].([]string); ok {
		result.Required = required
	} else if required, ok := schema["required"].([]interface{}); ok {
		requiredStrs := make([]string, 0, len(required))
		for _, v := range required {
			if s, ok := v.(string); ok {
				requiredStrs = append(requiredStrs, s)
			}
		}
		result.Required = requiredStrs
	}

	return result
}

// convertTypeString converts a JSON Schema type string to genai.Type.
func convertTypeString(typeStr string) genai.Type {
	switch typeStr {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeUnspecified
	}
}

// safetyBlock inspects the response for a safety filter block.
func safetyBlock(resp *genai.GenerateContentResponse) *SafetyFilterError {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason == genai.BlockReasonSafety {
		return &SafetyFilterError{
			reason:   "SAFETY",
			category: blockedCategory(resp.PromptFeedback.SafetyRatings),
		}
	}
	for _, candidate := range resp.Candidates {
		if candidate.FinishReason == genai.FinishReasonSafety {
			return &SafetyFilterError{
				reason:   "SAFETY",
				category: blockedCategory(candidate.SafetyRatings),
			}
		}
	}
	return nil
}

func blockedCategory(ratings []*genai.SafetyRating) string {
	for _, rating := range ratings {
		if rating != nil && rating.Blocked {
			return rating.Category.String()
		}
	}
	return "UNKNOWN"
}

// convertResponse converts Google's response to our ChatOut format.
func convertResponse(resp *genai.GenerateContentResponse) model.ChatOut {
	out := model.ChatOut{}

	if len(resp.Candidates) == 0 {
		return out
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return out
	}

	for _, part := range candidate.Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			if out.Text != "" {
				out.Text += "\n"
			}
			out.Text += string(p)

		case genai.FunctionCall:
			out.ToolCalls = append(out.ToolCalls, model.ToolCall{
				Name:  p.Name,
				Input: p.Args,
			})
		}
	}

	return out
}

// SafetyFilterError represents a Google safety filter block.
//
// Use errors.As to check for this error type:
//
//	var safetyErr *google.SafetyFilterError
//	if errors.As(err, &safetyErr) {
//	    log.Printf("Content blocked: %s", safetyErr.Category())
//	}
type SafetyFilterError struct {
	reason   string
	category string
}

// Error implements the error interface.
func (e *SafetyFilterError) Error() string {
	return "content blocked by safety filter: " + e.category
}

// Category returns the safety category that triggered the block.
func (e *SafetyFilterError) Category() string {
	return e.category
}

// Reason returns why the content was blocked.
func (e *SafetyFilterError) Reason() string {
	return e.reason
}
