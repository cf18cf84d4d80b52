package tool

import (
	"context"
	"fmt"

	"github.com/dshills/toolchat-go/chat/model"
	"github.com/dshills/toolchat-go/faq"
)

// FAQTool exposes FAQ document search to the LLM.
type FAQTool struct {
	index *faq.Index
}

// NewFAQTool creates an FAQTool over the given index.
func NewFAQTool(index *faq.Index) *FAQTool {
	return &FAQTool{index: index}
}

// Name returns the tool identifier.
func (t *FAQTool) Name() string {
	return "search_faq"
}

// Spec returns the tool definition advertised to the LLM.
func (t *FAQTool) Spec() model.ToolSpec {
	return model.ToolSpec{
		Name:        t.Name(),
		Description: "Searches the frequently-asked-questions document for an answer. Use this when the user asks a support or how-to question, e.g. about passwords, payments, or shipping.",
		Schema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "The user's question, in free text.",
				},
			},
			"required": []string{"query"},
		},
	}
}

// Call searches the FAQ index.
//
// Returns an error wrapping faq.ErrNoMatch when no segment scores above the
// threshold.
func (t *FAQTool) Call(ctx context.Context, input map[string]interface{}) (map[string]interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	query, ok := input["query"].(string)
	if !ok || query == "" {
		return nil, fmt.Errorf("query parameter required (string)")
	}

	seg, err := t.index.Search(query)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"status":   "success",
		"question": seg.Question,
		"answer":   seg.Answer,
	}, nil
}
