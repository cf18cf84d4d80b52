package tool

import (
	"context"

	"github.com/dshills/toolchat-go/chat/model"
	"github.com/dshills/toolchat-go/fetch"
)

// PostsTool exposes the external posts fetcher to the LLM.
type PostsTool struct {
	client *fetch.Client
}

// NewPostsTool creates a PostsTool over the given fetch client.
func NewPostsTool(client *fetch.Client) *PostsTool {
	return &PostsTool{client: client}
}

// Name returns the tool identifier.
func (t *PostsTool) Name() string {
	return "get_jsonplaceholder_posts"
}

// Spec returns the tool definition advertised to the LLM.
func (t *PostsTool) Spec() model.ToolSpec {
	return model.ToolSpec{
		Name:        t.Name(),
		Description: "Fetches a list of recent posts or articles from an external resource. Use this when the user asks for recent news, articles, or blog posts.",
		Schema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "The maximum number of posts to retrieve (default is 1).",
				},
			},
		},
	}
}

// Call fetches posts from the upstream API.
//
// The limit argument is optional and defaults to 1. Providers deliver JSON
// numbers as float64, so both numeric shapes are accepted.
func (t *PostsTool) Call(ctx context.Context, input map[string]interface{}) (map[string]interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	limit := 1
	switch v := input["limit"].(type) {
	case float64:
		limit = int(v)
	case int:
		limit = v
	}

	posts, err := t.client.Posts(ctx, limit)
	if err != nil {
		return nil, err
	}

	simplified := make([]interface{}, 0, len(posts))
	for _, p := range posts {
		simplified = append(simplified, map[string]interface{}{
			"id":    p.ID,
			"title": p.Title,
		})
	}

	return map[string]interface{}{
		"status": "success",
		"data":   simplified,
	}, nil
}
