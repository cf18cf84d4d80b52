package tool

import (
	"context"
	"fmt"

	"github.com/dshills/toolchat-go/catalog"
	"github.com/dshills/toolchat-go/chat/model"
)

// CatalogTool exposes product catalog lookups to the LLM.
type CatalogTool struct {
	store *catalog.Store
}

// NewCatalogTool creates a CatalogTool over the given store.
func NewCatalogTool(store *catalog.Store) *CatalogTool {
	return &CatalogTool{store: store}
}

// Name returns the tool identifier.
func (t *CatalogTool) Name() string {
	return "get_product_details"
}

// Spec returns the tool definition advertised to the LLM.
func (t *CatalogTool) Spec() model.ToolSpec {
	return model.ToolSpec{
		Name:        t.Name(),
		Description: "Retrieves details about a product from the product catalog. Use this when the user asks about a specific product ID like P101, P102, etc.",
		Schema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"product_id": map[string]interface{}{
					"type":        "string",
					"description": "The unique identifier of the product (e.g., P101, P102).",
				},
			},
			"required": []string{"product_id"},
		},
	}
}

// Call looks up the requested product.
//
// Returns an error wrapping catalog.ErrNotFound when the ID is unknown; the
// orchestrator reports that back into the conversation as a tool result.
func (t *CatalogTool) Call(ctx context.Context, input map[string]interface{}) (map[string]interface{}, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	id, ok := input["product_id"].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("product_id parameter required (string)")
	}

	product, err := t.store.Lookup(id)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"status": "success",
		"data":   map[string]interface{}(product),
	}, nil
}
