// Package catalog provides a read-only product catalog store.
//
// The catalog is loaded once from a JSON file at process start and never
// mutated afterwards, so concurrent lookups require no locking. A missing or
// malformed catalog file is a startup-fatal condition: Load returns an error
// and the process must not accept traffic.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNotFound indicates that no product matches the requested identifier.
var ErrNotFound = errors.New("product not found")

// Product is a single catalog record. Attribute names and values are opaque
// pass-through data from the catalog file (name, price, description, ...).
type Product map[string]interface{}

// Store holds the immutable product catalog keyed by identifier.
//
// Identifiers are normalized to upper case at load time so lookups are
// case-insensitive (catalog IDs follow the P101/P102 style).
type Store struct {
	products map[string]Product
}

// Load reads the catalog file at path and builds a Store.
//
// The file must contain a single JSON object mapping product IDs to product
// records:
//
//	{
//	    "P101": {"name": "Wireless Mouse", "price": 19.99},
//	    "P102": {"name": "Mechanical Keyboard", "price": 89.50}
//	}
//
// Returns an error if the file cannot be read or parsed. Callers should
// treat that as fatal and refuse to serve requests.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var raw map[string]Product
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog file %s: %w", path, err)
	}

	products := make(map[string]Product, len(raw))
	for id, p := range raw {
		products[strings.ToUpper(id)] = p
	}

	return &Store{products: products}, nil
}

// NewStore builds a Store directly from a map of products.
// Intended for tests and embedded data; IDs are normalized like Load.
func NewStore(products map[string]Product) *Store {
	normalized := make(map[string]Product, len(products))
	for id, p := range products {
		normalized[strings.ToUpper(id)] = p
	}
	return &Store{products: normalized}
}

// Lookup returns the product with the given identifier.
//
// The match is case-insensitive. Returns ErrNotFound when no entry matches.
func (s *Store) Lookup(id string) (Product, error) {
	p, ok := s.products[strings.ToUpper(strings.TrimSpace(id))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return p, nil
}

// Len returns the number of products in the catalog.
func (s *Store) Len() int {
	return len(s.products)
}
