package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "product_catalog.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write catalog fixture: %v", err)
	}
	return path
}

// TestLoad verifies startup loading semantics.
func TestLoad(t *testing.T) {
	t.Run("loads valid catalog", func(t *testing.T) {
		path := writeCatalogFile(t, `{
			"P101": {"name": "Wireless Mouse", "price": 19.99},
			"p102": {"name": "Mechanical Keyboard", "price": 89.50}
		}`)

		store, err := Load(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if store.Len() != 2 {
			t.Errorf("expected 2 products, got %d", store.Len())
		}
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
		if err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("malformed JSON fails", func(t *testing.T) {
		path := writeCatalogFile(t, `{"P101": `)

		_, err := Load(path)
		if err == nil {
			t.Fatal("expected error for malformed catalog")
		}
	})

	t.Run("wrong JSON shape fails", func(t *testing.T) {
		path := writeCatalogFile(t, `["P101", "P102"]`)

		_, err := Load(path)
		if err == nil {
			t.Fatal("expected error for non-object catalog")
		}
	})
}

// TestStore_Lookup verifies the lookup contract: exact records for known IDs,
// ErrNotFound for everything else.
func TestStore_Lookup(t *testing.T) {
	store := NewStore(map[string]Product{
		"P101": {"name": "Wireless Mouse", "price": 19.99},
		"P102": {"name": "Mechanical Keyboard", "price": 89.50},
	})

	t.Run("returns exact stored record", func(t *testing.T) {
		p, err := store.Lookup("P101")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if p["name"] != "Wireless Mouse" {
			t.Errorf("expected name 'Wireless Mouse', got %v", p["name"])
		}
		if p["price"] != 19.99 {
			t.Errorf("expected price 19.99, got %v", p["price"])
		}
	})

	t.Run("lookup is case-insensitive", func(t *testing.T) {
		for _, id := range []string{"p101", "P101", " p101 "} {
			if _, err := store.Lookup(id); err != nil {
				t.Errorf("Lookup(%q): expected match, got %v", id, err)
			}
		}
	})

	t.Run("unknown ID returns ErrNotFound", func(t *testing.T) {
		_, err := store.Lookup("P999")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("lookup is idempotent", func(t *testing.T) {
		first, err := store.Lookup("P102")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		second, err := store.Lookup("P102")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if first["name"] != second["name"] || first["price"] != second["price"] {
			t.Errorf("repeated lookups differ: %v vs %v", first, second)
		}
	})
}
