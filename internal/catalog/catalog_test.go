package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_MissingFileSeedsDefaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), "products.json")
	c, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("want 3 seed items, got %d", c.Len())
	}

	// The seed set must be written back to disk.
	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("seed file not written: %v", err)
	}
	var onDisk []Item
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("seed file not valid JSON: %v", err)
	}
	if len(onDisk) != 3 || onDisk[0].Name != "Gaming Laptop" {
		t.Fatalf("unexpected seed contents: %+v", onDisk)
	}
}

func TestLoad_CorruptFileSeedsAndOverwrites(t *testing.T) {
	p := filepath.Join(t.TempDir(), "products.json")
	if err := os.WriteFile(p, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("want 3 seed items, got %d", c.Len())
	}
	data, _ := os.ReadFile(p)
	var onDisk []Item
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("corrupt file was not overwritten with seed set: %v", err)
	}
}

func TestRenderText_EmptySentinel(t *testing.T) {
	p := filepath.Join(t.TempDir(), "products.json")
	if err := os.WriteFile(p, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := c.RenderText(); got != "No products currently available." {
		t.Fatalf("sentinel mismatch: %q", got)
	}
}

func TestRenderText_UnavailableOnlySentinel(t *testing.T) {
	p := filepath.Join(t.TempDir(), "products.json")
	items := []Item{{ID: 1, Name: "Old Stock", Price: "5", Currency: "USD", Available: false}}
	data, _ := json.Marshal(items)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := c.RenderText(); got != "No products currently available." {
		t.Fatalf("sentinel mismatch: %q", got)
	}
}

func TestRenderText_AvailableItemsInOrder(t *testing.T) {
	p := filepath.Join(t.TempDir(), "products.json")
	items := []Item{
		{ID: 1, Name: "First", Price: "1", Currency: "USD", Description: "a", Available: true},
		{ID: 2, Name: "Hidden", Price: "2", Currency: "USD", Description: "b", Available: false},
		{ID: 3, Name: "Second", Price: "3", Currency: "USD", Description: "c", Available: true},
	}
	data, _ := json.Marshal(items)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	out := c.RenderText()
	if strings.Contains(out, "Hidden") {
		t.Errorf("unavailable item rendered: %q", out)
	}
	if strings.Count(out, "💰 Price:") != 2 {
		t.Errorf("want 2 formatted blocks, got %q", out)
	}
	if strings.Index(out, "First") > strings.Index(out, "Second") {
		t.Errorf("items out of order: %q", out)
	}
}

func TestReload_PicksUpChanges(t *testing.T) {
	p := filepath.Join(t.TempDir(), "products.json")
	c, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	items := []Item{{ID: 9, Name: "New", Price: "10", Currency: "EUR", Available: true}}
	data, _ := json.Marshal(items)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := c.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if c.Len() != 1 || c.Items()[0].Name != "New" {
		t.Fatalf("reload did not pick up changes: %+v", c.Items())
	}
}

func TestReload_KeepsItemsOnFailure(t *testing.T) {
	p := filepath.Join(t.TempDir(), "products.json")
	c, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := os.WriteFile(p, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := c.Reload(); err == nil {
		t.Fatalf("expected reload error")
	}
	if c.Len() != 3 {
		t.Fatalf("items lost after failed reload: %d", c.Len())
	}
}
