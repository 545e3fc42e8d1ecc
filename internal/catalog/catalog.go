package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

const noProductsText = "No products currently available."

// Item is one sellable record from the products document. Items are
// immutable per load; the file is only written back when seeding defaults.
type Item struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Available   bool   `json:"available"`
}

// Catalog serves product data loaded from a JSON document. Reload may run
// concurrently with readers.
type Catalog struct {
	path string

	mu    sync.RWMutex
	items []Item
}

// Load reads the products document at path. A missing file or any read or
// parse error is treated as "absent": the seed set is written to the path
// and served instead.
func Load(path string) (*Catalog, error) {
	c := &Catalog{path: path}
	items, err := readItems(path)
	if err != nil {
		log.WithError(err).WithField("file", path).Warn("products file unavailable, seeding defaults")
		items = seedItems()
		if err := writeItems(path, items); err != nil {
			return nil, fmt.Errorf("seed products file: %w", err)
		}
	}
	c.items = items
	return c, nil
}

// Reload re-reads the document, keeping the current items on failure.
func (c *Catalog) Reload() error {
	items, err := readItems(c.path)
	if err != nil {
		return fmt.Errorf("reload products: %w", err)
	}
	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
	return nil
}

func (c *Catalog) Items() []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// RenderText formats the available items as a human-readable block for the
// system prompt, preserving document order.
func (c *Catalog) RenderText() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var b strings.Builder
	for _, item := range c.items {
		if !item.Available {
			continue
		}
		b.WriteString(fmt.Sprintf("**%s**\n", item.Name))
		b.WriteString(fmt.Sprintf("💰 Price: %s %s\n", item.Price, item.Currency))
		b.WriteString(fmt.Sprintf("📝 %s\n\n", item.Description))
	}
	if b.Len() == 0 {
		return noProductsText
	}
	return "📦 **Available Products:**\n\n" + b.String()
}

func readItems(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func writeItems(path string, items []Item) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func seedItems() []Item {
	return []Item{
		{
			ID:          1,
			Name:        "Gaming Laptop",
			Price:       "1500",
			Currency:    "USD",
			Description: "High-performance gaming laptop with RTX 4070, 16GB RAM, perfect for gaming and work",
			Category:    "electronics",
			Available:   true,
		},
		{
			ID:          2,
			Name:        "Wireless Headphones",
			Price:       "200",
			Currency:    "USD",
			Description: "Premium noise-canceling wireless headphones with 30h battery life",
			Category:    "electronics",
			Available:   true,
		},
		{
			ID:          3,
			Name:        "Programming Course",
			Price:       "99",
			Currency:    "USD",
			Description: "Complete Python programming course for beginners to advanced level",
			Category:    "courses",
			Available:   true,
		},
	}
}
