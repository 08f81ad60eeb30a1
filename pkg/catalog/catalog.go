// Package catalog holds the in-memory item catalog and resolves the
// undirected item links into a directed parent/child graph.
package catalog

import (
	"fmt"

	"github.com/vanderheijden86/flavortown/pkg/model"
)

// Catalog is an immutable collection of items keyed by ID.
// The input order is kept; it decides tie-breaking during resolution.
type Catalog struct {
	items []model.Item
	byID  map[model.ItemID]*model.Item
}

// New builds a catalog from items. Every item is validated and the first
// malformed one is returned as a *model.MalformedItemError.
// IDs are assumed unique; a repeated ID keeps the first occurrence.
func New(items []model.Item) (*Catalog, error) {
	c := &Catalog{
		items: make([]model.Item, 0, len(items)),
		byID:  make(map[model.ItemID]*model.Item, len(items)),
	}
	seen := make(map[model.ItemID]struct{}, len(items))
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return nil, fmt.Errorf("building catalog: %w", err)
		}
		if _, dup := seen[items[i].ID]; dup {
			continue
		}
		seen[items[i].ID] = struct{}{}
		c.items = append(c.items, items[i])
	}
	for i := range c.items {
		c.byID[c.items[i].ID] = &c.items[i]
	}
	return c, nil
}

// Get returns the item with the given ID, or nil.
func (c *Catalog) Get(id model.ItemID) *model.Item {
	if c == nil {
		return nil
	}
	return c.byID[id]
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Items returns pointers to the catalog items in load order.
// The items must not be modified.
func (c *Catalog) Items() []*model.Item {
	if c == nil {
		return nil
	}
	out := make([]*model.Item, len(c.items))
	for i := range c.items {
		out[i] = &c.items[i]
	}
	return out
}
