package render

import (
	"io"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/flavortown/pkg/model"
)

// JSONNode is the machine-readable form of a rendered item.
type JSONNode struct {
	ID          model.ItemID `json:"id"`
	Name        string       `json:"name"`
	Type        string       `json:"type,omitempty"`
	DisplayType string       `json:"display_type,omitempty"`
	Description *string      `json:"description,omitempty"`
	Cost        *float64     `json:"cost"`
	Stock       *int         `json:"stock"`
	Limited     bool         `json:"limited"`
	Children    []*JSONNode  `json:"children,omitempty"`
}

// Tree rebuilds the nesting of entries for JSON output.
func Tree(entries []Entry) []*JSONNode {
	var roots []*JSONNode
	// stack[d] is the most recent node at depth d.
	var stack []*JSONNode
	for _, e := range entries {
		n := &JSONNode{
			ID:          e.Item.ID,
			Name:        e.Item.Name,
			Type:        e.Item.Type,
			DisplayType: DisplayType(e.Item.Type),
			Description: e.Item.Description,
			Cost:        e.Item.Cost,
			Stock:       e.Item.Stock,
			Limited:     e.Item.Limited,
		}
		stack = append(stack[:e.Depth], n)
		if e.Depth == 0 {
			roots = append(roots, n)
			continue
		}
		parent := stack[e.Depth-1]
		parent.Children = append(parent.Children, n)
	}
	return roots
}

// Listing is the --json document for store listings.
type Listing struct {
	Total    int         `json:"total"`
	Matched  int         `json:"matched"`
	Grouped  bool        `json:"grouped"`
	Sort     string      `json:"sort"`
	Items    []*JSONNode `json:"items"`
	Dangling int         `json:"dangling_links,omitempty"`
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
