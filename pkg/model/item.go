// Package model defines the records exchanged with the Flavortown API.
package model

import (
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// ItemID identifies a store item. IDs are unique within a catalog.
type ItemID int64

func (id ItemID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseItemID parses a decimal item identifier as typed on the command line.
func ParseItemID(s string) (ItemID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid item id %q", s)
	}
	return ItemID(n), nil
}

// Item is a shop item. Items are never mutated after loading.
type Item struct {
	ID          ItemID   `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	Type        string   `json:"type,omitempty"`
	Cost        *float64 `json:"cost,omitempty"`
	// Stock is nil for unlimited stock.
	Stock     *int     `json:"stock"`
	Limited   bool     `json:"limited,omitempty"`
	LinkedIDs []ItemID `json:"linked_ids,omitempty"`

	// Detail-only fields, populated by the single-item endpoint.
	LongDescription  *string `json:"long_description,omitempty"`
	MaxQty           *int    `json:"max_qty,omitempty"`
	OnePerPersonEver bool    `json:"one_per_person_ever,omitempty"`
	ImageURL         string  `json:"image_url,omitempty"`
}

// wireItem mirrors the upstream JSON shape of a shop item.
type wireItem struct {
	ID               ItemID   `json:"id"`
	Name             *string  `json:"name"`
	Description      *string  `json:"description"`
	LongDescription  *string  `json:"long_description"`
	Type             *string  `json:"type"`
	TicketCost       *cost    `json:"ticket_cost"`
	Stock            *int     `json:"stock"`
	Limited          bool     `json:"limited"`
	AttachedIDs      []ItemID `json:"attached_shop_item_ids"`
	MaxQty           *int     `json:"max_qty"`
	OnePerPersonEver bool     `json:"one_per_person_ever"`
	ImageURL         *string  `json:"image_url"`

	// Local catalog files written by this tool use the flattened names.
	Cost      *float64 `json:"cost"`
	LinkedIDs []ItemID `json:"linked_ids"`
}

type cost struct {
	BaseCost *float64 `json:"base_cost"`
}

// UnmarshalJSON accepts both the API shape (ticket_cost.base_cost,
// attached_shop_item_ids) and the flattened shape Item marshals to.
func (i *Item) UnmarshalJSON(data []byte) error {
	var w wireItem
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*i = Item{
		ID:               w.ID,
		Description:      w.Description,
		LongDescription:  w.LongDescription,
		Stock:            w.Stock,
		Limited:          w.Limited,
		MaxQty:           w.MaxQty,
		OnePerPersonEver: w.OnePerPersonEver,
	}
	if w.Name != nil {
		i.Name = *w.Name
	}
	if w.Type != nil {
		i.Type = *w.Type
	}
	if w.ImageURL != nil {
		i.ImageURL = *w.ImageURL
	}

	switch {
	case w.TicketCost != nil && w.TicketCost.BaseCost != nil:
		c := *w.TicketCost.BaseCost
		i.Cost = &c
	case w.Cost != nil:
		c := *w.Cost
		i.Cost = &c
	}

	if len(w.AttachedIDs) > 0 {
		i.LinkedIDs = w.AttachedIDs
	} else if len(w.LinkedIDs) > 0 {
		i.LinkedIDs = w.LinkedIDs
	}
	return nil
}

// CostValue returns the cost used for ordering; absent cost compares as 0.
func (i *Item) CostValue() float64 {
	if i == nil || i.Cost == nil {
		return 0
	}
	return *i.Cost
}

// HasDescription reports whether the item carries a non-empty description.
func (i *Item) HasDescription() bool {
	return i.Description != nil && *i.Description != ""
}

// DescriptionOr returns the description, or fallback when absent.
func (i *Item) DescriptionOr(fallback string) string {
	if i.HasDescription() {
		return *i.Description
	}
	return fallback
}

// Validate checks the fields the renderer depends on.
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return &MalformedItemError{ID: i.ID, Field: "name"}
	}
	if i.Cost != nil && *i.Cost < 0 {
		return &MalformedItemError{ID: i.ID, Field: "cost", Reason: "negative"}
	}
	if i.Stock != nil && *i.Stock < 0 {
		return &MalformedItemError{ID: i.ID, Field: "stock", Reason: "negative"}
	}
	return nil
}

// MalformedItemError reports an upstream item that lacks data needed for
// display. It is a contract violation by the data source, not a user error.
type MalformedItemError struct {
	ID     ItemID
	Field  string
	Reason string
}

func (e *MalformedItemError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "missing"
	}
	return fmt.Sprintf("malformed item %s: %s %s", e.ID, e.Field, reason)
}

// StockState classifies an item's stock for display.
type StockState int

const (
	StockUnlimited StockState = iota
	StockOut
	StockAvailable
)

// StockState reports the item's stock classification.
func (i *Item) StockState() StockState {
	switch {
	case i.Stock == nil:
		return StockUnlimited
	case *i.Stock == 0:
		return StockOut
	default:
		return StockAvailable
	}
}
