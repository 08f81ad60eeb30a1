// Package filter selects and orders the items shown by store listings.
// It never modifies the catalog it reads from.
package filter

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/vanderheijden86/flavortown/pkg/metrics"
	"github.com/vanderheijden86/flavortown/pkg/model"
)

// SortMode selects the item ordering.
type SortMode string

const (
	SortCostAsc  SortMode = "price-asc"
	SortCostDesc SortMode = "price-desc"
	SortName     SortMode = "name"
)

// DefaultSortMode is used when no mode is given.
const DefaultSortMode = SortCostAsc

// SortModes lists the accepted sort modes in help order.
var SortModes = []SortMode{SortCostAsc, SortCostDesc, SortName}

// ParseSortMode validates a user-supplied sort mode. Empty means default.
func ParseSortMode(s string) (SortMode, error) {
	mode := SortMode(strings.ToLower(strings.TrimSpace(s)))
	if mode == "" {
		return DefaultSortMode, nil
	}
	if slices.Contains(SortModes, mode) {
		return mode, nil
	}
	return "", fmt.Errorf("invalid sort mode %q (expected price-asc|price-desc|name)", s)
}

// Comparator orders two items. It is reused for sibling ordering when
// rendering, so it must be deterministic.
type Comparator func(a, b *model.Item) int

// ComparatorFor returns the comparator for mode. Unknown modes fall back to
// ascending cost.
func ComparatorFor(mode SortMode) Comparator {
	switch mode {
	case SortCostDesc:
		return func(a, b *model.Item) int {
			return cmp.Compare(b.CostValue(), a.CostValue())
		}
	case SortName:
		col := collate.New(language.Und)
		return func(a, b *model.Item) int {
			return col.CompareString(a.Name, b.Name)
		}
	default:
		return func(a, b *model.Item) int {
			return cmp.Compare(a.CostValue(), b.CostValue())
		}
	}
}

// Sort stably sorts items in place; equal items keep their input order.
func (c Comparator) Sort(items []*model.Item) {
	slices.SortStableFunc(items, c)
}

// Options configures Select.
type Options struct {
	// Search matches name or description, case-insensitively.
	Search string
	// Type matches the full type string, case-insensitively.
	Type string
	Sort SortMode
}

// Matches reports whether item passes the search and type filters.
func (o Options) Matches(item *model.Item) bool {
	if o.Search != "" {
		q := strings.ToLower(o.Search)
		inName := strings.Contains(strings.ToLower(item.Name), q)
		inDesc := item.Description != nil && strings.Contains(strings.ToLower(*item.Description), q)
		if !inName && !inDesc {
			return false
		}
	}
	if o.Type != "" && !strings.EqualFold(item.Type, o.Type) {
		return false
	}
	return true
}

// Select returns a new slice with the items that match opts, ordered by by.
// A nil comparator means ComparatorFor(opts.Sort). An empty result is not an
// error.
func Select(items []*model.Item, opts Options, by Comparator) []*model.Item {
	defer metrics.Timer(metrics.Select)()

	out := make([]*model.Item, 0, len(items))
	for _, item := range items {
		if opts.Matches(item) {
			out = append(out, item)
		}
	}
	if by == nil {
		by = ComparatorFor(opts.Sort)
	}
	by.Sort(out)
	return out
}
