package render

import (
	"strconv"
	"strings"

	"github.com/vanderheijden86/flavortown/pkg/model"
)

// DisplayType strips a namespace prefix such as "ShopItem::" from a type.
func DisplayType(itemType string) string {
	if i := strings.LastIndex(itemType, "::"); i >= 0 {
		return itemType[i+2:]
	}
	return itemType
}

// CostLabel formats an item's cost, or "N/A" when absent.
func CostLabel(item *model.Item) string {
	if item.Cost == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*item.Cost, 'f', -1, 64)
}

// StockLabel formats an item's stock state.
func StockLabel(item *model.Item) string {
	switch item.StockState() {
	case model.StockUnlimited:
		return "Unlimited"
	case model.StockOut:
		return "Out of Stock"
	default:
		return strconv.Itoa(*item.Stock)
	}
}
