package render

import (
	"bufio"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/flavortown/pkg/model"
)

// IndentWidth is the number of columns each nesting level adds.
const IndentWidth = 6

// IDWidth is the minimum width of the id column.
const IDWidth = 3

// WriteText writes the forest as styled text. Each root's subtree is
// followed by a blank line.
func WriteText(w io.Writer, entries []Entry, s Styles) error {
	bw := bufio.NewWriter(w)
	for i, e := range entries {
		writeEntry(bw, e, s)
		last := i == len(entries)-1
		if last || entries[i+1].Depth == 0 {
			bw.WriteString("\n")
		}
	}
	return bw.Flush()
}

func writeEntry(w *bufio.Writer, e Entry, s Styles) {
	item := e.Item
	prefix := strings.Repeat(" ", e.Depth*IndentWidth)
	detail := prefix + "    "

	header := prefix + s.ID.Render(runewidth.FillRight(item.ID.String(), IDWidth)) + " " + s.Name.Render(item.Name)
	if t := DisplayType(item.Type); t != "" {
		header += " " + s.Type.Render("["+t+"]")
	}
	w.WriteString(header + "\n")

	w.WriteString(detail + s.Description.Render(item.DescriptionOr("No description")) + "\n")
	w.WriteString(detail + "Cost: " + s.Cost.Render(CostLabel(item)) + " tickets | Stock: " + StockText(item, s) + "\n")
	if item.Limited {
		w.WriteString(detail + s.Danger.Render("⚠ Limited Edition") + "\n")
	}
	if e.HasChildren {
		w.WriteString(detail + s.Dim.Render("↳ Upgrades/Options:") + "\n")
	}
}

// StockText styles the stock label of item.
func StockText(item *model.Item, s Styles) string {
	label := StockLabel(item)
	switch item.StockState() {
	case model.StockUnlimited:
		return s.Dim.Render(label)
	case model.StockOut:
		return s.Danger.Render(label)
	default:
		return label
	}
}
