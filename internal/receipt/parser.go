// Package receipt turns receipt text into line items.
package receipt

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplit/internal/models"
)

// pricePattern matches the first amount on a line, e.g. "$10.99", "10.99", "12".
var pricePattern = regexp.MustCompile(`\$?\d+\.?\d*`)

// ParseText extracts one item per line that contains an amount. The first
// amount on the line is the price and the rest of the line, trimmed, is the
// name. Lines without a name are skipped. Items have quantity 1 and no
// assignments.
func ParseText(text string) []models.LineItem {
	items := []models.LineItem{}
	for _, line := range strings.Split(text, "\n") {
		item, ok := parseLine(line)
		if ok {
			items = append(items, item)
		}
	}
	return items
}

func parseLine(line string) (models.LineItem, bool) {
	match := pricePattern.FindString(line)
	if match == "" {
		return models.LineItem{}, false
	}

	price, err := decimal.NewFromString(strings.TrimSuffix(strings.TrimPrefix(match, "$"), "."))
	if err != nil {
		return models.LineItem{}, false
	}

	name := strings.TrimSpace(strings.ReplaceAll(line, match, ""))
	if name == "" {
		return models.LineItem{}, false
	}

	return models.LineItem{
		Name:       name,
		Price:      price.InexactFloat64(),
		Quantity:   1,
		AssignedTo: []string{},
	}, true
}
