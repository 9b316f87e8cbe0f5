package receipt

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mmynk/billsplit/internal/models"
)

// blockSelector lists the elements that make up one line of an e-receipt.
const blockSelector = "tr, li, p, h1, h2, h3, h4, h5, h6, div:not(:has(div, p, table, ul, ol, h1, h2, h3, h4, h5, h6))"

// ExtractHTMLText reduces an HTML e-receipt to text, one line per table row
// or block element. Cells of a row are joined with a space.
func ExtractHTMLText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	// Remove noise
	doc.Find("script, style, head, nav, footer, iframe").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	var lines []string
	doc.Find(blockSelector).Each(func(i int, s *goquery.Selection) {
		// Rows and list items own their whole content; the innermost one wins.
		if s.Find("tr, li").Length() > 0 {
			return
		}
		name := goquery.NodeName(s)
		if name != "tr" && name != "li" && s.ParentsFiltered("tr, li").Length() > 0 {
			return
		}
		var line string
		if name == "tr" {
			var cells []string
			s.Find("td, th").Each(func(_ int, c *goquery.Selection) {
				if text := collapse(c.Text()); text != "" {
					cells = append(cells, text)
				}
			})
			line = strings.Join(cells, " ")
		} else {
			line = collapse(s.Text())
		}
		if line != "" {
			lines = append(lines, line)
		}
	})

	return strings.Join(lines, "\n"), nil
}

// ParseHTML extracts line items from an HTML e-receipt.
func ParseHTML(r io.Reader) ([]models.LineItem, error) {
	text, err := ExtractHTMLText(r)
	if err != nil {
		return nil, err
	}
	return ParseText(text), nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
