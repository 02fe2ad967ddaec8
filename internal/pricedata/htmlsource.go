package pricedata

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/marovole/HearthBulter-sub010/internal/model"
)

// ParseOrderHistory extracts price points from an exported platform
// order-history page. Platforms export these as a table:
//
//	<table class="order-history" data-platform="freshmart">
//	  <tr><td class="date">2026-08-01</td><td class="item">rice</td>
//	      <td class="price">12.50</td><td class="unit-price">2.50</td></tr>
//	</table>
//
// Rows that fail to parse are logged and skipped; a page with no usable
// rows is an error.
func ParseOrderHistory(r io.Reader) ([]model.PricePoint, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse order history: %w", err)
	}

	var points []model.PricePoint
	doc.Find("table.order-history").Each(func(i int, table *goquery.Selection) {
		platform := strings.TrimSpace(table.AttrOr("data-platform", ""))
		if platform == "" {
			log.Printf("order history: table %d has no data-platform attribute, skipping", i)
			return
		}

		table.Find("tr").Each(func(j int, row *goquery.Selection) {
			if row.Find("td").Length() == 0 {
				return // header row
			}
			point, err := parseOrderRow(row, platform)
			if err != nil {
				log.Printf("order history: %s row %d: %v", platform, j, err)
				return
			}
			points = append(points, point)
		})
	})

	if len(points) == 0 {
		return nil, fmt.Errorf("parse order history: no usable rows")
	}
	return points, nil
}

// ParseOrderHistoryFile is ParseOrderHistory over a saved export file.
func ParseOrderHistoryFile(path string) ([]model.PricePoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open order history: %w", err)
	}
	defer f.Close()
	return ParseOrderHistory(f)
}

func parseOrderRow(row *goquery.Selection, platform string) (model.PricePoint, error) {
	text := func(selector string) string {
		return strings.TrimSpace(row.Find(selector).First().Text())
	}

	itemID := text("td.item")
	if itemID == "" {
		return model.PricePoint{}, fmt.Errorf("missing item cell")
	}

	date, err := time.Parse("2006-01-02", text("td.date"))
	if err != nil {
		return model.PricePoint{}, fmt.Errorf("bad date: %w", err)
	}

	price, err := parseMoney(text("td.price"))
	if err != nil {
		return model.PricePoint{}, fmt.Errorf("bad price: %w", err)
	}

	unitText := text("td.unit-price")
	unitPrice := price
	if unitText != "" {
		unitPrice, err = parseMoney(unitText)
		if err != nil {
			return model.PricePoint{}, fmt.Errorf("bad unit price: %w", err)
		}
	}

	return model.PricePoint{
		ItemID:    itemID,
		Date:      date,
		Price:     price,
		UnitPrice: unitPrice,
		Platform:  platform,
		Valid:     unitPrice > 0,
	}, nil
}

func parseMoney(s string) (float64, error) {
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	return strconv.ParseFloat(s, 64)
}
