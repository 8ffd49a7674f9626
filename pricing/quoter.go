package pricing

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Quote is a unit price for one part.
type Quote struct {
	Price    float64
	Currency string
	Seller   string
}

// Quoter looks up the single-unit price of a part.
// Implementations return ErrNoQuote when they know no price for it.
type Quoter interface {
	Quote(ctx context.Context, manufacturer, mpn string) (Quote, error)
}

// priceEntry is one row of a price list.
type priceEntry struct {
	manufacturer string
	quote        Quote
}

// TableQuoter answers quotes from an in-memory price list.
type TableQuoter struct {
	entries map[string][]priceEntry
}

var _ Quoter = (*TableQuoter)(nil)

// ReadPriceList parses a CSV price list.
//
// The header must name at least mpn and price; manufacturer, currency,
// quantity and seller are optional. Rows with a quantity above 1
// are price breaks for volume orders and are skipped. When several rows
// quote the same mpn the cheapest wins.
func ReadPriceList(r io.Reader) (*TableQuoter, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPriceList, err)
	}
	index := make(map[string]int)
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"mpn", "price"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%w: missing %q column", ErrInvalidPriceList, required)
		}
	}

	cell := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	q := &TableQuoter{entries: make(map[string][]priceEntry)}
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPriceList, err)
		}
		line++

		mpn := strings.ToLower(cell(row, "mpn"))
		if mpn == "" {
			continue
		}
		if qty := cell(row, "quantity"); qty != "" {
			n, err := strconv.ParseFloat(qty, 64)
			if err != nil || n > 1 {
				continue
			}
		}
		price, err := strconv.ParseFloat(cell(row, "price"), 64)
		if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
			return nil, fmt.Errorf("%w: line %d: bad price %q", ErrInvalidPriceList, line, cell(row, "price"))
		}
		q.entries[mpn] = append(q.entries[mpn], priceEntry{
			manufacturer: strings.ToLower(cell(row, "manufacturer")),
			quote: Quote{
				Price:    price,
				Currency: strings.ToUpper(cell(row, "currency")),
				Seller:   cell(row, "seller"),
			},
		})
	}
	return q, nil
}

// LoadPriceList reads a CSV price list from disk.
func LoadPriceList(path string) (*TableQuoter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPriceList, err)
	}
	defer f.Close()
	return ReadPriceList(f)
}

// Len returns the number of distinct quoted mpns.
func (q *TableQuoter) Len() int {
	return len(q.entries)
}

// Quote returns the cheapest listed price for mpn. Entries whose
// manufacturer matches are preferred over the rest.
func (q *TableQuoter) Quote(ctx context.Context, manufacturer, mpn string) (Quote, error) {
	if err := ctx.Err(); err != nil {
		return Quote{}, err
	}
	entries := q.entries[strings.ToLower(strings.TrimSpace(mpn))]
	if len(entries) == 0 {
		return Quote{}, ErrNoQuote
	}

	manufacturer = strings.ToLower(strings.TrimSpace(manufacturer))
	best, found := Quote{}, false
	bestMatches := false
	for _, e := range entries {
		matches := manufacturer != "" && e.manufacturer == manufacturer
		switch {
		case !found,
			matches && !bestMatches,
			matches == bestMatches && e.quote.Price < best.Price:
			best, found, bestMatches = e.quote, true, matches
		}
	}
	return best, nil
}
