package coinbase

import (
	"context"
	"sort"
	"strings"
)

// Product is a tradable market listed on the exchange.
type Product struct {
	ID            string `json:"id"`
	BaseCurrency  string `json:"base_currency"`
	QuoteCurrency string `json:"quote_currency"`
	Status        string `json:"status"`
}

// ListProducts fetches the current product catalog.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.getJSON(ctx, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Markets returns the catalog as an ordered list of market identifiers
// (product IDs such as "BTC-USD").
func (c *Client) Markets(ctx context.Context) ([]string, error) {
	products, err := c.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	markets := make([]string, 0, len(products))
	for _, p := range products {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			continue
		}
		markets = append(markets, id)
	}
	sort.Strings(markets)
	return markets, nil
}
