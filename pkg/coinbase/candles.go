package coinbase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"
)

// Candle is one OHLCV bucket. The API encodes each bucket as the array
// [ time, low, high, open, close, volume ] with time in epoch seconds.
type Candle struct {
	Time   int64
	Low    float64
	High   float64
	Open   float64
	Close  float64
	Volume float64
}

// UnmarshalJSON decodes the wire-format array into the struct.
func (c *Candle) UnmarshalJSON(data []byte) error {
	var fields []float64
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("coinbase: decode candle: %w", err)
	}
	if len(fields) < 6 {
		return fmt.Errorf("coinbase: candle has %d fields, want 6", len(fields))
	}
	c.Time = int64(fields[0])
	c.Low = fields[1]
	c.High = fields[2]
	c.Open = fields[3]
	c.Close = fields[4]
	c.Volume = fields[5]
	return nil
}

// HistoricRates fetches OHLCV buckets for a product between start and end
// (epoch seconds, end exclusive at bucket resolution) at the given
// granularity in seconds. Buckets are returned in ascending time order.
// Windows beyond the product's history, or entirely in the future, simply
// come back sparse or empty.
func (c *Client) HistoricRates(ctx context.Context, productID string, start, end int64, granularity int64) ([]Candle, error) {
	if productID == "" {
		return nil, fmt.Errorf("coinbase: product id required")
	}
	if granularity <= 0 {
		return nil, fmt.Errorf("coinbase: granularity must be positive")
	}

	query := url.Values{}
	query.Set("start", time.Unix(start, 0).UTC().Format(time.RFC3339))
	query.Set("end", time.Unix(end, 0).UTC().Format(time.RFC3339))
	query.Set("granularity", strconv.FormatInt(granularity, 10))

	var candles []Candle
	if err := c.getJSON(ctx, "/products/"+url.PathEscape(productID)+"/candles", query, &candles); err != nil {
		return nil, err
	}

	// The API answers newest-first.
	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Time < candles[j].Time
	})
	return candles, nil
}
