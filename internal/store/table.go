package store

import (
	"regexp"
	"strings"
)

const tableSuffix = "_candlesticks"

var unsafeChars = regexp.MustCompile(`[^a-z0-9]+`)

// TableName derives the candle table name for a market identifier:
// lower-cased, unsafe characters folded to underscores, prefixed and
// suffixed. "BTC-USD" with prefix "gdax" becomes
// "gdax_btc_usd_candlesticks". Deterministic so re-runs always address
// the same table.
func TableName(prefix, market string) string {
	m := unsafeChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(market)), "_")
	m = strings.Trim(m, "_")
	return prefix + "_" + m + tableSuffix
}
