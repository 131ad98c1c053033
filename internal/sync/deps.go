package sync

import "context"

// Catalog lists the tradable market identifiers currently offered by the
// exchange. A failure here aborts the whole run: there is no work to plan.
type Catalog interface {
	Markets(ctx context.Context) ([]string, error)
}

// RateSource fetches historic OHLCV rows for a market and time window at a
// fixed granularity (seconds per candle). Sparse or empty results inside
// the window are expected and acceptable.
type RateSource interface {
	HistoricRates(ctx context.Context, market string, start, end, granularity int64) ([]Candle, error)
}

// RowStore is the durable per-market candle table capability. Table names
// are a deterministic function of the market identifier so re-runs always
// address the same table.
type RowStore interface {
	// TableFor derives the table name for a market.
	TableFor(market string) string
	// EnsureTable creates the candle table if it does not exist.
	EnsureTable(ctx context.Context, table string) error
	// MinMaxTime returns the stored timestamp extrema, or nil when the
	// table is empty. Must be index-backed, not a scan.
	MinMaxTime(ctx context.Context, table string) (*TimeRange, error)
	// Upsert merges rows keyed by timestamp (insert-or-replace). Rows that
	// individually fail are skipped, not fatal to the batch; the returned
	// count is the rows actually written.
	Upsert(ctx context.Context, table string, rows []Candle) (int, error)
	// RowCount returns the current total row count.
	RowCount(ctx context.Context, table string) (int64, error)
}

// ProgressSink receives per-market progress records. Publishing is
// best-effort: sink failures never affect sync correctness.
type ProgressSink interface {
	Publish(ctx context.Context, rec ProgressRecord) error
}
