package sync

import "time"

// Candle is one fixed-granularity OHLCV row. Time is epoch seconds and is
// the natural key within a market's table.
type Candle struct {
	Time   int64
	Low    float64
	High   float64
	Open   float64
	Close  float64
	Volume float64
}

// TimeRange is the inclusive [Min, Max] span of timestamps stored for a
// market. A nil TimeRange from the store means the table is empty.
type TimeRange struct {
	Min int64
	Max int64
}

// Watermarks is the (newest, oldest) timestamp pair for a market,
// recomputed from store state on every run. Empty records the cold-start
// collapse where both values are the current wall-clock time.
type Watermarks struct {
	Newest int64
	Oldest int64
	Empty  bool
}

// Window bounds one upstream fetch in epoch seconds.
type Window struct {
	Start int64
	End   int64
}

// Width returns the window span in seconds.
func (w Window) Width() int64 {
	return w.End - w.Start
}

// WindowPlan holds the forward and backward fetch windows for one run.
type WindowPlan struct {
	Forward  Window
	Backward Window
}

// ProgressRecord is the per-market status forwarded to the reporting sink
// after merging. It is a pure function of store state.
type ProgressRecord struct {
	Market    string `json:"market"`
	Table     string `json:"table"`
	RowCount  int64  `json:"row_count"`
	RowsAdded int64  `json:"rows_added"`
}

// MarketResult is the terminal state of one market's sync sequence.
// Err is set when the market was abandoned (provision or watermark
// failure); fetch failures degrade to zero rows and leave Err nil.
type MarketResult struct {
	Market          string
	Table           string
	Forward         Window
	Backward        Window
	FetchedForward  int
	FetchedBackward int
	RowsWritten     int
	Progress        *ProgressRecord
	Err             error
}

// RunReport summarises a full catalog pass. Partial success is the normal
// terminal state: individual market failures are recorded in Results, not
// surfaced as a run error.
type RunReport struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []MarketResult
}

// Failed returns the number of abandoned markets.
func (r *RunReport) Failed() int {
	n := 0
	for i := range r.Results {
		if r.Results[i].Err != nil {
			n++
		}
	}
	return n
}

// RowsAdded totals the rows-added deltas across all reported markets.
func (r *RunReport) RowsAdded() int64 {
	var total int64
	for i := range r.Results {
		if r.Results[i].Progress != nil {
			total += r.Results[i].Progress.RowsAdded
		}
	}
	return total
}
