package sync

import (
	"context"
	"fmt"
	"time"
)

// ResolveWatermarks inspects a market's table and returns its newest and
// oldest stored timestamps. An empty table collapses both watermarks to
// now (seconds precision) and flags the pair, so the planner produces a
// forward window starting immediately and a degenerate backward window
// instead of attempting an unbounded historical fetch.
//
// Query errors propagate: without known bounds the market must be
// abandoned for this run rather than risk writing rows blindly.
func ResolveWatermarks(ctx context.Context, store RowStore, table string, now time.Time) (Watermarks, error) {
	bounds, err := store.MinMaxTime(ctx, table)
	if err != nil {
		return Watermarks{}, fmt.Errorf("query time bounds of %s: %w", table, err)
	}
	if bounds == nil {
		ts := now.Unix()
		return Watermarks{Newest: ts, Oldest: ts, Empty: true}, nil
	}
	return Watermarks{Newest: bounds.Max, Oldest: bounds.Min}, nil
}
