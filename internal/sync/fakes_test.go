package sync

import (
	"context"
	"errors"
	"strings"
)

// In-memory collaborators for syncer tests.

type fakeCatalog struct {
	markets []string
	err     error
}

func (f *fakeCatalog) Markets(ctx context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.markets, nil
}

// fakeRates answers fetches from a per-market function so tests can shape
// responses by window or inject failures.
type fakeRates struct {
	fetch func(market string, w Window) ([]Candle, error)
	calls []fetchCall
}

type fetchCall struct {
	Market string
	Window Window
}

func (f *fakeRates) HistoricRates(ctx context.Context, market string, start, end, granularity int64) ([]Candle, error) {
	w := Window{Start: start, End: end}
	f.calls = append(f.calls, fetchCall{Market: market, Window: w})
	if f.fetch == nil {
		return nil, nil
	}
	return f.fetch(market, w)
}

// memStore is a map-backed RowStore honoring the timestamp-unique
// invariant, with injectable per-table query failures.
type memStore struct {
	tables    map[string]map[int64]Candle
	boundsErr map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		tables:    make(map[string]map[int64]Candle),
		boundsErr: make(map[string]error),
	}
}

func (m *memStore) TableFor(market string) string {
	return "gdax_" + strings.ReplaceAll(strings.ToLower(market), "-", "_") + "_candlesticks"
}

func (m *memStore) EnsureTable(ctx context.Context, table string) error {
	if _, ok := m.tables[table]; !ok {
		m.tables[table] = make(map[int64]Candle)
	}
	return nil
}

func (m *memStore) MinMaxTime(ctx context.Context, table string) (*TimeRange, error) {
	if err := m.boundsErr[table]; err != nil {
		return nil, err
	}
	rows, ok := m.tables[table]
	if !ok || len(rows) == 0 {
		return nil, nil
	}
	var tr TimeRange
	first := true
	for ts := range rows {
		if first {
			tr.Min, tr.Max = ts, ts
			first = false
			continue
		}
		if ts < tr.Min {
			tr.Min = ts
		}
		if ts > tr.Max {
			tr.Max = ts
		}
	}
	return &tr, nil
}

func (m *memStore) Upsert(ctx context.Context, table string, rows []Candle) (int, error) {
	t, ok := m.tables[table]
	if !ok {
		return 0, errors.New("no such table " + table)
	}
	for _, row := range rows {
		t[row.Time] = row
	}
	return len(rows), nil
}

func (m *memStore) RowCount(ctx context.Context, table string) (int64, error) {
	t, ok := m.tables[table]
	if !ok {
		return 0, errors.New("no such table " + table)
	}
	return int64(len(t)), nil
}

type fakeSink struct {
	records []ProgressRecord
	err     error
}

func (f *fakeSink) Publish(ctx context.Context, rec ProgressRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, rec)
	return nil
}
