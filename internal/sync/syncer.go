package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
)

const (
	// DefaultHorizon is the span of each fetch window: 3 hours.
	DefaultHorizon int64 = 10800
	// DefaultGranularity is the candle sampling interval: 60 seconds.
	DefaultGranularity int64 = 60
	// DefaultThrottle is the flat pause between successive upstream calls.
	DefaultThrottle = time.Second
)

// ErrCatalogUnavailable marks a run aborted because the market catalog
// could not be retrieved.
var ErrCatalogUnavailable = errors.New("sync: market catalog unavailable")

// Config carries the fixed constants of the fetch/merge loop.
type Config struct {
	// Horizon is the time span in seconds requested per fetch window.
	Horizon int64
	// Granularity is the candle interval in seconds.
	Granularity int64
	// Throttle is the flat delay between upstream calls. Not a backoff.
	Throttle time.Duration
}

func (c *Config) applyDefaults() {
	if c.Horizon <= 0 {
		c.Horizon = DefaultHorizon
	}
	if c.Granularity <= 0 {
		c.Granularity = DefaultGranularity
	}
	if c.Throttle == 0 {
		c.Throttle = DefaultThrottle
	} else if c.Throttle < 0 {
		// Negative disables the throttle (tests, local stores).
		c.Throttle = 0
	}
}

// Syncer walks the market catalog and brings each market's candle table
// current: resolve watermarks, plan windows, fetch, merge, report.
// Markets are processed strictly sequentially.
type Syncer struct {
	catalog Catalog
	rates   RateSource
	store   RowStore
	sink    ProgressSink
	cfg     Config
	now     func() time.Time
}

// SyncerOption customises a Syncer.
type SyncerOption func(*Syncer)

// WithClock injects the wall-clock source used for cold-start watermarks.
func WithClock(now func() time.Time) SyncerOption {
	return func(s *Syncer) {
		if now != nil {
			s.now = now
		}
	}
}

// New wires a Syncer. Catalog, rate source and store are mandatory; the
// progress sink may be nil, in which case reporting is skipped.
func New(catalog Catalog, rates RateSource, store RowStore, sink ProgressSink, cfg Config, opts ...SyncerOption) (*Syncer, error) {
	if catalog == nil {
		return nil, errors.New("sync: missing catalog dependency")
	}
	if rates == nil {
		return nil, errors.New("sync: missing rate source dependency")
	}
	if store == nil {
		return nil, errors.New("sync: missing row store dependency")
	}
	cfg.applyDefaults()
	s := &Syncer{
		catalog: catalog,
		rates:   rates,
		store:   store,
		sink:    sink,
		cfg:     cfg,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run executes one full catalog pass. Only catalog unavailability (or
// context cancellation) fails the run; every other failure is scoped to a
// market, window or row and recorded in the report.
func (s *Syncer) Run(ctx context.Context) (*RunReport, error) {
	report := &RunReport{StartedAt: s.now().UTC()}

	markets, err := s.catalog.Markets(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	logx.WithContext(ctx).Infof("sync: run started markets=%d horizon=%ds granularity=%ds", len(markets), s.cfg.Horizon, s.cfg.Granularity)

	for i, market := range markets {
		if ctx.Err() != nil {
			report.FinishedAt = s.now().UTC()
			return report, ctx.Err()
		}
		result := s.syncMarket(ctx, market)
		if result.Err != nil {
			logx.WithContext(ctx).Errorf("sync: market abandoned market=%s table=%s err=%v", result.Market, result.Table, result.Err)
		}
		report.Results = append(report.Results, result)

		if i < len(markets)-1 && !s.pause(ctx) {
			report.FinishedAt = s.now().UTC()
			return report, ctx.Err()
		}
	}

	report.FinishedAt = s.now().UTC()
	logx.WithContext(ctx).Infof("sync: run finished markets=%d failed=%d rows_added=%d", len(report.Results), report.Failed(), report.RowsAdded())
	return report, nil
}

// syncMarket drives one market through the per-run sequence:
// Provision → ResolveWatermarks → PlanWindows → fetch/merge forward →
// fetch/merge backward → Report.
func (s *Syncer) syncMarket(ctx context.Context, market string) MarketResult {
	table := s.store.TableFor(market)
	res := MarketResult{Market: market, Table: table}

	if err := s.store.EnsureTable(ctx, table); err != nil {
		res.Err = fmt.Errorf("provision table: %w", err)
		return res
	}

	initial, err := s.store.RowCount(ctx, table)
	if err != nil {
		res.Err = fmt.Errorf("initial row count: %w", err)
		return res
	}

	wm, err := ResolveWatermarks(ctx, s.store, table, s.now())
	if err != nil {
		res.Err = fmt.Errorf("resolve watermarks: %w", err)
		return res
	}

	plan := PlanWindows(wm, s.cfg.Horizon)
	res.Forward, res.Backward = plan.Forward, plan.Backward

	fetched, written := s.fetchMerge(ctx, market, table, plan.Forward, "forward")
	res.FetchedForward = fetched
	res.RowsWritten += written

	if !s.pause(ctx) {
		res.Err = ctx.Err()
		return res
	}

	fetched, written = s.fetchMerge(ctx, market, table, plan.Backward, "backward")
	res.FetchedBackward = fetched
	res.RowsWritten += written

	total, err := s.store.RowCount(ctx, table)
	if err != nil {
		res.Err = fmt.Errorf("final row count: %w", err)
		return res
	}

	rec := ProgressRecord{
		Market:   market,
		Table:    table,
		RowCount: total,
		// May be negative if rows were deleted externally between runs;
		// reported as-is.
		RowsAdded: total - initial,
	}
	res.Progress = &rec
	logx.WithContext(ctx).Infof("sync: market done market=%s table=%s rows=%d added=%d", market, table, rec.RowCount, rec.RowsAdded)

	if s.sink != nil {
		if err := s.sink.Publish(ctx, rec); err != nil {
			logx.WithContext(ctx).Errorf("sync: publish progress market=%s table=%s err=%v", market, table, err)
		}
	}
	return res
}

// fetchMerge fetches one window and merges it. Upstream failures degrade
// to zero rows so one market's transient failure never blocks the rest of
// the run; merge failures are logged and leave whatever rows did land.
func (s *Syncer) fetchMerge(ctx context.Context, market, table string, w Window, direction string) (fetched, written int) {
	candles, err := s.rates.HistoricRates(ctx, market, w.Start, w.End, s.cfg.Granularity)
	if err != nil {
		logx.WithContext(ctx).Errorf("sync: fetch %s window market=%s start=%d end=%d err=%v", direction, market, w.Start, w.End, err)
		return 0, 0
	}
	if len(candles) == 0 {
		return 0, 0
	}

	n, err := s.store.Upsert(ctx, table, candles)
	if err != nil {
		logx.WithContext(ctx).Errorf("sync: merge %s window table=%s rows=%d err=%v", direction, table, len(candles), err)
	}
	return len(candles), n
}

// pause applies the flat inter-call throttle. Returns false when the
// context was cancelled during the wait.
func (s *Syncer) pause(ctx context.Context) bool {
	if s.cfg.Throttle <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(s.cfg.Throttle)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
