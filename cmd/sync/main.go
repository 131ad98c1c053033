package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"candlesync/internal/cli"
	"candlesync/internal/config"
	"candlesync/internal/svc"
	syncpkg "candlesync/internal/sync"
	"candlesync/pkg/journal"
)

var (
	configFile = flag.String("f", "etc/candlesync.yaml", "the config file")
	runOnce    = flag.Bool("once", false, "run a single sync pass and exit")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Println("[main] Starting candle sync...")

	cfg := config.MustLoad(*configFile)
	log.Printf("[main] Configuration loaded:")
	for _, line := range cli.ConfigSummaryLines(cfg) {
		log.Printf("  - %s", line)
	}

	svcCtx, err := svc.NewServiceContext(*cfg)
	if err != nil {
		log.Fatalf("[main] Failed to build service context: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *runOnce {
		if !runSync(ctx, svcCtx) {
			os.Exit(1)
		}
		return
	}

	interval := time.Duration(cfg.Sync.IntervalSeconds) * time.Second
	log.Printf("[main] Sync loop started, interval=%s. Press Ctrl+C to stop.", interval)

	// Run once immediately on startup.
	runSync(ctx, svcCtx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("[main] Shutdown signal received, stopping")
			return
		case <-ticker.C:
			runSync(ctx, svcCtx)
		}
	}
}

// runSync executes one catalog pass and journals the outcome. Returns
// false when the run failed outright (catalog unavailable or cancelled).
func runSync(ctx context.Context, svcCtx *svc.ServiceContext) bool {
	if ctx.Err() != nil {
		return false
	}

	start := time.Now()
	report, err := svcCtx.Syncer.Run(ctx)
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Printf("[sync] [WARN] run interrupted after %s", elapsed.Round(time.Millisecond))
		} else {
			log.Printf("[sync] [ERROR] %v, took %s", err, elapsed.Round(time.Millisecond))
		}
		writeJournal(svcCtx, report, elapsed)
		return false
	}

	log.Printf("[sync] [OK] markets=%d failed=%d rows_added=%d, took %s",
		len(report.Results), report.Failed(), report.RowsAdded(), elapsed.Round(time.Millisecond))
	writeJournal(svcCtx, report, elapsed)
	return true
}

func writeJournal(svcCtx *svc.ServiceContext, report *syncpkg.RunReport, elapsed time.Duration) {
	if svcCtx.Journal == nil || report == nil {
		return
	}

	rec := &journal.RunRecord{
		Timestamp:  report.StartedAt,
		Markets:    len(report.Results),
		Failed:     report.Failed(),
		RowsAdded:  report.RowsAdded(),
		DurationMs: elapsed.Milliseconds(),
		RowCounts:  make(map[string]int64, len(report.Results)),
	}
	for _, res := range report.Results {
		if res.Progress != nil {
			rec.RowCounts[res.Table] = res.Progress.RowCount
		}
		if res.Err != nil {
			rec.Errors = append(rec.Errors, res.Market+": "+res.Err.Error())
		}
	}
	if path, err := svcCtx.Journal.WriteRun(rec); err != nil {
		log.Printf("[sync] [WARN] journal write failed: %v", err)
	} else {
		log.Printf("[sync] journal written: %s", path)
	}
}
