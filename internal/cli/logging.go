package cli

import (
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"candlesync/internal/config"
)

// ConfigSummaryLines returns human readable lines describing the loaded
// app config.
func ConfigSummaryLines(cfg *config.Config) []string {
	if cfg == nil {
		return []string{"Configuration: <nil>"}
	}

	return []string{
		fmt.Sprintf("Environment: %s", cfg.Env),
		fmt.Sprintf("Store: driver=%s dsn=%s", cfg.Store.Driver, presence(strings.TrimSpace(cfg.Store.DSN) != "")),
		fmt.Sprintf("Redis: %s", presence(cfg.HasRedis())),
		fmt.Sprintf("TTL (short/medium/long): %ds / %ds / %ds", cfg.TTL.Short, cfg.TTL.Medium, cfg.TTL.Long),
		fmt.Sprintf("Sync: horizon=%ds granularity=%ds throttle=%dms interval=%ds prefix=%s",
			cfg.Sync.HorizonSeconds, cfg.Sync.GranularitySeconds, cfg.Sync.ThrottleMs, cfg.Sync.IntervalSeconds, cfg.Sync.TablePrefix),
		fmt.Sprintf("Journal: %s", presence(strings.TrimSpace(cfg.Sync.JournalDir) != "")),
		exchangeLine(cfg),
	}
}

// LogConfigSummary emits the configuration summary using logx.
func LogConfigSummary(cfg *config.Config) {
	lines := ConfigSummaryLines(cfg)
	if len(lines) == 0 {
		return
	}
	logx.Info("configuration summary")
	for _, line := range lines {
		logx.Infof("config • %s", line)
	}
}

func presence(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func exchangeLine(cfg *config.Config) string {
	switch {
	case strings.TrimSpace(cfg.Exchange.File) != "":
		return fmt.Sprintf("Exchange config: %s", cfg.Exchange.File)
	case cfg.Exchange.Value != nil:
		return "Exchange config: inline"
	default:
		return "Exchange config: defaults"
	}
}
