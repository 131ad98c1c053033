package cache

import (
	"strings"
	"time"

	"candlesync/internal/config"
)

// Namespace is the Redis key prefix for the candlesync application.
const Namespace = "candlesync"

// TTLSet normalises dashboard TTLs from config into durations.
type TTLSet struct {
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

// NewTTLSet converts config TTLs (in seconds) into durations.
func NewTTLSet(cfg config.CacheTTL) TTLSet {
	return TTLSet{
		Short:  durationOrDefault(cfg.Short, 10*time.Second),
		Medium: durationOrDefault(cfg.Medium, time.Minute),
		Long:   durationOrDefault(cfg.Long, 5*time.Minute),
	}
}

func durationOrDefault(seconds int, fallback time.Duration) time.Duration {
	if seconds < 0 {
		return 0
	}
	if seconds == 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

// ProgressTTL is how long a per-table dashboard payload stays fresh.
func ProgressTTL(t TTLSet) time.Duration {
	return t.Long
}

func formatKey(parts ...string) string {
	values := make([]string, 0, len(parts)+1)
	values = append(values, Namespace)
	for _, part := range parts {
		clean := strings.TrimSpace(part)
		if clean == "" {
			continue
		}
		values = append(values, clean)
	}
	return strings.Join(values, ":")
}

// DashboardTableKey stores the latest progress record for one table.
func DashboardTableKey(table string) string {
	return formatKey("dashboard", "table", table)
}

// DashboardRowCountsKey is the aggregate hash of table -> row count,
// the dashboard's primary feed.
func DashboardRowCountsKey() string {
	return formatKey("dashboard", "row_counts")
}
