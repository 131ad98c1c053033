package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"candlesync/internal/config"
)

func TestNewTTLSet(t *testing.T) {
	ttl := NewTTLSet(config.CacheTTL{Short: 5, Medium: 30, Long: 600})
	require.Equal(t, 5*time.Second, ttl.Short)
	require.Equal(t, 30*time.Second, ttl.Medium)
	require.Equal(t, 10*time.Minute, ttl.Long)

	// Zero means "use the default", negative disables.
	defaulted := NewTTLSet(config.CacheTTL{Short: 0, Medium: -1, Long: 0})
	require.Equal(t, 10*time.Second, defaulted.Short)
	require.Equal(t, time.Duration(0), defaulted.Medium)
	require.Equal(t, 5*time.Minute, defaulted.Long)

	require.Equal(t, defaulted.Long, ProgressTTL(defaulted))
}

func TestDashboardKeys(t *testing.T) {
	require.Equal(t, "candlesync:dashboard:table:gdax_btc_usd_candlesticks",
		DashboardTableKey("gdax_btc_usd_candlesticks"))
	require.Equal(t, "candlesync:dashboard:table", DashboardTableKey("  "))
	require.Equal(t, "candlesync:dashboard:row_counts", DashboardRowCountsKey())
}
