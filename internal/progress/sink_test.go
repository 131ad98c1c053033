package progress

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	cachekeys "candlesync/internal/cache"
	syncpkg "candlesync/internal/sync"
)

func TestRedisSinkNilSafe(t *testing.T) {
	rec := syncpkg.ProgressRecord{Market: "BTC-USD", Table: "gdax_btc_usd_candlesticks", RowCount: 42}

	var nilSink *RedisSink
	require.NoError(t, nilSink.Publish(context.Background(), rec))

	unwired := NewRedisSink(nil, cachekeys.TTLSet{})
	require.NoError(t, unwired.Publish(context.Background(), rec))
}

func TestLogSinkPublish(t *testing.T) {
	rec := syncpkg.ProgressRecord{Market: "BTC-USD", Table: "gdax_btc_usd_candlesticks", RowCount: 42, RowsAdded: 3}
	require.NoError(t, LogSink{}.Publish(context.Background(), rec))
}
