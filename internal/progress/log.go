package progress

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	syncpkg "candlesync/internal/sync"
)

// LogSink reports progress to the structured log only. Used when no
// dashboard mirror is configured.
type LogSink struct{}

var _ syncpkg.ProgressSink = LogSink{}

func (LogSink) Publish(ctx context.Context, rec syncpkg.ProgressRecord) error {
	logx.WithContext(ctx).Infof("progress: market=%s table=%s row_count=%d rows_added=%d", rec.Market, rec.Table, rec.RowCount, rec.RowsAdded)
	return nil
}
