package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	syncpkg "candlesync/internal/sync"
)

// Driver selects the SQL dialect details that differ between backends.
type Driver string

const (
	DriverPostgres Driver = "pgx"
	DriverSQLite   Driver = "sqlite"
)

// Store keeps one candle table per market. The schema is fixed:
// (time BIGINT PRIMARY KEY, low, high, open, close, volume DOUBLE
// PRECISION). Both backends accept $N placeholders and the excluded
// pseudo-table in upserts, so all statements below are shared.
type Store struct {
	conn   sqlx.SqlConn
	driver Driver
	prefix string
}

var _ syncpkg.RowStore = (*Store)(nil)

// New wires a Store around an open connection.
func New(conn sqlx.SqlConn, driver Driver, prefix string) (*Store, error) {
	if conn == nil {
		return nil, fmt.Errorf("store: missing sql connection")
	}
	switch driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", driver)
	}
	if prefix == "" {
		prefix = "gdax"
	}
	return &Store{conn: conn, driver: driver, prefix: prefix}, nil
}

// TableFor derives the table name for a market.
func (s *Store) TableFor(market string) string {
	return TableName(s.prefix, market)
}

// TableExists reports whether the named table is already provisioned.
func (s *Store) TableExists(ctx context.Context, table string) (bool, error) {
	var query string
	switch s.driver {
	case DriverSQLite:
		query = `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = $1`
	default:
		query = `SELECT COUNT(*) FROM information_schema.tables WHERE table_name = $1`
	}
	var n int64
	if err := s.conn.QueryRowCtx(ctx, &n, query, table); err != nil {
		return false, fmt.Errorf("store: check table %s: %w", table, err)
	}
	return n > 0, nil
}

// EnsureTable creates the candle table on first encounter of a market.
// Tables are never dropped here.
func (s *Store) EnsureTable(ctx context.Context, table string) error {
	exists, err := s.TableExists(ctx, table)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	logx.WithContext(ctx).Infof("store: creating table %s", table)
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	time BIGINT PRIMARY KEY,
	low DOUBLE PRECISION NOT NULL,
	high DOUBLE PRECISION NOT NULL,
	open DOUBLE PRECISION NOT NULL,
	close DOUBLE PRECISION NOT NULL,
	volume DOUBLE PRECISION NOT NULL
)`, table)
	if _, err := s.conn.ExecCtx(ctx, query); err != nil {
		return fmt.Errorf("store: create table %s: %w", table, err)
	}
	return nil
}

type timeBoundsRow struct {
	Min sql.NullInt64 `db:"min_time"`
	Max sql.NullInt64 `db:"max_time"`
}

// MinMaxTime returns the stored timestamp extrema for a table, or nil when
// it has no rows. MIN/MAX on the primary key resolve from the index.
func (s *Store) MinMaxTime(ctx context.Context, table string) (*syncpkg.TimeRange, error) {
	query := fmt.Sprintf(`SELECT MIN(time) AS min_time, MAX(time) AS max_time FROM %s`, table)
	var row timeBoundsRow
	if err := s.conn.QueryRowCtx(ctx, &row, query); err != nil {
		return nil, fmt.Errorf("store: time bounds of %s: %w", table, err)
	}
	if !row.Min.Valid || !row.Max.Valid {
		return nil, nil
	}
	return &syncpkg.TimeRange{Min: row.Min.Int64, Max: row.Max.Int64}, nil
}

// Upsert merges candle rows keyed by timestamp: insert-or-replace, last
// write wins, never a duplicate. Rows are written one at a time so a
// single bad row is skipped without aborting the batch. Returns the
// number of rows written.
func (s *Store) Upsert(ctx context.Context, table string, rows []syncpkg.Candle) (int, error) {
	query := fmt.Sprintf(`INSERT INTO %s (time, low, high, open, close, volume)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (time) DO UPDATE SET
	low = excluded.low,
	high = excluded.high,
	open = excluded.open,
	close = excluded.close,
	volume = excluded.volume`, table)

	written := 0
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		if malformed(row) {
			logx.WithContext(ctx).Errorf("store: skip malformed row table=%s time=%d", table, row.Time)
			continue
		}
		if _, err := s.conn.ExecCtx(ctx, query, row.Time, row.Low, row.High, row.Open, row.Close, row.Volume); err != nil {
			logx.WithContext(ctx).Errorf("store: skip row table=%s time=%d err=%v", table, row.Time, err)
			continue
		}
		written++
	}
	return written, nil
}

// RowCount returns the total number of candle rows in a table.
func (s *Store) RowCount(ctx context.Context, table string) (int64, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)
	var n int64
	if err := s.conn.QueryRowCtx(ctx, &n, query); err != nil {
		return 0, fmt.Errorf("store: row count of %s: %w", table, err)
	}
	return n, nil
}

// malformed rejects rows whose numeric fields cannot be stored meaningfully.
func malformed(row syncpkg.Candle) bool {
	if row.Time <= 0 {
		return true
	}
	for _, v := range []float64{row.Low, row.High, row.Open, row.Close, row.Volume} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}
