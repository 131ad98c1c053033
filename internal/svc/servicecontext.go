package svc

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx driver
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
	_ "modernc.org/sqlite" // register sqlite driver

	cachekeys "candlesync/internal/cache"
	"candlesync/internal/config"
	"candlesync/internal/progress"
	"candlesync/internal/store"
	syncpkg "candlesync/internal/sync"
	"candlesync/pkg/coinbase"
	"candlesync/pkg/journal"
)

// ServiceContext wires the collaborators of the sync loop: exchange
// client, row store, progress sink and the syncer itself.
type ServiceContext struct {
	Config config.Config

	DBConn  sqlx.SqlConn
	Store   *store.Store
	Client  *coinbase.Client
	Sink    syncpkg.ProgressSink
	Journal *journal.Writer
	Syncer  *syncpkg.Syncer
}

// NewServiceContext builds the full dependency graph from configuration.
// The store connection is acquired here once and held for the process
// lifetime.
func NewServiceContext(c config.Config) (*ServiceContext, error) {
	svcCtx := &ServiceContext{Config: c}

	conn, err := openStoreConn(c.Store)
	if err != nil {
		return nil, err
	}
	svcCtx.DBConn = conn

	st, err := store.New(conn, store.Driver(c.Store.Driver), c.Sync.TablePrefix)
	if err != nil {
		return nil, err
	}
	svcCtx.Store = st

	svcCtx.Client = c.Exchange.Value.NewClient()

	ttl := cachekeys.NewTTLSet(c.TTL)
	if c.HasRedis() {
		svcCtx.Sink = progress.NewRedisSink(redis.MustNewRedis(c.Redis), ttl)
	} else {
		svcCtx.Sink = progress.LogSink{}
	}

	if c.Sync.JournalDir != "" {
		svcCtx.Journal = journal.NewWriter(c.Sync.JournalDir)
	}

	source := exchangeSource{client: svcCtx.Client}
	syncer, err := syncpkg.New(source, source, st, svcCtx.Sink, syncpkg.Config{
		Horizon:     c.Sync.HorizonSeconds,
		Granularity: c.Sync.GranularitySeconds,
		Throttle:    time.Duration(c.Sync.ThrottleMs) * time.Millisecond,
	})
	if err != nil {
		return nil, err
	}
	svcCtx.Syncer = syncer

	return svcCtx, nil
}

func openStoreConn(c config.StoreConf) (sqlx.SqlConn, error) {
	switch store.Driver(c.Driver) {
	case store.DriverPostgres:
		return sqlx.NewSqlConn("pgx", c.DSN), nil
	case store.DriverSQLite:
		if dir := filepath.Dir(c.DSN); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite store dir %s: %w", dir, err)
			}
		}
		db, err := sql.Open("sqlite", c.DSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store %s: %w", c.DSN, err)
		}
		// A single writer avoids SQLITE_BUSY churn; the sync loop is
		// sequential anyway.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec(`PRAGMA journal_mode = WAL`); err != nil {
			return nil, fmt.Errorf("configure sqlite store: %w", err)
		}
		if _, err := db.Exec(`PRAGMA busy_timeout = 10000`); err != nil {
			return nil, fmt.Errorf("configure sqlite store: %w", err)
		}
		return sqlx.NewSqlConnFromDB(db), nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", c.Driver)
	}
}
