package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/dlg1206/pydb/internal/infrastructure/config"
	"github.com/dlg1206/pydb/internal/infrastructure/logging"
	"github.com/dlg1206/pydb/internal/store"
)

// Pool configuration constants.
const (
	// maxOverflowRatio is how many overflow connections are allowed beyond
	// the configured pool size, as a multiple of it.
	maxOverflowRatio = 2

	// connectionTimeout is the timeout for verifying server connectivity.
	connectionTimeout = 5 * time.Second

	// connMaxIdleTime is how long idle connections are kept open.
	connMaxIdleTime = 30 * time.Minute
)

// Store is the pooled MySQL variant of the CRUD adapter.
type Store struct {
	*store.Store
}

// Open connects to a MySQL server and returns a pooled store.
//
// The pool keeps cfg.PoolSize idle connections ready and allows bursts up to
// pool size plus overflow. Connectivity is verified with a ping before the
// store is returned.
//
// Parameters:
//   - ctx: Context for connection verification
//   - cfg: Server and pool settings (typically from config.Load or
//     config.FromEnv, which honour the MYSQL_* environment variables)
//   - log: Logger (nil discards)
//
// Returns:
//   - *Store: Connected store ready for use
//   - error: If the DSN is invalid or the server is unreachable
func Open(ctx context.Context, cfg config.MySQLConfig, log *logging.Logger) (*Store, error) {
	if log == nil {
		log = logging.Discard()
	}

	sqlDB, err := sql.Open("mysql", formatDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening mysql pool: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.PoolSize * (1 + maxOverflowRatio))
	sqlDB.SetMaxIdleConns(cfg.PoolSize)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("verifying mysql connection: %w", err)
	}

	log.Debug("mysql pool ready",
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.Database,
		"pool_size", cfg.PoolSize,
	)

	return &Store{
		Store: store.New(sqlDB, Dialect{}, log),
	}, nil
}

// formatDSN builds the driver DSN from the configuration.
func formatDSN(cfg config.MySQLConfig) string {
	dsnCfg := mysql.NewConfig()
	dsnCfg.User = cfg.User
	dsnCfg.Passwd = cfg.Password
	dsnCfg.Net = "tcp"
	dsnCfg.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	dsnCfg.DBName = cfg.Database
	return dsnCfg.FormatDSN()
}
