// Database bootstrapping helpers for SQLite (pure Go driver), tracing
// instrumentation and schema migrations.

package repo

import (
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/go-botconfig-backend/internal/domain"
)

// Options tunes OpenSQLite.
type Options struct {
	MaxOpenConns int  // pool size; <= 0 means 10
	Trace        bool // register the OpenTelemetry GORM plugin
	Silent       bool // silence the GORM query logger
}

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
// Driver errors for unique violations are translated to gorm.ErrDuplicatedKey.
func OpenSQLite(path string, opts Options) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	gcfg := &gorm.Config{TranslateError: true}
	if opts.Silent {
		gcfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(path), gcfg)
	if err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	// Pool
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 10
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
		sqlDB.SetMaxIdleConns(opts.MaxOpenConns)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if opts.Trace {
		if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// Models lists every collection managed by the repository.
func Models() []any {
	return []any{
		&domain.Channel{},
		&domain.Command{},
		&domain.Alias{},
		&domain.Repeat{},
		&domain.Quote{},
		&domain.Trust{},
		&domain.SocialService{},
		&domain.Authorization{},
		&domain.UserOffences{},
		&domain.Config{},
	}
}

// AutoMigrate creates or updates the tables and unique indexes.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
