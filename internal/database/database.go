package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"medlab-backend/internal/config"
	"medlab-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open opens the database named by cfg.DatabaseURI. postgres:// and
// postgresql:// URIs use the postgres driver, anything else is treated as a
// SQLite file path.
func Open(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	gormLog := logger.New(gormWriter{log: log.With().Str("component", "gorm").Logger()}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormLogLevel(log.GetLevel()),
		IgnoreRecordNotFoundError: true,
	})

	db, err := gorm.Open(dialector(cfg.DatabaseURI), &gorm.Config{
		Logger:         gormLog,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	if cfg.DBMaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	return db, nil
}

// Migrate creates any missing tables, columns and indexes.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Ping checks that the database is reachable.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dialector(uri string) gorm.Dialector {
	if strings.HasPrefix(uri, "postgres://") || strings.HasPrefix(uri, "postgresql://") {
		return postgres.Open(uri)
	}
	return sqlite.Open(sqliteDSN(uri))
}

// sqliteDSN adds a busy timeout to plain file paths so concurrent writers
// wait for the lock instead of failing with SQLITE_BUSY.
func sqliteDSN(uri string) string {
	if strings.Contains(uri, "?") {
		return uri
	}
	return uri + "?_pragma=busy_timeout(5000)"
}

// gormWriter forwards gorm's log lines to zerolog. gorm filters by its own
// level first, so everything that arrives here is written.
type gormWriter struct {
	log zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.log.Log().Msgf(format, args...)
}

func gormLogLevel(l zerolog.Level) logger.LogLevel {
	switch {
	case l <= zerolog.DebugLevel:
		return logger.Info
	case l <= zerolog.WarnLevel:
		return logger.Warn
	case l == zerolog.Disabled:
		return logger.Silent
	default:
		return logger.Error
	}
}
