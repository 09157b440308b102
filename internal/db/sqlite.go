package db

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenSQLite opens the database at dbPath and brings its schema up to date. The special
// path ":memory:" opens a private in-memory database.
func OpenSQLite(dbPath string, logger *zap.Logger) (*gorm.DB, error) {
	database, err := Open(dbPath, logger)
	if err != nil {
		return nil, err
	}
	if _, err := Migrate(database, logger); err != nil {
		return nil, fmt.Errorf("apply embedded migrations: %w", err)
	}
	return database, nil
}

// Open opens the database without touching its schema.
func Open(dbPath string, logger *zap.Logger) (*gorm.DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	dsn := "file::memory:?_pragma=foreign_keys(1)"
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
		dsn = fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dbPath)
	}

	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: NewGormLogger(logger, GormLoggerConfig{
			SlowThreshold: time.Second,
			LogLevel:      gormlogger.Warn,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if dbPath == ":memory:" {
		sqlDB, err := database.DB()
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// Every pooled connection would otherwise see its own empty database.
		sqlDB.SetMaxOpenConns(1)
	}

	return database, nil
}
