package config

import (
	"fmt"

	"foodies-api/store/sqlstore"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB opens the sqlite database at path and migrates every table.
func OpenDB(path string, log *zap.Logger) (*gorm.DB, error) {
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := sqlstore.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	log.Info("database connected and migrated", zap.String("path", path))
	return db, nil
}
