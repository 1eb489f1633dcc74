// Package eventlog records tracked window events in a SQLite database.
package eventlog

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const defaultDBName = "events.db"

// DB is the event log database
type DB struct {
	*gorm.DB
	path string
}

// DefaultPath returns %LOCALAPPDATA%\wintrack\events.db
func DefaultPath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to locate local app data")
	}

	return filepath.Join(cacheDir, "wintrack", defaultDBName), nil
}

// Open opens or creates the database at path and migrates the schema.
// An empty path means DefaultPath.
func Open(path string) (*DB, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create database directory")
	}

	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open event log %s", path)
	}

	if err := gdb.AutoMigrate(&Record{}); err != nil {
		return nil, errors.Wrap(err, "failed to initialize event log schema")
	}

	return &DB{DB: gdb, path: path}, nil
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// Close closes the underlying connection
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get underlying sql.DB")
	}

	return sqlDB.Close()
}
