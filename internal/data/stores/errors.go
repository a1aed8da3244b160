package stores

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/hay-kot/bluelight/internal/data/db"
)

// IsBusyError reports whether err is SQLITE_BUSY.
func IsBusyError(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_BUSY
	}
	return false
}

// IsCorruptionError reports whether err means the database file is unusable.
func IsCorruptionError(err error) bool {
	if err == nil {
		return false
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_CANTOPEN:
			return true
		}
	}

	msg := err.Error()
	return strings.Contains(msg, "database disk image is malformed") ||
		strings.Contains(msg, "file is not a database")
}

// RecoverFromCorruption moves a corrupt database and its WAL/SHM files aside
// so the next Open starts fresh. History is lost; queues live in Airtable.
func RecoverFromCorruption(dataDir string) (string, error) {
	path := filepath.Join(dataDir, db.FileName)
	backup := fmt.Sprintf("%s.corrupt.%s", path, time.Now().Format("20060102-150405"))

	for _, suffix := range []string{"", "-wal", "-shm"} {
		err := os.Rename(path+suffix, backup+suffix)
		switch {
		case err == nil, os.IsNotExist(err):
		case suffix == "":
			return "", fmt.Errorf("back up corrupt database: %w", err)
		default:
			// stale WAL/SHM files must not survive next to a fresh database
			if rmErr := os.Remove(path + suffix); rmErr != nil && !os.IsNotExist(rmErr) {
				return "", fmt.Errorf("remove %s file: %w", suffix, err)
			}
		}
	}

	return backup, nil
}
