package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/nexus/pkg/types"
)

// Connection pragmas applied to every connection through the DSN. The busy
// timeout lets concurrent initializers wait on SQLite's lock instead of
// failing immediately.
const (
	connPragmas = "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

	walAttempts = 10
	walDelay    = 200 * time.Millisecond

	discardTimeout = 5 * time.Second
)

// writeDSN opens the file for initialization. Transactions take the write
// lock up front so two initializers never deadlock upgrading a read lock.
func writeDSN(path string) string {
	return path + "?" + connPragmas + "&_txlock=immediate"
}

// readDSN opens an existing file for inspection and export.
func readDSN(path string) string {
	return path + "?" + connPragmas
}

// openDB opens a single-connection pool on dsn and verifies it with a ping.
func openDB(ctx context.Context, path, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", types.ErrIO, path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: open %s: %w", types.ErrIO, path, err)
	}
	return db, nil
}

// ensureWAL switches the file to write-ahead logging, retrying while another
// process holds the lock.
func ensureWAL(ctx context.Context, db *sql.DB) error {
	var err error
	for i := 0; i < walAttempts; i++ {
		if _, err = db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(walDelay):
		}
	}
	return fmt.Errorf("database is locked after %d attempts: %w", walAttempts, err)
}

// statStorage reports whether the storage file exists. A directory at the
// path is an I/O error.
func statStorage(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("%w: stat %s: %w", types.ErrIO, path, err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("%w: %s is a directory, expected file", types.ErrIO, path)
	}
	return true, nil
}

// claimStorage creates the storage file if it does not exist yet. created
// is true only for the caller whose exclusive create made the file, so of
// several concurrent initializers exactly one owns a new file.
func claimStorage(path string) (created bool, err error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err == nil {
		if err := f.Close(); err != nil {
			removeStorage(path)
			return false, fmt.Errorf("%w: create %s: %w", types.ErrIO, path, err)
		}
		return true, nil
	}
	if !errors.Is(err, fs.ErrExist) {
		return false, fmt.Errorf("%w: create %s: %w", types.ErrIO, path, err)
	}
	if _, err := statStorage(path); err != nil {
		return false, err
	}
	return false, nil
}

// discardStorage removes a file created by a failed initialization. The
// file is kept when it holds any schema object or cannot be read, since
// another initializer may have opened it after it was created.
func discardStorage(path string) {
	ctx, cancel := context.WithTimeout(context.Background(), discardTimeout)
	defer cancel()

	db, err := openDB(ctx, path, readDSN(path))
	if err != nil {
		return
	}
	var objects int
	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master`).Scan(&objects)
	db.Close()
	if err != nil || objects > 0 {
		return
	}
	removeStorage(path)
}

// removeStorage deletes the storage file and its WAL side files.
func removeStorage(path string) {
	for _, p := range []string{path, path + "-wal", path + "-shm", path + "-journal"} {
		_ = os.Remove(p)
	}
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ queryer = (*sql.DB)(nil)
	_ queryer = (*sql.Tx)(nil)
)

// userVersion reads PRAGMA user_version.
func userVersion(ctx context.Context, q queryer) (int, error) {
	var v int
	if err := q.QueryRowContext(ctx, "PRAGMA user_version;").Scan(&v); err != nil {
		return 0, err
	}
	return v, nil
}
