package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/nexus/pkg/types"
)

// Report describes what Initialize did.
type Report struct {
	Path          string   `json:"path"`
	Created       bool     `json:"created"`        // the storage file did not exist before
	CreatedTables []string `json:"created_tables"` // tables that were absent and are now present
	SchemaVersion int      `json:"schema_version"`
}

// Initialize makes the storage file at path ready to hold every nexus table.
// An empty path selects types.DefaultDBPath. Missing parent directories are
// created. Tables are created only when absent, so repeated calls leave
// existing rows untouched.
//
// Directory, open and commit failures wrap types.ErrIO. An existing object
// whose shape conflicts with the declared layout wraps types.ErrSchema and
// is left as it is. The connection is closed on every path. A file created
// by a failed call is removed unless another initializer has committed
// tables to it in the meantime.
func Initialize(ctx context.Context, path string) (report Report, err error) {
	if path == "" {
		path = types.DefaultDBPath
	}
	report.Path = path

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return report, fmt.Errorf("%w: create directory %s: %w", types.ErrIO, dir, err)
	}

	created, err := claimStorage(path)
	if err != nil {
		return report, err
	}
	report.Created = created
	defer func() {
		if err != nil && created {
			discardStorage(path)
		}
	}()

	db, err := openDB(ctx, path, writeDSN(path))
	if err != nil {
		return report, err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close %s: %w", types.ErrIO, path, cerr)
		}
	}()

	if err := ensureWAL(ctx, db); err != nil {
		return report, fmt.Errorf("%w: set WAL mode on %s: %w", types.ErrIO, path, err)
	}

	version, err := userVersion(ctx, db)
	if err != nil {
		return report, fmt.Errorf("%w: read schema version of %s: %w", types.ErrIO, path, err)
	}
	if version > types.SchemaVersion {
		return report, fmt.Errorf("%w: %s has schema version %d, newer than supported %d",
			types.ErrSchema, path, version, types.SchemaVersion)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return report, fmt.Errorf("%w: begin transaction on %s: %w", types.ErrIO, path, err)
	}
	defer tx.Rollback()

	for _, spec := range schema {
		present, conflicts, err := checkTable(ctx, tx, spec)
		if err != nil {
			return report, fmt.Errorf("%w: %s: %w", types.ErrIO, path, err)
		}
		if len(conflicts) > 0 {
			return report, fmt.Errorf("%w: %s: %s", types.ErrSchema, path, strings.Join(conflicts, "; "))
		}
		if _, err := tx.ExecContext(ctx, spec.ddl); err != nil {
			return report, fmt.Errorf("%w: create table %s in %s: %w", types.ErrSchema, spec.name, path, err)
		}
		if !present {
			report.CreatedTables = append(report.CreatedTables, spec.name)
		}
	}

	for _, ddl := range indexDDL {
		if _, err := tx.ExecContext(ctx, ddl); err != nil {
			return report, fmt.Errorf("%w: create index in %s: %w", types.ErrSchema, path, err)
		}
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d;", types.SchemaVersion)); err != nil {
		return report, fmt.Errorf("%w: record schema version in %s: %w", types.ErrIO, path, err)
	}

	if err := tx.Commit(); err != nil {
		return report, fmt.Errorf("%w: commit %s: %w", types.ErrIO, path, err)
	}

	report.SchemaVersion = types.SchemaVersion
	return report, nil
}
