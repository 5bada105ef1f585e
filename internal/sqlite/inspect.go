package sqlite

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/nexus/pkg/types"
)

// TableStatus is the inspected state of one table.
type TableStatus struct {
	Name      string   `json:"name"`
	Present   bool     `json:"present"`
	Rows      int64    `json:"rows"`
	Conflicts []string `json:"conflicts,omitempty"`
}

// Status is the inspected state of a storage file.
type Status struct {
	Path          string           `json:"path"`
	State         types.StoreState `json:"state"`
	SchemaVersion int              `json:"schema_version"`
	Tables        []TableStatus    `json:"tables"`
}

// Inspect reports the state of the storage file at path without modifying
// it. A missing file yields StateMissing and is not created.
func Inspect(ctx context.Context, path string) (Status, error) {
	if path == "" {
		path = types.DefaultDBPath
	}
	status := Status{Path: path, State: types.StateMissing}

	exists, err := statStorage(path)
	if err != nil {
		return status, err
	}
	if !exists {
		return status, nil
	}

	db, err := openDB(ctx, path, readDSN(path))
	if err != nil {
		return status, err
	}
	defer db.Close()

	if status.SchemaVersion, err = userVersion(ctx, db); err != nil {
		return status, fmt.Errorf("%w: read schema version of %s: %w", types.ErrIO, path, err)
	}

	var present, conflicted int
	for _, spec := range schema {
		ts := TableStatus{Name: spec.name}
		ts.Present, ts.Conflicts, err = checkTable(ctx, db, spec)
		if err != nil {
			return status, fmt.Errorf("%w: %s: %w", types.ErrIO, path, err)
		}
		if ts.Present {
			present++
		}
		if len(ts.Conflicts) > 0 {
			conflicted++
		} else if ts.Present {
			if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM "`+spec.name+`"`).Scan(&ts.Rows); err != nil {
				return status, fmt.Errorf("%w: count %s in %s: %w", types.ErrIO, spec.name, path, err)
			}
		}
		status.Tables = append(status.Tables, ts)
	}

	switch {
	case conflicted > 0:
		status.State = types.StateConflict
	case present == 0:
		status.State = types.StateUninitialized
	case present < len(schema):
		status.State = types.StatePartial
	default:
		status.State = types.StateReady
	}
	return status, nil
}

// Conflicts flattens the conflicts of every table.
func (s Status) Conflicts() []string {
	var out []string
	for _, t := range s.Tables {
		out = append(out, t.Conflicts...)
	}
	return out
}
