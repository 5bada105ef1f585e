package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/nexus/pkg/types"
)

// Import restores a snapshot written by Export from dir into the storage
// file at path and returns the snapshot's manifest.
//
// The storage file must be ready and every table empty; otherwise the error
// wraps types.ErrNotInitialized or types.ErrNotEmpty. Tables load in
// dependency order inside one transaction, keeping ids. A missing or
// malformed table file, an unparsable line, or a row count that disagrees
// with the manifest wraps types.ErrSnapshot and leaves the file unchanged.
// Fields that are not declared columns are ignored; an absent column takes
// its default.
func Import(ctx context.Context, path, dir string) (Manifest, error) {
	if path == "" {
		path = types.DefaultDBPath
	}

	m, err := readManifest(dir)
	if err != nil {
		return Manifest{}, err
	}
	if m.SchemaVersion > types.SchemaVersion {
		return m, fmt.Errorf("%w: snapshot %s has schema version %d, newer than supported %d",
			types.ErrSnapshot, m.SnapshotID, m.SchemaVersion, types.SchemaVersion)
	}

	status, err := Inspect(ctx, path)
	if err != nil {
		return m, err
	}
	if status.State != types.StateReady {
		return m, fmt.Errorf("%w: %s is %s", types.ErrNotInitialized, path, status.State)
	}
	for _, ts := range status.Tables {
		if ts.Rows > 0 {
			return m, fmt.Errorf("%w: %s has %d rows in %s", types.ErrNotEmpty, path, ts.Rows, ts.Name)
		}
	}

	db, err := openDB(ctx, path, writeDSN(path))
	if err != nil {
		return m, err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return m, fmt.Errorf("%w: begin transaction on %s: %w", types.ErrIO, path, err)
	}
	defer tx.Rollback()

	for _, spec := range schema {
		records, err := readJSONL(filepath.Join(dir, TableFile(spec.name)))
		if err != nil {
			return m, fmt.Errorf("%w: %w", types.ErrSnapshot, err)
		}
		if want, ok := m.Tables[spec.name]; !ok || want != int64(len(records)) {
			return m, fmt.Errorf("%w: %s holds %d rows, manifest lists %d",
				types.ErrSnapshot, TableFile(spec.name), len(records), m.Tables[spec.name])
		}
		if err := insertRecords(ctx, tx, spec, records); err != nil {
			return m, err
		}
	}

	if err := tx.Commit(); err != nil {
		return m, fmt.Errorf("%w: commit %s: %w", types.ErrIO, path, err)
	}
	return m, nil
}

// readManifest loads manifest.json from a snapshot directory.
func readManifest(dir string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return m, fmt.Errorf("%w: %s has no %s", types.ErrSnapshot, dir, ManifestFile)
		}
		return m, fmt.Errorf("%w: read manifest in %s: %w", types.ErrIO, dir, err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("%w: parse %s: %w", types.ErrSnapshot, ManifestFile, err)
	}
	return m, nil
}

// insertRecords inserts parsed JSONL records into the table. Only declared
// columns are written; each distinct column set gets one prepared statement.
func insertRecords(ctx context.Context, tx *sql.Tx, spec tableSpec, records []json.RawMessage) error {
	stmts := make(map[string]*sql.Stmt)
	defer func() {
		for _, stmt := range stmts {
			stmt.Close()
		}
	}()

	for i, rec := range records {
		row, err := decodeRecord(rec)
		if err != nil {
			return fmt.Errorf("%w: %s record %d: %w", types.ErrSnapshot, spec.name, i+1, err)
		}

		var cols []string
		var args []any
		for _, c := range spec.columns {
			v, ok := row[c.name]
			if !ok {
				continue
			}
			cols = append(cols, `"`+c.name+`"`)
			args = append(args, v)
		}
		if len(cols) == 0 {
			return fmt.Errorf("%w: %s record %d has no known columns", types.ErrSnapshot, spec.name, i+1)
		}

		key := strings.Join(cols, ",")
		stmt, ok := stmts[key]
		if !ok {
			query := fmt.Sprintf(`INSERT INTO "%s" (%s) VALUES (%s)`,
				spec.name, strings.Join(cols, ", "), strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "))
			stmt, err = tx.PrepareContext(ctx, query)
			if err != nil {
				return fmt.Errorf("%w: prepare insert into %s: %w", types.ErrIO, spec.name, err)
			}
			stmts[key] = stmt
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("%w: %s record %d: %w", types.ErrSnapshot, spec.name, i+1, err)
		}
	}
	return nil
}

// decodeRecord parses one JSON object. Integral numbers stay integers so
// ids and foreign keys keep their storage class. Blob and non-finite real
// wrappers written by Export are unwrapped; other nested values are stored
// as their JSON text.
func decodeRecord(rec json.RawMessage) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(rec))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.New("record is not an object")
	}
	for k, v := range obj {
		switch val := v.(type) {
		case json.Number:
			if n, err := val.Int64(); err == nil {
				obj[k] = n
			} else if f, err := val.Float64(); err == nil {
				obj[k] = f
			} else {
				return nil, fmt.Errorf("field %s: %w", k, err)
			}
		case map[string]any:
			if typed, ok, err := decodeTyped(val); ok {
				if err != nil {
					return nil, fmt.Errorf("field %s: %w", k, err)
				}
				obj[k] = typed
				continue
			}
			b, err := json.Marshal(val)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", k, err)
			}
			obj[k] = string(b)
		case []any:
			b, err := json.Marshal(val)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", k, err)
			}
			obj[k] = string(b)
		}
	}
	return obj, nil
}

// decodeTyped unwraps a single-key blob or float object. ok is false when
// obj is an ordinary nested value.
func decodeTyped(obj map[string]any) (v any, ok bool, err error) {
	if len(obj) != 1 {
		return nil, false, nil
	}
	for key, raw := range obj {
		s, isString := raw.(string)
		if !isString {
			return nil, false, nil
		}
		switch key {
		case blobKey:
			b, err := base64.StdEncoding.DecodeString(s)
			return b, true, err
		case floatKey:
			f, err := strconv.ParseFloat(s, 64)
			return f, true, err
		}
	}
	return nil, false, nil
}
