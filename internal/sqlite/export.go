package sqlite

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/nexus/pkg/types"
)

// ManifestFile is the name of the manifest written next to the table files.
const ManifestFile = "manifest.json"

// Manifest describes one snapshot written by Export.
type Manifest struct {
	SnapshotID    string           `json:"snapshot_id"`
	CreatedAt     time.Time        `json:"created_at"`
	Source        string           `json:"source"`
	SchemaVersion int              `json:"schema_version"`
	Tables        map[string]int64 `json:"tables"`
}

// TableFile returns the snapshot file name for table.
func TableFile(table string) string {
	return table + ".jsonl"
}

// Export writes every table of the storage file at path into dir as
// <table>.jsonl, one JSON object per row ordered by id, followed by
// manifest.json. Only declared columns are exported. The storage file must
// be fully initialized; otherwise the error wraps types.ErrNotInitialized.
func Export(ctx context.Context, path, dir string) (Manifest, error) {
	if path == "" {
		path = types.DefaultDBPath
	}
	status, err := Inspect(ctx, path)
	if err != nil {
		return Manifest{}, err
	}
	if status.State != types.StateReady {
		return Manifest{}, fmt.Errorf("%w: %s is %s", types.ErrNotInitialized, path, status.State)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Manifest{}, fmt.Errorf("%w: create directory %s: %w", types.ErrIO, dir, err)
	}

	db, err := openDB(ctx, path, readDSN(path))
	if err != nil {
		return Manifest{}, err
	}
	defer db.Close()

	// One read transaction gives every table the same snapshot.
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Manifest{}, fmt.Errorf("%w: begin transaction on %s: %w", types.ErrIO, path, err)
	}
	defer tx.Rollback()

	m := Manifest{
		SnapshotID:    newSnapshotID(),
		CreatedAt:     time.Now().UTC(),
		Source:        path,
		SchemaVersion: status.SchemaVersion,
		Tables:        make(map[string]int64, len(schema)),
	}
	for _, spec := range schema {
		records, err := dumpTable(ctx, tx, spec)
		if err != nil {
			return Manifest{}, fmt.Errorf("%w: export %s: %w", types.ErrIO, spec.name, err)
		}
		if err := writeJSONL(filepath.Join(dir, TableFile(spec.name)), records); err != nil {
			return Manifest{}, fmt.Errorf("%w: write %s: %w", types.ErrIO, spec.name, err)
		}
		m.Tables[spec.name] = int64(len(records))
	}

	if err := writeJSON(filepath.Join(dir, ManifestFile), m); err != nil {
		return Manifest{}, fmt.Errorf("%w: write manifest: %w", types.ErrIO, err)
	}
	return m, nil
}

// dumpTable reads all rows of the table as JSON objects keyed by column.
// Date and time columns are read as text so values keep their stored form.
func dumpTable(ctx context.Context, q queryer, spec tableSpec) ([]json.RawMessage, error) {
	exprs := make([]string, len(spec.columns))
	for i, c := range spec.columns {
		if c.temporal() {
			exprs[i] = fmt.Sprintf(`CAST("%s" AS TEXT)`, c.name)
		} else {
			exprs[i] = `"` + c.name + `"`
		}
	}
	query := fmt.Sprintf(`SELECT %s FROM "%s" ORDER BY id`, strings.Join(exprs, ", "), spec.name)

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := spec.columnNames()
	var records []json.RawMessage
	for rows.Next() {
		values := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(names))
		for i, name := range names {
			row[name] = encodeValue(values[i])
		}
		rec, err := json.Marshal(row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// encodeValue maps a scanned column value to its JSON form. Blobs and
// non-finite reals have no plain JSON encoding and are wrapped in a
// single-key object that decodeRecord reverses.
func encodeValue(v any) any {
	switch val := v.(type) {
	case []byte:
		return map[string]string{blobKey: base64.StdEncoding.EncodeToString(val)}
	case float64:
		if math.IsInf(val, 0) || math.IsNaN(val) {
			return map[string]string{floatKey: strconv.FormatFloat(val, 'g', -1, 64)}
		}
	}
	return v
}

// newSnapshotID generates a UUID v7 so snapshot ids sort by creation time.
func newSnapshotID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
