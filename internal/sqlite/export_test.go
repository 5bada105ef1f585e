package sqlite

import (
	"bufio"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/nexus/pkg/types"
)

// readJSONLObjects reads a JSONL file into one map per line.
func readJSONLObjects(t *testing.T, path string) []map[string]any {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var out []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &m))
		out = append(out, m)
	}
	require.NoError(t, scanner.Err())
	return out
}

func TestExport_NotInitialized(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, path string)
	}{
		{
			name:  "missing file",
			setup: func(t *testing.T, path string) {},
		},
		{
			name: "partial layout",
			setup: func(t *testing.T, path string) {
				require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
				execSQL(t, path, legacyDDL[0])
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testDBPath(t)
			tt.setup(t, path)
			out := filepath.Join(t.TempDir(), "snapshot")

			_, err := Export(context.Background(), path, out)
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrNotInitialized)

			_, statErr := os.Stat(out)
			assert.True(t, os.IsNotExist(statErr), "no snapshot directory on failure")
		})
	}
}

func TestExport_WritesTablesAndManifest(t *testing.T) {
	path := initTestDB(t)
	execSQL(t, path,
		`INSERT INTO goals (title, deadline, priority) VALUES ('write book', '2026-12-31', 'high')`,
		`INSERT INTO tasks (goal_id, title, estimated_hours) VALUES (1, 'outline', 2.5)`,
		`INSERT INTO tasks (title) VALUES ('free task')`,
		`INSERT INTO calendar_events (external_id, title, start_time, end_time, source)
			VALUES ('evt-1', 'review', '2026-10-18 09:00:00', '2026-10-18 10:00:00', 'google')`,
		`INSERT INTO patterns (pattern_type, data) VALUES ('streak', '{"days":4}')`,
	)
	out := filepath.Join(t.TempDir(), "snapshot")

	m, err := Export(context.Background(), path, out)
	require.NoError(t, err)

	id, err := uuid.Parse(m.SnapshotID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
	assert.Equal(t, types.SchemaVersion, m.SchemaVersion)
	assert.Equal(t, path, m.Source)
	assert.Equal(t, map[string]int64{
		types.GoalsTable:          1,
		types.TasksTable:          2,
		types.DailyLogsTable:      0,
		types.CalendarEventsTable: 1,
		types.PatternsTable:       1,
	}, m.Tables)

	goals := readJSONLObjects(t, filepath.Join(out, TableFile(types.GoalsTable)))
	require.Len(t, goals, 1)
	assert.Equal(t, float64(1), goals[0]["id"])
	assert.Equal(t, "write book", goals[0]["title"])
	assert.Equal(t, "2026-12-31", goals[0]["deadline"])
	assert.Equal(t, "active", goals[0]["status"])
	assert.Nil(t, goals[0]["description"])
	assert.NotEmpty(t, goals[0]["created_at"])
	assert.Len(t, goals[0], 8, "only declared columns are exported")

	tasks := readJSONLObjects(t, filepath.Join(out, TableFile(types.TasksTable)))
	require.Len(t, tasks, 2)
	assert.Equal(t, float64(1), tasks[0]["goal_id"])
	assert.Equal(t, 2.5, tasks[0]["estimated_hours"])
	assert.Equal(t, "pending", tasks[0]["status"])
	assert.Nil(t, tasks[1]["goal_id"])

	events := readJSONLObjects(t, filepath.Join(out, TableFile(types.CalendarEventsTable)))
	require.Len(t, events, 1)
	assert.Equal(t, "2026-10-18 09:00:00", events[0]["start_time"])
	assert.Equal(t, "evt-1", events[0]["external_id"])

	patterns := readJSONLObjects(t, filepath.Join(out, TableFile(types.PatternsTable)))
	require.Len(t, patterns, 1)
	assert.Equal(t, `{"days":4}`, patterns[0]["data"])

	logs, err := os.ReadFile(filepath.Join(out, TableFile(types.DailyLogsTable)))
	require.NoError(t, err)
	assert.Empty(t, logs)

	raw, err := os.ReadFile(filepath.Join(out, ManifestFile))
	require.NoError(t, err)
	var onDisk Manifest
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	assert.Equal(t, m.SnapshotID, onDisk.SnapshotID)
	assert.Equal(t, m.Tables, onDisk.Tables)
}

func TestExport_LeavesNoTempFiles(t *testing.T) {
	path := initTestDB(t)
	out := filepath.Join(t.TempDir(), "snapshot")

	_, err := Export(context.Background(), path, out)
	require.NoError(t, err)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{
		"calendar_events.jsonl", "daily_logs.jsonl", "goals.jsonl",
		"manifest.json", "patterns.jsonl", "tasks.jsonl",
	}, names)
}

func TestExport_SnapshotIDsDiffer(t *testing.T) {
	path := initTestDB(t)

	m1, err := Export(context.Background(), path, filepath.Join(t.TempDir(), "a"))
	require.NoError(t, err)
	m2, err := Export(context.Background(), path, filepath.Join(t.TempDir(), "b"))
	require.NoError(t, err)
	assert.NotEqual(t, m1.SnapshotID, m2.SnapshotID)
}

func TestEncodeValue(t *testing.T) {
	assert.Equal(t, map[string]string{blobKey: "gP8AAQ=="}, encodeValue([]byte{0x80, 0xff, 0x00, 0x01}))
	assert.Equal(t, map[string]string{floatKey: "+Inf"}, encodeValue(math.Inf(1)))
	assert.Equal(t, map[string]string{floatKey: "NaN"}, encodeValue(math.NaN()))
	assert.Equal(t, 2.5, encodeValue(2.5))
	assert.Equal(t, "text", encodeValue("text"))
	assert.Nil(t, encodeValue(nil))
}
