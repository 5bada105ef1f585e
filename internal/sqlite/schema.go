// Package sqlite implements the SQLite storage file for nexus: schema
// initialization, state inspection and snapshot export.
package sqlite

import (
	"strings"

	"github.com/mesh-intelligence/nexus/pkg/types"
)

// Schema DDL for all tables. Every statement is create-if-absent so
// initialization can be repeated against a populated file.
const (
	createGoals = `CREATE TABLE IF NOT EXISTS goals (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    description TEXT,
    type TEXT,
    deadline DATE,
    priority TEXT,
    status TEXT DEFAULT 'active',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`

	createTasks = `CREATE TABLE IF NOT EXISTS tasks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    goal_id INTEGER,
    title TEXT NOT NULL,
    description TEXT,
    status TEXT DEFAULT 'pending',
    deadline DATE,
    estimated_hours REAL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (goal_id) REFERENCES goals(id) ON DELETE SET NULL
);`

	createDailyLogs = `CREATE TABLE IF NOT EXISTS daily_logs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    date DATE NOT NULL,
    notes TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`

	createCalendarEvents = `CREATE TABLE IF NOT EXISTS calendar_events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    external_id TEXT,
    title TEXT,
    start_time DATETIME,
    end_time DATETIME,
    source TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`

	createPatterns = `CREATE TABLE IF NOT EXISTS patterns (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    pattern_type TEXT,
    data TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`
)

// Index DDL for common lookups.
const (
	idxTasksGoalID              = `CREATE INDEX IF NOT EXISTS idx_tasks_goal_id ON tasks(goal_id);`
	idxDailyLogsDate            = `CREATE INDEX IF NOT EXISTS idx_daily_logs_date ON daily_logs(date);`
	idxCalendarEventsExternalID = `CREATE INDEX IF NOT EXISTS idx_calendar_events_external_id ON calendar_events(external_id);`
)

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxTasksGoalID,
	idxDailyLogsDate,
	idxCalendarEventsExternalID,
}

// column describes one declared column as PRAGMA table_info reports it.
type column struct {
	name    string
	typ     string
	notNull bool
	dflt    string // empty means no default
	pk      bool
}

// temporal reports whether the column holds a date or time value.
func (c column) temporal() bool {
	switch strings.ToUpper(c.typ) {
	case "DATE", "DATETIME", "TIMESTAMP":
		return true
	}
	return false
}

// tableSpec pairs a table's DDL with its expected column shape.
type tableSpec struct {
	name    string
	ddl     string
	columns []column
}

var (
	idColumn        = column{name: "id", typ: "INTEGER", pk: true}
	createdAtColumn = column{name: "created_at", typ: "TIMESTAMP", dflt: "CURRENT_TIMESTAMP"}
)

// schema lists every table in dependency order (goals before tasks).
var schema = []tableSpec{
	{
		name: types.GoalsTable,
		ddl:  createGoals,
		columns: []column{
			idColumn,
			{name: "title", typ: "TEXT", notNull: true},
			{name: "description", typ: "TEXT"},
			{name: "type", typ: "TEXT"},
			{name: "deadline", typ: "DATE"},
			{name: "priority", typ: "TEXT"},
			{name: "status", typ: "TEXT", dflt: "'" + types.GoalStatusActive + "'"},
			createdAtColumn,
		},
	},
	{
		name: types.TasksTable,
		ddl:  createTasks,
		columns: []column{
			idColumn,
			{name: "goal_id", typ: "INTEGER"},
			{name: "title", typ: "TEXT", notNull: true},
			{name: "description", typ: "TEXT"},
			{name: "status", typ: "TEXT", dflt: "'" + types.TaskStatusPending + "'"},
			{name: "deadline", typ: "DATE"},
			{name: "estimated_hours", typ: "REAL"},
			createdAtColumn,
		},
	},
	{
		name: types.DailyLogsTable,
		ddl:  createDailyLogs,
		columns: []column{
			idColumn,
			{name: "date", typ: "DATE", notNull: true},
			{name: "notes", typ: "TEXT"},
			createdAtColumn,
		},
	},
	{
		name: types.CalendarEventsTable,
		ddl:  createCalendarEvents,
		columns: []column{
			idColumn,
			{name: "external_id", typ: "TEXT"},
			{name: "title", typ: "TEXT"},
			{name: "start_time", typ: "DATETIME"},
			{name: "end_time", typ: "DATETIME"},
			{name: "source", typ: "TEXT"},
			createdAtColumn,
		},
	},
	{
		name: types.PatternsTable,
		ddl:  createPatterns,
		columns: []column{
			idColumn,
			{name: "pattern_type", typ: "TEXT"},
			{name: "data", typ: "TEXT"},
			createdAtColumn,
		},
	},
}

// columnNames returns the declared column names of the table in order.
func (s tableSpec) columnNames() []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.name
	}
	return names
}
