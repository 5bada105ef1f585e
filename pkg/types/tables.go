package types

// Table names created by schema initialization.
const (
	GoalsTable          = "goals"
	TasksTable          = "tasks"
	DailyLogsTable      = "daily_logs"
	CalendarEventsTable = "calendar_events"
	PatternsTable       = "patterns"
)

// StandardTableNames lists all table names in dependency order: goals is
// created before tasks because tasks.goal_id references it.
var StandardTableNames = []string{
	GoalsTable,
	TasksTable,
	DailyLogsTable,
	CalendarEventsTable,
	PatternsTable,
}

// Column defaults applied by the storage engine when a row omits status.
const (
	GoalStatusActive  = "active"
	TaskStatusPending = "pending"
)

// SchemaVersion is the layout version recorded in the storage file.
const SchemaVersion = 1
