package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/automaton-core/automaton/internal/infrastructure/config"
	"github.com/automaton-core/automaton/internal/robot"
)

// Journal configuration constants.
const (
	// dirPermissions is the permission mode for the journal directory.
	dirPermissions = 0750

	// filePermissions is the permission mode for the journal file.
	filePermissions = 0600

	// msPerSecond converts seconds to milliseconds.
	msPerSecond = 1000

	// connectionTimeout is the timeout for verifying database connectivity.
	connectionTimeout = 5 * time.Second

	// recordTimeout bounds a single event insert triggered from a robot's
	// synchronous event bus.
	recordTimeout = 5 * time.Second

	defaultRecentLimit = 50
	maxRecentLimit     = 200
)

// schema is applied on every Open; idempotent by construction.
const schema = `
CREATE TABLE IF NOT EXISTS lifecycle_events (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    robot       TEXT NOT NULL,
    event       TEXT NOT NULL,
    detail      TEXT NOT NULL DEFAULT '',
    recorded_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_lifecycle_events_robot ON lifecycle_events(robot);
`

// Logger defines the logging interface used by the Journal.
type Logger interface {
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Journal is an append-only operational log of robot lifecycle events,
// backed by SQLite. It records what happened and when; it is not a store of
// controller state and nothing is replayed from it on startup.
type Journal struct {
	db     *sql.DB
	path   string
	logger Logger
}

// Entry is one recorded lifecycle event, newest first from Recent.
type Entry struct {
	ID         int64     `json:"id"`
	Robot      string    `json:"robot"`
	Event      string    `json:"event"`
	Detail     string    `json:"detail,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Open creates the journal database with the specified configuration.
//
// It performs the following setup:
//  1. Creates the journal directory if it doesn't exist
//  2. Opens the database file (creates if not present)
//  3. Configures WAL mode and busy timeout
//  4. Applies the schema and verifies the connection
//
// Returns ErrDisabled when the journal is turned off in configuration.
func Open(cfg config.JournalConfig) (*Journal, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	// See: https://github.com/mattn/go-sqlite3#connection-string
	connStr := fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on",
		cfg.Path,
		cfg.BusyTimeout*msPerSecond,
	)
	if cfg.WALMode {
		connStr += "&_journal_mode=WAL&_synchronous=NORMAL"
	}

	sqlDB, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	// SQLite only supports one writer.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	j := &Journal{
		db:     sqlDB,
		path:   cfg.Path,
		logger: noopLogger{},
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("verifying journal connection: %w", err)
	}

	if _, err := sqlDB.ExecContext(ctx, schema); err != nil {
		sqlDB.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("applying journal schema: %w", err)
	}

	// Owner read/write only. Ignore error - the file might not exist yet on
	// some first-run paths.
	_ = os.Chmod(cfg.Path, filePermissions)

	return j, nil
}

// SetLogger sets the logger for the journal.
func (j *Journal) SetLogger(logger Logger) {
	j.logger = logger
}

// Record appends one lifecycle event.
func (j *Journal) Record(ctx context.Context, robotName, event, detail string) error {
	if robotName == "" || event == "" {
		return fmt.Errorf("%w: robot and event are required", ErrInvalidEntry)
	}

	_, err := j.db.ExecContext(ctx,
		"INSERT INTO lifecycle_events (robot, event, detail) VALUES (?, ?, ?)",
		robotName, event, detail,
	)
	if err != nil {
		return fmt.Errorf("inserting lifecycle event: %w", err)
	}
	return nil
}

// Recent returns the latest entries for a robot, newest first.
// Limit defaults to 50 and is capped at 200.
func (j *Journal) Recent(ctx context.Context, robotName string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	rows, err := j.db.QueryContext(ctx,
		"SELECT id, robot, event, detail, recorded_at FROM lifecycle_events WHERE robot = ? ORDER BY id DESC LIMIT ?",
		robotName, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying lifecycle events: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only iteration

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Robot, &e.Event, &e.Detail, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning lifecycle event: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lifecycle events: %w", err)
	}
	return entries, nil
}

// Attach subscribes the journal to a robot's lifecycle events. Recording
// failures are logged, never surfaced: the journal must not interfere with
// the start/halt paths it observes.
func (j *Journal) Attach(bot *robot.Robot) {
	record := func(event, detail string) {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := j.Record(ctx, bot.Name(), event, detail); err != nil {
			j.logger.Warn("journal record failed", "robot", bot.Name(), "event", event, "error", err)
		}
	}

	bot.On(robot.EventReady, func(any) {
		record(robot.EventReady, "")
	})
	bot.On(robot.EventError, func(payload any) {
		detail := ""
		if err, ok := payload.(error); ok {
			detail = err.Error()
		}
		record(robot.EventError, detail)
	})
}

// HealthCheck verifies the journal database is reachable.
func (j *Journal) HealthCheck(ctx context.Context) error {
	if err := j.db.PingContext(ctx); err != nil {
		return fmt.Errorf("journal ping: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}
