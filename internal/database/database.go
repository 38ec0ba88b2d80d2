package database

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3"
)

type Database struct {
	db *sql.DB
}

var defaultReasons = []string{
	"Lack of motivation",
	"Distractions",
	"Task felt overwhelming",
	"Unclear requirements",
	"Low energy",
	"Perfectionism",
	"Competing priorities",
	"Other",
}

var defaultEmotions = []string{
	"Stressed",
	"Tired",
	"Anxious",
	"Relaxed",
	"Happy",
	"Frustrated",
	"Neutral",
	"Motivated",
}

func New(path string) (*Database, error) {
	if path == "" {
		return nil, fmt.Errorf("db path is required")
	}

	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// every connection to ":memory:" is a separate database
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}

	d := &Database{db: db}
	if err := d.init(); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Printf("✅ Database initialised: %s", path)
	return d, nil
}

func dsn(path string) string {
	if path == ":memory:" {
		return "file::memory:?_foreign_keys=on"
	}
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", path)
}

func (d *Database) init() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			task_id INTEGER PRIMARY KEY AUTOINCREMENT,
			task_name TEXT NOT NULL,
			category TEXT NOT NULL,
			planned_start TEXT NOT NULL,
			planned_end TEXT NOT NULL,
			actual_start TEXT,
			actual_end TEXT,
			status TEXT NOT NULL DEFAULT 'pending'
				CHECK(status IN ('pending', 'in-progress', 'completed'))
		)`,

		`CREATE TABLE IF NOT EXISTS user_tasks (
			user_id INTEGER NOT NULL,
			task_id INTEGER NOT NULL REFERENCES tasks(task_id) ON DELETE CASCADE,
			date_of_assigned TEXT NOT NULL,
			PRIMARY KEY (user_id, task_id)
		)`,

		`CREATE TABLE IF NOT EXISTS reasons (
			reason_id INTEGER PRIMARY KEY AUTOINCREMENT,
			reason_text TEXT UNIQUE NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS emotional_states (
			emotion_id INTEGER PRIMARY KEY AUTOINCREMENT,
			emotion_text TEXT UNIQUE NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS procrastination_logs (
			log_id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			task_id INTEGER NOT NULL REFERENCES tasks(task_id) ON DELETE CASCADE,
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,

		`CREATE TABLE IF NOT EXISTS procrastination_details (
			detail_id INTEGER PRIMARY KEY AUTOINCREMENT,
			log_id INTEGER NOT NULL UNIQUE REFERENCES procrastination_logs(log_id) ON DELETE CASCADE,
			delay_duration INTEGER NOT NULL CHECK(delay_duration >= 1),
			reason_id INTEGER NOT NULL REFERENCES reasons(reason_id),
			emotion_id INTEGER NOT NULL REFERENCES emotional_states(emotion_id),
			logged_date TEXT NOT NULL DEFAULT (datetime('now'))
		)`,

		`CREATE INDEX IF NOT EXISTS idx_user_tasks_assigned ON user_tasks(user_id, date_of_assigned)`,
		`CREATE INDEX IF NOT EXISTS idx_user_tasks_task ON user_tasks(task_id)`,
		`CREATE INDEX IF NOT EXISTS idx_logs_user ON procrastination_logs(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_logs_task ON procrastination_logs(task_id)`,
		`CREATE INDEX IF NOT EXISTS idx_details_logged ON procrastination_details(logged_date)`,
	}

	for _, query := range queries {
		if _, err := d.db.Exec(query); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	for _, reason := range defaultReasons {
		if _, err := d.db.Exec(`INSERT OR IGNORE INTO reasons (reason_text) VALUES (?)`, reason); err != nil {
			return fmt.Errorf("seed reasons: %w", err)
		}
	}
	for _, emotion := range defaultEmotions {
		if _, err := d.db.Exec(`INSERT OR IGNORE INTO emotional_states (emotion_text) VALUES (?)`, emotion); err != nil {
			return fmt.Errorf("seed emotions: %w", err)
		}
	}

	return nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) GetDB() *sql.DB {
	return d.db
}

// Wrap adopts an already opened handle without touching the schema.
func Wrap(db *sql.DB) *Database {
	return &Database{db: db}
}
