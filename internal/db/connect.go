package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:classforge.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/classforge?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  display_name TEXT NOT NULL DEFAULT '',
  role TEXT NOT NULL,
  password_hash TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS enrollments (
  room_id TEXT NOT NULL,
  student_id TEXT NOT NULL,
  enrolled_at INTEGER NOT NULL,
  PRIMARY KEY (room_id, student_id)
);

CREATE TABLE IF NOT EXISTS submission_grades (
  id TEXT PRIMARY KEY,
  assessment_id TEXT NOT NULL,
  room_id TEXT NOT NULL,
  student_id TEXT NOT NULL,
  category TEXT NOT NULL,            -- assignment | project
  marks REAL NOT NULL DEFAULT 0,
  max_marks REAL NOT NULL,
  is_graded INTEGER NOT NULL DEFAULT 0,
  updated_at INTEGER NOT NULL,
  UNIQUE (assessment_id, student_id)
);

CREATE TABLE IF NOT EXISTS quiz_grades (
  id TEXT PRIMARY KEY,
  assessment_id TEXT NOT NULL,
  room_id TEXT NOT NULL,
  student_id TEXT NOT NULL,
  marks REAL NOT NULL DEFAULT 0,
  max_marks REAL NOT NULL DEFAULT 15,
  is_graded INTEGER NOT NULL DEFAULT 0,
  updated_at INTEGER NOT NULL,
  UNIQUE (assessment_id, student_id)
);

CREATE TABLE IF NOT EXISTS grade_records (
  id TEXT PRIMARY KEY,
  room_id TEXT NOT NULL,
  student_id TEXT NOT NULL,
  mid_term_marks REAL,               -- 0..25, nullable until entered
  final_marks REAL,                  -- 0..35, nullable until entered
  average_assessment_marks REAL NOT NULL DEFAULT 0,
  total_marks REAL NOT NULL DEFAULT 0,
  updated_at INTEGER NOT NULL,
  UNIQUE (room_id, student_id)
);

CREATE TABLE IF NOT EXISTS achievements (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  category TEXT NOT NULL DEFAULT '',
  badge_tier TEXT NOT NULL,          -- bronze | silver | gold | platinum
  points_required REAL NOT NULL,
  criteria_type TEXT NOT NULL,       -- total_marks | average_marks | assessment_count | ...
  criteria_value REAL NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS achievement_awards (
  id TEXT PRIMARY KEY,
  student_id TEXT NOT NULL,
  achievement_id TEXT NOT NULL REFERENCES achievements(id),
  room_id TEXT NOT NULL,
  points_earned REAL NOT NULL,
  criteria_met_value REAL NOT NULL,
  earned_at INTEGER NOT NULL,
  UNIQUE (student_id, achievement_id, room_id)
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  display_name TEXT NOT NULL DEFAULT '',
  role TEXT NOT NULL,
  password_hash TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS enrollments (
  room_id TEXT NOT NULL,
  student_id TEXT NOT NULL,
  enrolled_at BIGINT NOT NULL,
  PRIMARY KEY (room_id, student_id)
);

CREATE TABLE IF NOT EXISTS submission_grades (
  id TEXT PRIMARY KEY,
  assessment_id TEXT NOT NULL,
  room_id TEXT NOT NULL,
  student_id TEXT NOT NULL,
  category TEXT NOT NULL,
  marks DOUBLE PRECISION NOT NULL DEFAULT 0,
  max_marks DOUBLE PRECISION NOT NULL,
  is_graded BOOLEAN NOT NULL DEFAULT FALSE,
  updated_at BIGINT NOT NULL,
  UNIQUE (assessment_id, student_id)
);

CREATE TABLE IF NOT EXISTS quiz_grades (
  id TEXT PRIMARY KEY,
  assessment_id TEXT NOT NULL,
  room_id TEXT NOT NULL,
  student_id TEXT NOT NULL,
  marks DOUBLE PRECISION NOT NULL DEFAULT 0,
  max_marks DOUBLE PRECISION NOT NULL DEFAULT 15,
  is_graded BOOLEAN NOT NULL DEFAULT FALSE,
  updated_at BIGINT NOT NULL,
  UNIQUE (assessment_id, student_id)
);

CREATE TABLE IF NOT EXISTS grade_records (
  id TEXT PRIMARY KEY,
  room_id TEXT NOT NULL,
  student_id TEXT NOT NULL,
  mid_term_marks DOUBLE PRECISION,
  final_marks DOUBLE PRECISION,
  average_assessment_marks DOUBLE PRECISION NOT NULL DEFAULT 0,
  total_marks DOUBLE PRECISION NOT NULL DEFAULT 0,
  updated_at BIGINT NOT NULL,
  UNIQUE (room_id, student_id)
);

CREATE TABLE IF NOT EXISTS achievements (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  category TEXT NOT NULL DEFAULT '',
  badge_tier TEXT NOT NULL,
  points_required DOUBLE PRECISION NOT NULL,
  criteria_type TEXT NOT NULL,
  criteria_value DOUBLE PRECISION NOT NULL,
  is_active BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS achievement_awards (
  id TEXT PRIMARY KEY,
  student_id TEXT NOT NULL,
  achievement_id TEXT NOT NULL REFERENCES achievements(id),
  room_id TEXT NOT NULL,
  points_earned DOUBLE PRECISION NOT NULL,
  criteria_met_value DOUBLE PRECISION NOT NULL,
  earned_at BIGINT NOT NULL,
  UNIQUE (student_id, achievement_id, room_id)
);
`
