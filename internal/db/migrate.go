package db

import (
	"database/sql"
	"fmt"
	"strings"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS day_plans (
		date           TEXT PRIMARY KEY,
		brain_dump     TEXT NOT NULL DEFAULT '',
		top_goals_json TEXT NOT NULL DEFAULT '[]',
		updated_at     TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS schedule_items (
		date          TEXT NOT NULL REFERENCES day_plans(date) ON DELETE CASCADE,
		id            TEXT NOT NULL,
		start_time    REAL NOT NULL CHECK(start_time >= 0 AND start_time < 24),
		duration      REAL NOT NULL CHECK(duration > 0),
		activity      TEXT NOT NULL DEFAULT '',
		activity_type TEXT NOT NULL
		              CHECK(activity_type IN ('top-goal','leisure','physical','default')),
		PRIMARY KEY (date, id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_schedule_items_start ON schedule_items(date, start_time)`,
	`ALTER TABLE day_plans ADD COLUMN generation_seq INTEGER NOT NULL DEFAULT 0`,
	`CREATE TABLE IF NOT EXISTS rate_limit_hits (
		bucket TEXT NOT NULL,
		hit_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_rate_limit_hits_bucket ON rate_limit_hits(bucket, hit_at)`,
}

const postgresSettingsDDL = `CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// Migrate runs all schema migrations. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE has no IF NOT EXISTS form in SQLite.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
