package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateCompactStepSequence(db); err != nil {
		return fmt.Errorf("compacting plan step sequence: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS work_items (
		id            TEXT PRIMARY KEY,
		parent_id     TEXT,
		title         TEXT NOT NULL,
		due_date      TEXT NOT NULL,
		total_min     INTEGER NOT NULL CHECK(total_min > 0),
		min_block_min INTEGER NOT NULL DEFAULT 30,
		max_block_min INTEGER NOT NULL DEFAULT 60,
		difficulty    REAL NOT NULL DEFAULT 0.5 CHECK(difficulty >= 0 AND difficulty <= 1),
		importance    REAL NOT NULL DEFAULT 0.5 CHECK(importance >= 0 AND importance <= 1),
		category      TEXT NOT NULL DEFAULT '',
		locked        INTEGER NOT NULL DEFAULT 0,
		status        TEXT NOT NULL DEFAULT 'todo'
		              CHECK(status IN ('todo','done','archived')),
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_work_items_status ON work_items(status)`,
	`CREATE INDEX IF NOT EXISTS idx_work_items_due ON work_items(due_date)`,

	`CREATE TABLE IF NOT EXISTS fixed_events (
		id        TEXT PRIMARY KEY,
		title     TEXT NOT NULL,
		start_at  TEXT NOT NULL,
		end_at    TEXT NOT NULL,
		is_locked INTEGER NOT NULL DEFAULT 1,
		source    TEXT NOT NULL DEFAULT 'manual'
		          CHECK(source IN ('calendar','manual','import','planner'))
	)`,

	`CREATE INDEX IF NOT EXISTS idx_fixed_events_start ON fixed_events(start_at)`,

	// work_item_id is not a foreign key: split sub-items have synthetic ids.
	`CREATE TABLE IF NOT EXISTS scheduled_blocks (
		id           TEXT PRIMARY KEY,
		work_item_id TEXT NOT NULL,
		title        TEXT NOT NULL DEFAULT '',
		start_at     TEXT NOT NULL,
		end_at       TEXT NOT NULL,
		created_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_scheduled_blocks_start ON scheduled_blocks(start_at)`,

	`CREATE TABLE IF NOT EXISTS block_feedback (
		seq              INTEGER PRIMARY KEY AUTOINCREMENT,
		id               TEXT NOT NULL,
		block_id         TEXT NOT NULL,
		work_item_id     TEXT NOT NULL,
		category         TEXT NOT NULL DEFAULT '',
		original_start   TEXT NOT NULL,
		original_end     TEXT NOT NULL,
		completion_ratio REAL NOT NULL DEFAULT 0
		                 CHECK(completion_ratio >= 0 AND completion_ratio <= 1),
		action           TEXT NOT NULL
		                 CHECK(action IN ('kept','rescheduled','deleted','shortened','extended')),
		recorded_at      TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS scheduler_preferences (
		id                TEXT PRIMARY KEY DEFAULT 'default',
		weight_urgency    REAL NOT NULL DEFAULT 1.0,
		weight_importance REAL NOT NULL DEFAULT 0.8,
		weight_difficulty REAL NOT NULL DEFAULT 0.5,
		weight_size       REAL NOT NULL DEFAULT 0.3,
		category_bias     TEXT NOT NULL DEFAULT '{}',
		energy_profile    TEXT NOT NULL DEFAULT ''
	)`,

	// Seed default preferences; an empty energy_profile reads as the default curve.
	`INSERT OR IGNORE INTO scheduler_preferences (id) VALUES ('default')`,

	`CREATE TABLE IF NOT EXISTS assignment_plans (
		assignment_id        TEXT PRIMARY KEY REFERENCES work_items(id) ON DELETE CASCADE,
		sequence_enforcement INTEGER NOT NULL DEFAULT 0,
		updated_at           TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS plan_steps (
		id             TEXT PRIMARY KEY,
		assignment_id  TEXT NOT NULL REFERENCES assignment_plans(assignment_id) ON DELETE CASCADE,
		title          TEXT NOT NULL,
		estimated_min  INTEGER NOT NULL DEFAULT 0,
		sequence_index INTEGER NOT NULL DEFAULT 0,
		completed      INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_plan_steps_assignment ON plan_steps(assignment_id)`,

	// prerequisite_id may name a step that no longer exists; readers ignore it.
	`CREATE TABLE IF NOT EXISTS plan_step_prerequisites (
		step_id         TEXT NOT NULL REFERENCES plan_steps(id) ON DELETE CASCADE,
		prerequisite_id TEXT NOT NULL,
		PRIMARY KEY (step_id, prerequisite_id)
	)`,

	// Course grouping and block category added after the first release.
	`ALTER TABLE work_items ADD COLUMN course_id TEXT`,
	`ALTER TABLE scheduled_blocks ADD COLUMN category TEXT NOT NULL DEFAULT ''`,
}

// migrateCompactStepSequence rewrites sequence_index to 0..n-1 per plan for
// plans whose indexes have gaps or duplicates. Idempotent: compact plans are
// skipped.
func migrateCompactStepSequence(db *sql.DB) error {
	ctx := context.Background()

	rows, err := db.QueryContext(ctx, `
		SELECT assignment_id FROM plan_steps
		GROUP BY assignment_id
		HAVING MIN(sequence_index) != 0
		    OR MAX(sequence_index) != COUNT(*) - 1
		    OR COUNT(DISTINCT sequence_index) != COUNT(*)
		ORDER BY assignment_id`)
	if err != nil {
		return fmt.Errorf("finding plans to compact: %w", err)
	}
	var planIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scanning assignment id: %w", err)
		}
		planIDs = append(planIDs, id)
	}
	rows.Close()

	for _, pid := range planIDs {
		if err := compactPlan(ctx, db, pid); err != nil {
			return fmt.Errorf("compacting plan %s: %w", pid, err)
		}
	}
	return nil
}

func compactPlan(ctx context.Context, db *sql.DB, assignmentID string) error {
	rows, err := db.QueryContext(ctx,
		`SELECT id FROM plan_steps WHERE assignment_id = ? ORDER BY sequence_index, id`, assignmentID)
	if err != nil {
		return fmt.Errorf("listing steps: %w", err)
	}
	var stepIDs []string
	for rows.Next() {
		var sid string
		if err := rows.Scan(&sid); err != nil {
			rows.Close()
			return err
		}
		stepIDs = append(stepIDs, sid)
	}
	rows.Close()

	for i, sid := range stepIDs {
		if _, err := db.ExecContext(ctx,
			`UPDATE plan_steps SET sequence_index = ? WHERE id = ?`, i, sid); err != nil {
			return fmt.Errorf("updating step sequence: %w", err)
		}
	}
	return nil
}
