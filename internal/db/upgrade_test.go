package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMigrate_UpgradePath_LegacySchema simulates upgrading a database created
// before course ids and block categories existed, with a plan whose step
// indexes have gaps. Verifies that data survives, new columns get defaults,
// and step indexes are compacted.
func TestMigrate_UpgradePath_LegacySchema(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`PRAGMA foreign_keys = ON`)
	require.NoError(t, err)

	legacyStatements := []string{
		`CREATE TABLE work_items (
			id            TEXT PRIMARY KEY,
			parent_id     TEXT,
			title         TEXT NOT NULL,
			due_date      TEXT NOT NULL,
			total_min     INTEGER NOT NULL CHECK(total_min > 0),
			min_block_min INTEGER NOT NULL DEFAULT 30,
			max_block_min INTEGER NOT NULL DEFAULT 60,
			difficulty    REAL NOT NULL DEFAULT 0.5,
			importance    REAL NOT NULL DEFAULT 0.5,
			category      TEXT NOT NULL DEFAULT '',
			locked        INTEGER NOT NULL DEFAULT 0,
			status        TEXT NOT NULL DEFAULT 'todo',
			created_at    TEXT NOT NULL,
			updated_at    TEXT NOT NULL
		)`,
		`CREATE TABLE scheduled_blocks (
			id           TEXT PRIMARY KEY,
			work_item_id TEXT NOT NULL,
			title        TEXT NOT NULL DEFAULT '',
			start_at     TEXT NOT NULL,
			end_at       TEXT NOT NULL,
			created_at   TEXT NOT NULL
		)`,
		`CREATE TABLE assignment_plans (
			assignment_id        TEXT PRIMARY KEY REFERENCES work_items(id) ON DELETE CASCADE,
			sequence_enforcement INTEGER NOT NULL DEFAULT 0,
			updated_at           TEXT NOT NULL
		)`,
		`CREATE TABLE plan_steps (
			id             TEXT PRIMARY KEY,
			assignment_id  TEXT NOT NULL REFERENCES assignment_plans(assignment_id) ON DELETE CASCADE,
			title          TEXT NOT NULL,
			estimated_min  INTEGER NOT NULL DEFAULT 0,
			sequence_index INTEGER NOT NULL DEFAULT 0,
			completed      INTEGER NOT NULL DEFAULT 0
		)`,
	}
	for i, stmt := range legacyStatements {
		_, err := db.Exec(stmt)
		require.NoError(t, err, "legacy statement %d failed", i)
	}

	_, err = db.Exec(`INSERT INTO work_items (id, title, due_date, total_min, created_at, updated_at)
		VALUES ('w1', 'Lab report', ?, 90, ?, ?)`, ts, ts, ts)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO scheduled_blocks (id, work_item_id, start_at, end_at, created_at)
		VALUES ('b1', 'w1', ?, ?, ?)`, ts, ts, ts)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO assignment_plans (assignment_id, updated_at) VALUES ('w1', ?)`, ts)
	require.NoError(t, err)
	for _, s := range []struct {
		id  string
		idx int
	}{{"s-a", 3}, {"s-b", 7}, {"s-c", 7}} {
		_, err = db.Exec(`INSERT INTO plan_steps (id, assignment_id, title, sequence_index) VALUES (?, 'w1', 'Step', ?)`, s.id, s.idx)
		require.NoError(t, err)
	}

	require.NoError(t, Migrate(db), "migration on legacy schema should succeed")

	var title string
	var totalMin int
	require.NoError(t, db.QueryRow(`SELECT title, total_min FROM work_items WHERE id = 'w1'`).Scan(&title, &totalMin))
	assert.Equal(t, "Lab report", title)
	assert.Equal(t, 90, totalMin)

	var courseID sql.NullString
	require.NoError(t, db.QueryRow(`SELECT course_id FROM work_items WHERE id = 'w1'`).Scan(&courseID))
	assert.False(t, courseID.Valid, "legacy items have no course")

	var category string
	require.NoError(t, db.QueryRow(`SELECT category FROM scheduled_blocks WHERE id = 'b1'`).Scan(&category))
	assert.Equal(t, "", category)

	rows, err := db.Query(`SELECT id, sequence_index FROM plan_steps ORDER BY sequence_index`)
	require.NoError(t, err)
	var got []string
	var idxs []int
	for rows.Next() {
		var id string
		var idx int
		require.NoError(t, rows.Scan(&id, &idx))
		got = append(got, id)
		idxs = append(idxs, idx)
	}
	rows.Close()
	assert.Equal(t, []string{"s-a", "s-b", "s-c"}, got)
	assert.Equal(t, []int{0, 1, 2}, idxs)

	require.NoError(t, Migrate(db), "re-running Migrate on already-migrated DB should succeed")
}
