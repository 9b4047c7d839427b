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
	if err := migrateBackfillTopicSeq(db); err != nil {
		return fmt.Errorf("backfilling topic seq values: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         TEXT PRIMARY KEY,
		email      TEXT NOT NULL UNIQUE,
		full_name  TEXT NOT NULL,
		role       TEXT NOT NULL DEFAULT 'viewer'
		           CHECK(role IN ('admin','editor','viewer')),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS activities (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT,
		start_date  TEXT NOT NULL,
		end_date    TEXT NOT NULL,
		owner_id    TEXT NOT NULL REFERENCES users(id),
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		CHECK(start_date <= end_date)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_activities_owner ON activities(owner_id)`,

	`CREATE TABLE IF NOT EXISTS topics (
		id          TEXT PRIMARY KEY,
		activity_id TEXT NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
		title       TEXT NOT NULL,
		description TEXT,
		seq         INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_topics_activity ON topics(activity_id)`,

	`CREATE TABLE IF NOT EXISTS subtasks (
		id               TEXT PRIMARY KEY,
		topic_id         TEXT NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
		title            TEXT NOT NULL,
		description      TEXT,
		start_date       TEXT NOT NULL,
		end_date         TEXT NOT NULL,
		status           TEXT NOT NULL DEFAULT 'PLANNED'
		                 CHECK(status IN ('PLANNED','IN_PROGRESS','COMPLETED','OVERDUE')),
		assignee_id      TEXT REFERENCES users(id) ON DELETE SET NULL,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL,
		CHECK(start_date <= end_date)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_subtasks_topic ON subtasks(topic_id)`,
	`CREATE INDEX IF NOT EXISTS idx_subtasks_assignee ON subtasks(assignee_id)`,
	`CREATE INDEX IF NOT EXISTS idx_subtasks_start ON subtasks(start_date)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id             TEXT PRIMARY KEY,
		type           TEXT NOT NULL,
		message        TEXT NOT NULL,
		activity_id    TEXT REFERENCES activities(id) ON DELETE SET NULL,
		subtask_id     TEXT REFERENCES subtasks(id) ON DELETE SET NULL,
		target_user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_by_id  TEXT REFERENCES users(id) ON DELETE SET NULL,
		is_read        INTEGER NOT NULL DEFAULT 0,
		created_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_notifications_target ON notifications(target_user_id, is_read)`,

	// Progress tracking on sub-tasks
	`ALTER TABLE subtasks ADD COLUMN progress_percent INTEGER NOT NULL DEFAULT 0
		CHECK(progress_percent BETWEEN 0 AND 100)`,

	// Deactivated users keep their references but cannot be assigned
	`ALTER TABLE users ADD COLUMN is_active INTEGER NOT NULL DEFAULT 1`,

	// Creation order of topics within an activity
	`ALTER TABLE topics ADD COLUMN seq INTEGER NOT NULL DEFAULT 0`,
}

// migrateBackfillTopicSeq numbers topics that predate the seq column, per
// activity, in created_at order. Idempotent: only rows with seq = 0 are touched,
// and they are numbered after the activity's current maximum.
func migrateBackfillTopicSeq(db *sql.DB) error {
	ctx := context.Background()

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM topics WHERE seq = 0`).Scan(&count); err != nil {
		return fmt.Errorf("counting unnumbered topics: %w", err)
	}
	if count == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting backfill transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx,
		`SELECT id, activity_id FROM topics WHERE seq = 0 ORDER BY activity_id, created_at, rowid`)
	if err != nil {
		return fmt.Errorf("listing unnumbered topics: %w", err)
	}
	type pending struct{ id, activityID string }
	var todo []pending
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.id, &p.activityID); err != nil {
			rows.Close()
			return fmt.Errorf("scanning topic: %w", err)
		}
		todo = append(todo, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	next := map[string]int{}
	for _, p := range todo {
		n, ok := next[p.activityID]
		if !ok {
			if err := tx.QueryRowContext(ctx,
				`SELECT COALESCE(MAX(seq), 0) FROM topics WHERE activity_id = ?`, p.activityID).Scan(&n); err != nil {
				return fmt.Errorf("reading max seq for activity %s: %w", p.activityID, err)
			}
		}
		n++
		next[p.activityID] = n
		if _, err := tx.ExecContext(ctx, `UPDATE topics SET seq = ? WHERE id = ?`, n, p.id); err != nil {
			return fmt.Errorf("numbering topic %s: %w", p.id, err)
		}
	}
	return tx.Commit()
}
