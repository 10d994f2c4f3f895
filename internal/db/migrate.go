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
	if err := migrateBackfillWorkOrderStatus(db); err != nil {
		return fmt.Errorf("backfilling work order status: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS plans (
		id             TEXT PRIMARY KEY,
		number         TEXT NOT NULL,
		title          TEXT NOT NULL DEFAULT '',
		start_date     TEXT NOT NULL,
		end_date       TEXT NOT NULL,
		work_start_min INTEGER NOT NULL DEFAULT 480,
		work_end_min   INTEGER NOT NULL DEFAULT 1020,
		breaks         TEXT NOT NULL DEFAULT '[]',
		status         TEXT NOT NULL DEFAULT 'DRAFT'
		               CHECK(status IN ('DRAFT','IN_PROGRESS','SCHEDULED','COMPLETED')),
		stage1_uid     TEXT,
		stage1_name    TEXT,
		stage1_date    TEXT,
		stage2_uid     TEXT,
		stage2_name    TEXT,
		stage2_date    TEXT,
		committed_at   TEXT,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_plans_number ON plans(number)`,

	`CREATE TABLE IF NOT EXISTS work_orders (
		id         TEXT PRIMARY KEY,
		plan_id    TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		number     TEXT NOT NULL,
		title      TEXT NOT NULL DEFAULT '',
		status     TEXT NOT NULL DEFAULT 'OPEN'
		           CHECK(status IN ('OPEN','SCHEDULED','COMPLETED')),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_work_orders_plan ON work_orders(plan_id)`,

	// Nested task records are stored as JSON documents.
	`CREATE TABLE IF NOT EXISTS tasks (
		id                TEXT PRIMARY KEY,
		work_order_id     TEXT NOT NULL REFERENCES work_orders(id) ON DELETE CASCADE,
		task_id           TEXT NOT NULL DEFAULT '',
		name              TEXT NOT NULL,
		description       TEXT NOT NULL DEFAULT '',
		estimated_hours   REAL NOT NULL DEFAULT 0,
		preceding_task_id TEXT NOT NULL DEFAULT '',
		scheduled_start   TEXT,
		assigned_to       TEXT NOT NULL DEFAULT '[]',
		risk_assessments  TEXT NOT NULL DEFAULT '[]',
		required_spares   TEXT NOT NULL DEFAULT '[]',
		required_services TEXT NOT NULL DEFAULT '[]',
		is_critical       INTEGER NOT NULL DEFAULT 0,
		is_break_in       INTEGER NOT NULL DEFAULT 0,
		status            TEXT NOT NULL DEFAULT 'PENDING'
		                  CHECK(status IN ('PENDING','COMPLETED')),
		completed_at      TEXT,
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_work_order ON tasks(work_order_id)`,

	`CREATE TABLE IF NOT EXISTS reservations (
		id             TEXT PRIMARY KEY,
		plan_id        TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		task_id        TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		material_id    TEXT NOT NULL,
		quantity       REAL NOT NULL DEFAULT 0,
		uom            TEXT NOT NULL DEFAULT '',
		warehouse_path TEXT NOT NULL DEFAULT '',
		status         TEXT NOT NULL DEFAULT 'RESERVED'
		               CHECK(status IN ('RESERVED','ORDERED','ISSUED')),
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_reservations_plan ON reservations(plan_id)`,

	`CREATE TABLE IF NOT EXISTS stock_levels (
		material_id    TEXT PRIMARY KEY,
		available_qty  REAL NOT NULL DEFAULT 0,
		lead_time_days INTEGER NOT NULL DEFAULT 0,
		updated_at     TEXT NOT NULL
	)`,

	// Commit stores the fingerprint of the schedule it was validated against.
	`ALTER TABLE plans ADD COLUMN schedule_fingerprint TEXT NOT NULL DEFAULT ''`,
}

// migrateBackfillWorkOrderStatus brings work orders of plans that were
// committed before work order statuses were tracked in line with their plan.
// Idempotent: only OPEN work orders of non-draft plans are touched.
func migrateBackfillWorkOrderStatus(db *sql.DB) error {
	ctx := context.Background()

	query := `UPDATE work_orders
		SET status = CASE
			(SELECT status FROM plans WHERE plans.id = work_orders.plan_id)
			WHEN 'COMPLETED' THEN 'COMPLETED'
			ELSE 'SCHEDULED'
		END
		WHERE status = 'OPEN'
		AND plan_id IN (SELECT id FROM plans WHERE status != 'DRAFT')`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("updating work order status: %w", err)
	}
	return nil
}
