package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/maintplan/internal/db"
	"github.com/alexanderramin/maintplan/internal/domain"
)

// SQLiteTaskRepo implements TaskRepo using a SQLite database. Assignees, risk
// assessments, spares and services are stored as JSON columns on the task row.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

const taskColumns = `t.id, t.work_order_id, t.task_id, t.name, t.description, t.estimated_hours,
	t.preceding_task_id, t.scheduled_start, t.assigned_to, t.risk_assessments,
	t.required_spares, t.required_services, t.is_critical, t.is_break_in,
	t.status, t.completed_at, t.created_at, t.updated_at`

// taskDocs holds the JSON-encoded nested lists of a task.
type taskDocs struct {
	assignedTo, risks, spares, services string
}

func encodeTaskDocs(t *domain.Task) (taskDocs, error) {
	var d taskDocs
	var err error
	if d.assignedTo, err = encodeJSON(t.AssignedTo); err != nil {
		return d, fmt.Errorf("encoding assigned_to: %w", err)
	}
	if d.risks, err = encodeJSON(t.RiskAssessments); err != nil {
		return d, fmt.Errorf("encoding risk_assessments: %w", err)
	}
	if d.spares, err = encodeJSON(t.RequiredSpares); err != nil {
		return d, fmt.Errorf("encoding required_spares: %w", err)
	}
	if d.services, err = encodeJSON(t.RequiredServices); err != nil {
		return d, fmt.Errorf("encoding required_services: %w", err)
	}
	return d, nil
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	docs, err := encodeTaskDocs(t)
	if err != nil {
		return err
	}
	status := t.Status
	if status == "" {
		status = domain.TaskPending
	}

	query := `INSERT INTO tasks (id, work_order_id, task_id, name, description, estimated_hours,
		preceding_task_id, scheduled_start, assigned_to, risk_assessments, required_spares,
		required_services, is_critical, is_break_in, status, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		t.ID,
		t.WorkOrderID,
		t.TaskID,
		t.Name,
		t.Description,
		t.EstimatedHours,
		t.PrecedingTaskID,
		nullableTimeToString(t.ScheduledStart, time.RFC3339),
		docs.assignedTo,
		docs.risks,
		docs.spares,
		docs.services,
		boolToInt(t.IsCritical),
		boolToInt(t.IsBreakIn),
		string(status),
		nullableTimeToString(t.CompletedAt, time.RFC3339),
		formatTimestamp(t.CreatedAt),
		formatTimestamp(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks t WHERE t.id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}
	return t, err
}

func (r *SQLiteTaskRepo) ListByPlan(ctx context.Context, planID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks t
		JOIN work_orders w ON w.id = t.work_order_id
		WHERE w.plan_id = ?
		ORDER BY t.rowid`
	rows, err := r.db.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	docs, err := encodeTaskDocs(t)
	if err != nil {
		return err
	}
	query := `UPDATE tasks SET task_id = ?, name = ?, description = ?, estimated_hours = ?,
		preceding_task_id = ?, scheduled_start = ?, assigned_to = ?, risk_assessments = ?,
		required_spares = ?, required_services = ?, is_critical = ?, is_break_in = ?,
		status = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.TaskID,
		t.Name,
		t.Description,
		t.EstimatedHours,
		t.PrecedingTaskID,
		nullableTimeToString(t.ScheduledStart, time.RFC3339),
		docs.assignedTo,
		docs.risks,
		docs.spares,
		docs.services,
		boolToInt(t.IsCritical),
		boolToInt(t.IsBreakIn),
		string(t.Status),
		nullableTimeToString(t.CompletedAt, time.RFC3339),
		formatTimestamp(t.UpdatedAt),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("task %s: %w", t.ID, domain.ErrNotFound)
	}
	return nil
}

// PlanIDForTask resolves the plan a task belongs to through its work order.
func (r *SQLiteTaskRepo) PlanIDForTask(ctx context.Context, taskID string) (string, error) {
	var planID string
	err := r.db.QueryRowContext(ctx,
		`SELECT w.plan_id FROM tasks t JOIN work_orders w ON w.id = t.work_order_id WHERE t.id = ?`, taskID).
		Scan(&planID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("task %s: %w", taskID, domain.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("resolving plan for task: %w", err)
	}
	return planID, nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	var docs taskDocs
	var statusStr, createdStr, updatedStr string
	var startStr, completedStr sql.NullString
	var isCritical, isBreakIn int

	err := row.Scan(
		&t.ID, &t.WorkOrderID, &t.TaskID, &t.Name, &t.Description, &t.EstimatedHours,
		&t.PrecedingTaskID, &startStr,
		&docs.assignedTo, &docs.risks, &docs.spares, &docs.services,
		&isCritical, &isBreakIn,
		&statusStr, &completedStr, &createdStr, &updatedStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	t.Status = domain.TaskStatus(statusStr)
	t.IsCritical = intToBool(isCritical)
	t.IsBreakIn = intToBool(isBreakIn)
	t.ScheduledStart = parseNullableTime(startStr, time.RFC3339)
	t.CompletedAt = parseNullableTime(completedStr, time.RFC3339)

	if t.AssignedTo, err = decodeJSON[domain.Assignee]("assigned_to", docs.assignedTo); err != nil {
		return nil, err
	}
	if t.RiskAssessments, err = decodeJSON[domain.RiskAssessment]("risk_assessments", docs.risks); err != nil {
		return nil, err
	}
	if t.RequiredSpares, err = decodeJSON[domain.RequiredSpare]("required_spares", docs.spares); err != nil {
		return nil, err
	}
	if t.RequiredServices, err = decodeJSON[domain.RequiredService]("required_services", docs.services); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTimestamp("created_at", createdStr); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTimestamp("updated_at", updatedStr); err != nil {
		return nil, err
	}
	return &t, nil
}
