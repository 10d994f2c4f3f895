package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/maintplan/internal/db"
	"github.com/alexanderramin/maintplan/internal/domain"
)

// SQLiteWorkOrderRepo implements WorkOrderRepo using a SQLite database.
type SQLiteWorkOrderRepo struct {
	db db.DBTX
}

func NewSQLiteWorkOrderRepo(conn db.DBTX) *SQLiteWorkOrderRepo {
	return &SQLiteWorkOrderRepo{db: conn}
}

func (r *SQLiteWorkOrderRepo) Create(ctx context.Context, w *domain.WorkOrder) error {
	query := `INSERT INTO work_orders (id, plan_id, number, title, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	status := w.Status
	if status == "" {
		status = domain.WorkOrderOpen
	}
	_, err := r.db.ExecContext(ctx, query,
		w.ID, w.PlanID, w.Number, w.Title, string(status),
		formatTimestamp(w.CreatedAt), formatTimestamp(w.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting work order: %w", err)
	}
	return nil
}

func (r *SQLiteWorkOrderRepo) ListByPlan(ctx context.Context, planID string) ([]*domain.WorkOrder, error) {
	query := `SELECT id, plan_id, number, title, status, created_at, updated_at
		FROM work_orders WHERE plan_id = ? ORDER BY rowid`
	rows, err := r.db.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("listing work orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.WorkOrder
	for rows.Next() {
		var w domain.WorkOrder
		var statusStr, createdStr, updatedStr string
		if err := rows.Scan(&w.ID, &w.PlanID, &w.Number, &w.Title, &statusStr, &createdStr, &updatedStr); err != nil {
			return nil, fmt.Errorf("scanning work order: %w", err)
		}
		w.Status = domain.WorkOrderStatus(statusStr)
		if w.CreatedAt, err = parseTimestamp("created_at", createdStr); err != nil {
			return nil, err
		}
		if w.UpdatedAt, err = parseTimestamp("updated_at", updatedStr); err != nil {
			return nil, err
		}
		orders = append(orders, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating work orders: %w", err)
	}
	return orders, nil
}

func (r *SQLiteWorkOrderRepo) SetStatusByPlan(ctx context.Context, planID string, status domain.WorkOrderStatus, now time.Time) error {
	query := `UPDATE work_orders SET status = ?, updated_at = ? WHERE plan_id = ?`
	if _, err := r.db.ExecContext(ctx, query, string(status), formatTimestamp(now), planID); err != nil {
		return fmt.Errorf("updating work order status: %w", err)
	}
	return nil
}
