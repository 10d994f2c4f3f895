package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/maintplan/internal/db"
	"github.com/alexanderramin/maintplan/internal/domain"
)

// SQLiteReservationRepo implements ReservationRepo using a SQLite database.
type SQLiteReservationRepo struct {
	db db.DBTX
}

func NewSQLiteReservationRepo(conn db.DBTX) *SQLiteReservationRepo {
	return &SQLiteReservationRepo{db: conn}
}

const reservationColumns = `id, plan_id, task_id, material_id, quantity, uom, warehouse_path, status, created_at, updated_at`

func (r *SQLiteReservationRepo) Create(ctx context.Context, res *domain.Reservation) error {
	query := `INSERT INTO reservations (` + reservationColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		res.ID, res.PlanID, res.TaskID, res.MaterialID, res.Quantity, res.UOM, res.WarehousePath,
		string(res.Status), formatTimestamp(res.CreatedAt), formatTimestamp(res.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting reservation: %w", err)
	}
	return nil
}

func (r *SQLiteReservationRepo) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id)
	res, err := scanReservation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reservation %s: %w", id, domain.ErrNotFound)
	}
	return res, err
}

func (r *SQLiteReservationRepo) ListByPlan(ctx context.Context, planID string) ([]*domain.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE plan_id = ? ORDER BY rowid`, planID)
	if err != nil {
		return nil, fmt.Errorf("listing reservations: %w", err)
	}
	defer rows.Close()

	var out []*domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reservations: %w", err)
	}
	return out, nil
}

func (r *SQLiteReservationRepo) Update(ctx context.Context, res *domain.Reservation) error {
	query := `UPDATE reservations SET quantity = ?, uom = ?, warehouse_path = ?, status = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		res.Quantity, res.UOM, res.WarehousePath, string(res.Status), formatTimestamp(res.UpdatedAt), res.ID)
	if err != nil {
		return fmt.Errorf("updating reservation: %w", err)
	}
	return nil
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	var statusStr, createdStr, updatedStr string
	err := row.Scan(&res.ID, &res.PlanID, &res.TaskID, &res.MaterialID, &res.Quantity, &res.UOM, &res.WarehousePath,
		&statusStr, &createdStr, &updatedStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning reservation: %w", err)
	}
	res.Status = domain.ReservationStatus(statusStr)
	if res.CreatedAt, err = parseTimestamp("created_at", createdStr); err != nil {
		return nil, err
	}
	if res.UpdatedAt, err = parseTimestamp("updated_at", updatedStr); err != nil {
		return nil, err
	}
	return &res, nil
}
