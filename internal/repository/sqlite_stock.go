package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/maintplan/internal/db"
	"github.com/alexanderramin/maintplan/internal/domain"
)

// SQLiteStockRepo stores the live stock map. Levels are written verbatim;
// reservations never decrement them.
type SQLiteStockRepo struct {
	db db.DBTX
}

func NewSQLiteStockRepo(conn db.DBTX) *SQLiteStockRepo {
	return &SQLiteStockRepo{db: conn}
}

func (r *SQLiteStockRepo) Upsert(ctx context.Context, s domain.StockLevel) error {
	query := `INSERT INTO stock_levels (material_id, available_qty, lead_time_days, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(material_id) DO UPDATE SET
			available_qty = excluded.available_qty,
			lead_time_days = excluded.lead_time_days,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query, s.MaterialID, s.AvailableQty, s.LeadTimeDays, formatTimestamp(s.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upserting stock level %s: %w", s.MaterialID, err)
	}
	return nil
}

func (r *SQLiteStockRepo) Get(ctx context.Context, materialID string) (*domain.StockLevel, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT material_id, available_qty, lead_time_days, updated_at FROM stock_levels WHERE material_id = ?`, materialID)
	s, err := scanStock(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("stock level %s: %w", materialID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SQLiteStockRepo) List(ctx context.Context) ([]domain.StockLevel, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT material_id, available_qty, lead_time_days, updated_at FROM stock_levels ORDER BY material_id`)
	if err != nil {
		return nil, fmt.Errorf("listing stock levels: %w", err)
	}
	defer rows.Close()

	var levels []domain.StockLevel
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, err
		}
		levels = append(levels, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stock levels: %w", err)
	}
	return levels, nil
}

func scanStock(row rowScanner) (domain.StockLevel, error) {
	var s domain.StockLevel
	var updatedStr string
	if err := row.Scan(&s.MaterialID, &s.AvailableQty, &s.LeadTimeDays, &updatedStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s, err
		}
		return s, fmt.Errorf("scanning stock level: %w", err)
	}
	var err error
	if s.UpdatedAt, err = parseTimestamp("updated_at", updatedStr); err != nil {
		return s, err
	}
	return s, nil
}
