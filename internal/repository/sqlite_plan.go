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

// SQLitePlanRepo implements PlanRepo using a SQLite database.
type SQLitePlanRepo struct {
	db db.DBTX
}

// NewSQLitePlanRepo creates a new SQLitePlanRepo.
func NewSQLitePlanRepo(conn db.DBTX) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: conn}
}

const planColumns = `id, number, title, start_date, end_date, work_start_min, work_end_min, breaks, status,
	stage1_uid, stage1_name, stage1_date, stage2_uid, stage2_name, stage2_date,
	schedule_fingerprint, committed_at, created_at, updated_at`

func (r *SQLitePlanRepo) Create(ctx context.Context, p *domain.Plan) error {
	breaks, err := encodeJSON(p.Calendar.Breaks)
	if err != nil {
		return fmt.Errorf("encoding breaks: %w", err)
	}
	s1uid, s1name, s1date := approvalColumns(p.Approvals.Stage1)
	s2uid, s2name, s2date := approvalColumns(p.Approvals.Stage2)

	query := `INSERT INTO plans (` + planColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		p.ID,
		p.Number,
		p.Title,
		p.StartDate.Format(dateLayout),
		p.EndDate.Format(dateLayout),
		p.Calendar.StartMin,
		p.Calendar.EndMin,
		breaks,
		string(p.EffectiveStatus()),
		s1uid, s1name, s1date,
		s2uid, s2name, s2date,
		p.ScheduleFingerprint,
		nullableTimeToString(p.CommittedAt, time.RFC3339),
		formatTimestamp(p.CreatedAt),
		formatTimestamp(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+planColumns+` FROM plans WHERE id = ?`, id)
	p, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("plan %s: %w", id, domain.ErrNotFound)
	}
	return p, err
}

func (r *SQLitePlanRepo) GetByNumber(ctx context.Context, number string) (*domain.Plan, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+planColumns+` FROM plans WHERE UPPER(number) = UPPER(?)`, number)
	p, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("plan %s: %w", number, domain.ErrNotFound)
	}
	return p, err
}

func (r *SQLitePlanRepo) List(ctx context.Context) ([]*domain.Plan, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+planColumns+` FROM plans ORDER BY start_date, number`)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer rows.Close()

	var plans []*domain.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plans: %w", err)
	}
	return plans, nil
}

func (r *SQLitePlanRepo) Update(ctx context.Context, p *domain.Plan) error {
	breaks, err := encodeJSON(p.Calendar.Breaks)
	if err != nil {
		return fmt.Errorf("encoding breaks: %w", err)
	}
	s1uid, s1name, s1date := approvalColumns(p.Approvals.Stage1)
	s2uid, s2name, s2date := approvalColumns(p.Approvals.Stage2)

	query := `UPDATE plans SET number = ?, title = ?, start_date = ?, end_date = ?,
		work_start_min = ?, work_end_min = ?, breaks = ?, status = ?,
		stage1_uid = ?, stage1_name = ?, stage1_date = ?,
		stage2_uid = ?, stage2_name = ?, stage2_date = ?,
		schedule_fingerprint = ?, committed_at = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Number,
		p.Title,
		p.StartDate.Format(dateLayout),
		p.EndDate.Format(dateLayout),
		p.Calendar.StartMin,
		p.Calendar.EndMin,
		breaks,
		string(p.EffectiveStatus()),
		s1uid, s1name, s1date,
		s2uid, s2name, s2date,
		p.ScheduleFingerprint,
		nullableTimeToString(p.CommittedAt, time.RFC3339),
		formatTimestamp(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating plan: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("plan %s: %w", p.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *SQLitePlanRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	return nil
}

func approvalColumns(a *domain.Approval) (any, any, any) {
	if a == nil {
		return nil, nil, nil
	}
	return a.UID, a.Name, formatTimestamp(a.Date)
}

func approvalFromColumns(uid, name, date sql.NullString) *domain.Approval {
	if !uid.Valid {
		return nil
	}
	a := &domain.Approval{UID: uid.String, Name: nullableString(name)}
	if d := parseNullableTime(date, time.RFC3339); d != nil {
		a.Date = *d
	}
	return a
}

func scanPlan(row rowScanner) (*domain.Plan, error) {
	var p domain.Plan
	var startStr, endStr, breaksStr, statusStr, createdStr, updatedStr string
	var s1uid, s1name, s1date, s2uid, s2name, s2date, committedStr sql.NullString

	err := row.Scan(
		&p.ID, &p.Number, &p.Title,
		&startStr, &endStr,
		&p.Calendar.StartMin, &p.Calendar.EndMin, &breaksStr,
		&statusStr,
		&s1uid, &s1name, &s1date,
		&s2uid, &s2name, &s2date,
		&p.ScheduleFingerprint, &committedStr,
		&createdStr, &updatedStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning plan: %w", err)
	}

	p.Status = domain.PlanStatus(statusStr)

	if p.StartDate, err = time.Parse(dateLayout, startStr); err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}
	if p.EndDate, err = time.Parse(dateLayout, endStr); err != nil {
		return nil, fmt.Errorf("parsing end_date: %w", err)
	}
	if p.Calendar.Breaks, err = decodeJSON[domain.Break]("breaks", breaksStr); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTimestamp("created_at", createdStr); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTimestamp("updated_at", updatedStr); err != nil {
		return nil, err
	}

	p.Approvals.Stage1 = approvalFromColumns(s1uid, s1name, s1date)
	p.Approvals.Stage2 = approvalFromColumns(s2uid, s2name, s2date)
	p.CommittedAt = parseNullableTime(committedStr, time.RFC3339)

	return &p, nil
}
